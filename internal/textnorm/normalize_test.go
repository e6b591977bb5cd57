package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLight(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Apa   itu Margin?  ", "apa itu margin?"},
		{"BAGAIMANA\tCARA\nDEPOSIT", "bagaimana cara deposit"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Light(c.in), "Light(%q)", c.in)
	}
}

func TestFullStripsPunctuation(t *testing.T) {
	assert.Equal(t, "apa itu margin call", Full("Apa itu Margin Call?!"))
	assert.Equal(t, "bagaimana cara deposit", Full(`"Bagaimana" cara deposit.`))
	assert.Equal(t, "cara isi saldo", Full("cara (isi) [saldo];"))
}

func TestFullFoldsSynonymsWholeWord(t *testing.T) {
	assert.Equal(t, "bagaimana cara deposit", Full("gimana cara deposit"))
	assert.Equal(t, "fungsi fitur watchlist", Full("buat apa fitur watchlist?"))
	assert.Equal(t, "cara pakai aplikasi", Full("cara pakai apk"))
	// No substring corruption: "appetite" and "gimanapun" keep their spelling.
	assert.Equal(t, "appetite", Full("appetite"))
	assert.Equal(t, "gimanapun", Full("gimanapun"))
}

func TestTokensFiltersStopwordsAndShortTokens(t *testing.T) {
	toks := Tokens(Full("Apa itu margin call di aplikasi?"))
	assert.Equal(t, []string{"margin", "call", "aplikasi"}, toks)

	assert.Empty(t, Tokens(""))
	assert.Empty(t, Tokens(Full("apa itu di ke")))
}

func TestTokenSet(t *testing.T) {
	set := TokenSet("lihat saldo margin")
	assert.Len(t, set, 3)
	_, ok := set["saldo"]
	assert.True(t, ok)
}

func TestContainsAny(t *testing.T) {
	assert.True(t, ContainsAny("dimana bisa lihat saldo", IntentMarkers))
	assert.False(t, ContainsAny("cara deposit dana", IntentMarkers))
	assert.True(t, ContainsAny("fungsi fitur ini", PurposeMarkers))
}
