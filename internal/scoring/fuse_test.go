package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tanya/internal/models"
	"tanya/internal/textnorm"
)

func TestFuseDeduplicatesByNormalizedQuestion(t *testing.T) {
	cat := &models.Category{
		Name: "TRADING",
		Entries: []models.FaqEntry{
			{Question: "Apa itu margin call?", Answer: "jawaban"},
		},
	}
	semantic := []models.ScoredPoint{
		{Question: "Apa itu margin call?", Answer: "jawaban", Score: 0.4},
		{Question: "APA ITU MARGIN CALL", Answer: "jawaban", Score: 0.7},
	}

	cands := Fuse(semantic, cat, textnorm.Full("apa itu margin call"))
	require.Len(t, cands, 1)
	assert.Equal(t, models.CandidateSemantic, cands[0].Source)
	assert.True(t, cands[0].Lexical, "lexical flag preserved when both sources produce the entry")
	assert.Equal(t, 0.7, cands[0].SemanticScore, "semantic score is the max across occurrences")
}

func TestFuseLexicalCandidatesNeedASharedToken(t *testing.T) {
	cat := &models.Category{
		Name: "TRADING",
		Entries: []models.FaqEntry{
			{Question: "Bagaimana cara deposit dana?", Answer: "a1"},
			{Question: "Bagaimana cara mengganti password?", Answer: "a2"},
		},
	}

	cands := Fuse(nil, cat, textnorm.Full("deposit dana"))
	require.Len(t, cands, 1)
	assert.Equal(t, models.CandidateLexical, cands[0].Source)
	assert.True(t, cands[0].Lexical)
	assert.Zero(t, cands[0].SemanticScore)
	assert.Equal(t, "a1", cands[0].Entry.Answer)
}

func TestFuseEmptyInputs(t *testing.T) {
	assert.Empty(t, Fuse(nil, &models.Category{Name: "EMPTY"}, "apa pun"))
}

func TestKeywordAdjustment(t *testing.T) {
	withMargin := textnorm.TokenSet(textnorm.Full("apa itu margin call"))
	without := textnorm.TokenSet(textnorm.Full("cara deposit dana"))

	assert.InDelta(t, 0.12, keywordAdjustment(withMargin, "berapa margin minimum"), 1e-12)
	assert.InDelta(t, -0.06, keywordAdjustment(withMargin, "berapa batas minimum"), 1e-12)
	assert.Zero(t, keywordAdjustment(without, "berapa margin minimum"))
}

func TestKeywordRankingMonotonic(t *testing.T) {
	cat := &models.Category{Name: "TRADING"}
	semantic := []models.ScoredPoint{
		{Question: "berapa batas minimum", Answer: "without", Score: 0.5},
		{Question: "berapa margin minimum", Answer: "with", Score: 0.5},
	}

	cands := Fuse(semantic, cat, textnorm.Full("apa itu margin"))
	require.Len(t, cands, 2)
	assert.Equal(t, "with", cands[0].Entry.Answer)
	assert.Greater(t, cands[0].Composite, cands[1].Composite)
}

func TestIntentAdjustment(t *testing.T) {
	query := textnorm.Full("dimana lihat saldo akun")

	assert.InDelta(t, 0.35, intentAdjustment(query, "informasi saldo akun"), 1e-12)
	assert.InDelta(t, 0.20, intentAdjustment(query, "ringkasan informasi saldo"), 1e-12)
	assert.InDelta(t, -0.25, intentAdjustment(query, "fungsi menu saldo"), 1e-12)
	assert.Zero(t, intentAdjustment(query, "berapa saldo minimum"))

	// Queries without informational intent never trigger the rule.
	assert.Zero(t, intentAdjustment("cara deposit dana", "informasi saldo akun"))
}

func TestTokenOverlapIsJaccard(t *testing.T) {
	cat := &models.Category{
		Name: "TRADING",
		Entries: []models.FaqEntry{
			{Question: "margin minimum akun", Answer: "a"},
		},
	}
	// query tokens {margin, call}; candidate tokens {margin, minimum, akun}
	cands := Fuse(nil, cat, textnorm.Full("margin call"))
	require.Len(t, cands, 1)
	assert.InDelta(t, 1.0/4.0, cands[0].TokenOverlap, 1e-12)
}

func TestCompositeTieKeepsFusionOrder(t *testing.T) {
	cat := &models.Category{Name: "X"}
	semantic := []models.ScoredPoint{
		{Question: "alpha beta", Answer: "first", Score: 0.5},
		{Question: "beta alpha", Answer: "second", Score: 0.5},
	}

	cands := Fuse(semantic, cat, textnorm.Full("gamma delta"))
	require.Len(t, cands, 2)
	assert.Equal(t, cands[0].Composite, cands[1].Composite)
	assert.Equal(t, "first", cands[0].Entry.Answer)
}
