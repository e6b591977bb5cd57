// Package textnorm canonicalizes free-text questions before matching.
//
// Two levels exist: Light (lowercase, whitespace collapse, trim) feeds
// category comparison and the semantic retriever; Full additionally strips
// punctuation and folds informal spellings onto the catalog's canonical ones
// and feeds every exact/fuzzy/lexical comparison. Both are pure functions.
package textnorm

import (
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

// punctuation stripped by Full. Kept in sync with the catalog's own
// question style: entries never rely on these characters for meaning.
const punctuation = `?.!,:;"'()[]{}`

// synonyms are ordered whole-word substitutions applied by Full. Informal
// or abbreviated spellings fold onto the spelling the catalog uses.
var synonyms = []struct{ from, to string }{
	{"buat apa", "fungsi"},
	{"gimana", "bagaimana"},
	{"gmn", "bagaimana"},
	{"knp", "kenapa"},
	{"apk", "aplikasi"},
	{"app", "aplikasi"},
	{"akun saya", "akun"},
}

var synonymRules = compileSynonyms()

func compileSynonyms() []struct {
	re *regexp.Regexp
	to string
} {
	rules := make([]struct {
		re *regexp.Regexp
		to string
	}, len(synonyms))
	for i, s := range synonyms {
		rules[i].re = regexp.MustCompile(`\b` + regexp.QuoteMeta(s.from) + `\b`)
		rules[i].to = s.to
	}
	return rules
}

// stopwords are Indonesian function words excluded from token-based
// computations. They stay in the canonical string itself.
var stopwords = map[string]struct{}{
	"apa": {}, "yang": {}, "di": {}, "ke": {}, "dari": {}, "untuk": {},
	"dengan": {}, "dan": {}, "atau": {}, "ini": {}, "itu": {}, "saya": {},
	"aku": {}, "kamu": {}, "pada": {}, "ada": {}, "akan": {}, "sudah": {},
	"juga": {}, "adalah": {}, "jika": {}, "kalau": {}, "saja": {},
	"mohon": {}, "tolong": {}, "dong": {}, "sih": {}, "kah": {},
}

// IntentMarkers signal an informational/overview question ("where do I see
// X", "what information is displayed"). One set, shared by the local
// matcher's rule override and the scorer's intent adjustment.
var IntentMarkers = []string{"lihat", "melihat", "dilihat", "informasi", "ditampilkan", "menampilkan", "tampil"}

// PurposeMarkers signal the narrower "what is X for" question shape.
var PurposeMarkers = []string{"fungsi", "kegunaan", "gunanya"}

// Light lowercases, collapses whitespace runs to a single space and trims.
func Light(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(strings.ToLower(s), " "))
}

// Full applies Light, strips the fixed punctuation set and folds synonyms.
// Substitutions are whole-word so unrelated tokens are never corrupted.
func Full(s string) string {
	out := Light(s)
	out = strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, out)
	out = Light(out)
	for _, rule := range synonymRules {
		out = rule.re.ReplaceAllString(out, rule.to)
	}
	return Light(out)
}

// Tokens splits an already Full-normalized string on spaces and drops
// stopwords and tokens shorter than three characters. The canonical string
// used for exact comparison is not affected by this filtering.
func Tokens(normalized string) []string {
	if normalized == "" {
		return nil
	}
	var out []string
	for _, tok := range strings.Split(normalized, " ") {
		if len([]rune(tok)) < 3 {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// TokenSet is Tokens as a set, for overlap and membership checks.
func TokenSet(normalized string) map[string]struct{} {
	toks := Tokens(normalized)
	set := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		set[t] = struct{}{}
	}
	return set
}

// ContainsAny reports whether the normalized string contains any of the
// marker substrings.
func ContainsAny(normalized string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(normalized, m) {
			return true
		}
	}
	return false
}
