// Package match resolves a question against a single category's entries
// without touching any external provider: rule override, exact match, then
// Sorensen-Dice fuzzy match, in that order.
package match

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"tanya/internal/models"
	"tanya/internal/textnorm"
)

// FuzzyThreshold is the minimum rating a local fuzzy match must reach.
const FuzzyThreshold = 0.6

// ruleScore is the fixed confidence reported by the rule override.
const ruleScore = 0.99

var dice = metrics.NewSorensenDice()

// Result is a successful local match.
type Result struct {
	Entry models.FaqEntry
	Score float64
	Mode  models.ResolutionMode
}

// Rating is the symmetric string-similarity measure used everywhere a fuzzy
// rating is needed: Sorensen-Dice over character bigrams, range [0,1]. Inputs
// are expected to be Full-normalized already.
func Rating(a, b string) float64 {
	return strutil.Similarity(a, b, dice)
}

// Local runs the three local stages against one category. It returns nil on
// a miss, which hands the cascade over to semantic retrieval.
func Local(question string, cat *models.Category) *Result {
	if cat == nil || len(cat.Entries) == 0 {
		return nil
	}
	normQuery := textnorm.Full(question)

	if r := ruleOverride(normQuery, cat); r != nil {
		return r
	}

	best := models.FaqEntry{}
	bestRating := -1.0
	for _, entry := range cat.Entries {
		normEntry := textnorm.Full(entry.Question)
		if normEntry == normQuery {
			return &Result{Entry: entry, Score: 1.0, Mode: models.ModeExact}
		}
		// First encountered wins on an exact rating tie, so catalog order
		// stays the tie-break.
		if r := Rating(normQuery, normEntry); r > bestRating {
			best = entry
			bestRating = r
		}
	}
	if bestRating >= FuzzyThreshold {
		return &Result{Entry: best, Score: bestRating, Mode: models.ModeLocalFuzzy}
	}
	return nil
}

// BestFuzzy returns the best fuzzy candidate and its rating regardless of
// threshold. The orchestrator uses it for the degraded fallback when the
// vector index is unreachable.
func BestFuzzy(question string, cat *models.Category) (models.FaqEntry, float64) {
	if cat == nil || len(cat.Entries) == 0 {
		return models.FaqEntry{}, 0
	}
	normQuery := textnorm.Full(question)
	best := models.FaqEntry{}
	bestRating := -1.0
	for _, entry := range cat.Entries {
		if r := Rating(normQuery, textnorm.Full(entry.Question)); r > bestRating {
			best = entry
			bestRating = r
		}
	}
	if bestRating < 0 {
		bestRating = 0
	}
	return best, bestRating
}

// ruleOverride handles informational-intent queries. Certain phrasings
// ("where can I see X") reliably want an overview entry that generic
// similarity ranks poorly against narrower ones, so when the query carries an
// intent marker and an entry both carries one and contains every significant
// query token, that entry wins outright.
func ruleOverride(normQuery string, cat *models.Category) *Result {
	if !textnorm.ContainsAny(normQuery, textnorm.IntentMarkers) {
		return nil
	}
	queryTokens := textnorm.Tokens(normQuery)
	if len(queryTokens) == 0 {
		return nil
	}
	for _, entry := range cat.Entries {
		normEntry := textnorm.Full(entry.Question)
		if !textnorm.ContainsAny(normEntry, textnorm.IntentMarkers) {
			continue
		}
		if containsAllTokens(normEntry, queryTokens) {
			return &Result{Entry: entry, Score: ruleScore, Mode: models.ModeRule}
		}
	}
	return nil
}

func containsAllTokens(normalized string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(normalized, tok) {
			return false
		}
	}
	return true
}
