// Package scoring merges semantic and lexical candidates and ranks them with
// a composite score. Domain heuristics (keyword bonuses, informational-intent
// boosts) are declarative tables evaluated uniformly, not code branches.
package scoring

import (
	"sort"
	"strings"

	"tanya/internal/match"
	"tanya/internal/models"
	"tanya/internal/textnorm"
)

const (
	weightSemantic   = 0.60
	weightSimilarity = 0.28
	weightOverlap    = 0.12

	// AcceptThreshold is the composite score a top candidate must reach.
	// Fixed weights keep composites comparable across query shapes, so one
	// threshold works for all of them.
	AcceptThreshold = 0.52

	// lexicalCandidateCap bounds the lexical scan on large catalogs.
	lexicalCandidateCap = 50
)

// KeywordRule adds a fixed bonus to candidates that share a decisive domain
// term with the query and a penalty to those that do not. Models cases where
// generic similarity under-weights a single load-bearing token.
type KeywordRule struct {
	Triggers []string
	Bonus    float64
	Penalty  float64
}

// KeywordRules is the active table. New domain heuristics are rows here.
var KeywordRules = []KeywordRule{
	{Triggers: []string{"margin"}, Bonus: 0.12, Penalty: -0.06},
}

// IntentRule boosts overview-style candidates for overview-style queries and
// penalizes narrower purpose/function entries, so broad answers are not
// outranked by narrow ones.
type IntentRule struct {
	Triggers       []string
	Markers        []string
	CounterMarkers []string
	LeadBonus      float64
	ContainBonus   float64
	CounterPenalty float64
}

// InformationalIntent shares its marker set with the local matcher's rule
// override so both layers agree on what "informational" means.
var InformationalIntent = IntentRule{
	Triggers:       textnorm.IntentMarkers,
	Markers:        textnorm.IntentMarkers,
	CounterMarkers: textnorm.PurposeMarkers,
	LeadBonus:      0.35,
	ContainBonus:   0.20,
	CounterPenalty: -0.25,
}

// Fuse merges the semantic results with lexical candidates from the category
// and returns candidates ranked by descending composite score. normQuery must
// be Full-normalized. Ties keep fusion order: semantic before lexical, then
// catalog order — the candidate collection is an ordered slice for exactly
// that reason.
func Fuse(semantic []models.ScoredPoint, cat *models.Category, normQuery string) []models.Candidate {
	queryTokens := textnorm.TokenSet(normQuery)

	var ordered []models.Candidate
	index := map[string]int{}

	for _, p := range semantic {
		key := textnorm.Full(p.Question)
		if i, seen := index[key]; seen {
			if p.Score > ordered[i].SemanticScore {
				ordered[i].SemanticScore = p.Score
			}
			continue
		}
		index[key] = len(ordered)
		ordered = append(ordered, models.Candidate{
			Source:        models.CandidateSemantic,
			SemanticScore: p.Score,
			Entry:         models.FaqEntry{Question: p.Question, Answer: p.Answer},
		})
	}

	lexical := 0
	for _, entry := range cat.Entries {
		if lexical >= lexicalCandidateCap {
			break
		}
		key := textnorm.Full(entry.Question)
		if !sharesToken(queryTokens, key) {
			continue
		}
		lexical++
		if i, seen := index[key]; seen {
			ordered[i].Lexical = true
			continue
		}
		index[key] = len(ordered)
		ordered = append(ordered, models.Candidate{
			Source:  models.CandidateLexical,
			Lexical: true,
			Entry:   entry,
		})
	}

	for i := range ordered {
		score(&ordered[i], normQuery, queryTokens)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Composite > ordered[j].Composite
	})
	return ordered
}

func score(c *models.Candidate, normQuery string, queryTokens map[string]struct{}) {
	normCand := textnorm.Full(c.Entry.Question)
	c.Similarity = match.Rating(normQuery, normCand)
	c.TokenOverlap = jaccard(queryTokens, textnorm.TokenSet(normCand))
	c.Composite = weightSemantic*c.SemanticScore +
		weightSimilarity*c.Similarity +
		weightOverlap*c.TokenOverlap +
		keywordAdjustment(queryTokens, normCand) +
		intentAdjustment(normQuery, normCand)
}

func keywordAdjustment(queryTokens map[string]struct{}, normCand string) float64 {
	adj := 0.0
	for _, rule := range KeywordRules {
		trigger := ""
		for _, t := range rule.Triggers {
			if _, ok := queryTokens[t]; ok {
				trigger = t
				break
			}
		}
		if trigger == "" {
			continue
		}
		if strings.Contains(normCand, trigger) {
			adj += rule.Bonus
		} else {
			adj += rule.Penalty
		}
	}
	return adj
}

func intentAdjustment(normQuery, normCand string) float64 {
	rule := InformationalIntent
	if !textnorm.ContainsAny(normQuery, rule.Triggers) {
		return 0
	}
	for _, m := range rule.Markers {
		if strings.HasPrefix(normCand, m) {
			return rule.LeadBonus
		}
	}
	if textnorm.ContainsAny(normCand, rule.Markers) {
		return rule.ContainBonus
	}
	if textnorm.ContainsAny(normCand, rule.CounterMarkers) {
		return rule.CounterPenalty
	}
	return 0
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func sharesToken(queryTokens map[string]struct{}, normEntry string) bool {
	for _, tok := range textnorm.Tokens(normEntry) {
		if _, ok := queryTokens[tok]; ok {
			return true
		}
	}
	return false
}
