package models

import (
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// FaqEntry is a single question/answer pair. Entries are immutable once
// stored; mutation happens only by appending new entries to a category.
type FaqEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Category holds one category's entries in catalog order.
type Category struct {
	Name    string     `json:"category"`
	Entries []FaqEntry `json:"entries"`
}

// CandidateSource records which path first produced a candidate.
type CandidateSource string

const (
	CandidateSemantic CandidateSource = "semantic"
	CandidateLexical  CandidateSource = "lexical"
)

// Candidate is the ephemeral fusion record a single resolution works with.
// Candidates are deduplicated by normalized question text; Lexical stays true
// once the entry has been seen on the lexical path, even if it also came back
// from the vector index.
type Candidate struct {
	Source        CandidateSource
	Lexical       bool
	SemanticScore float64
	Entry         FaqEntry
	Similarity    float64
	TokenOverlap  float64
	Composite     float64
}

// ResolutionMode records which stage of the cascade resolved a request.
// It is diagnostic only and never feeds back into matching logic.
type ResolutionMode string

const (
	ModeRule               ResolutionMode = "rule"
	ModeExact              ResolutionMode = "exact"
	ModeLocalFuzzy         ResolutionMode = "local-fuzzy"
	ModeSemantic           ResolutionMode = "semantic"
	ModeFallbackLocal      ResolutionMode = "fallback-local"
	ModeGenerative         ResolutionMode = "generative"
	ModeGenerativeDegraded ResolutionMode = "generative-degraded"
)

// Resolution is the terminal success payload of the cascade.
type Resolution struct {
	Question string         `json:"question"`
	Answer   string         `json:"answer"`
	Score    float64        `json:"score"`
	Mode     ResolutionMode `json:"mode"`
}

// ScoredPoint is one nearest neighbor returned by the vector index,
// with Score already mapped into [0,1].
type ScoredPoint struct {
	Question string
	Answer   string
	Score    float64
}

// FaqPoint is an indexed catalog entry as stored in the vector index.
type FaqPoint struct {
	ID       uuid.UUID
	Category string
	Question string
	Answer   string
	Vector   pgvector.Vector
}
