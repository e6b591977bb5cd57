// Package resolver orchestrates the resolution cascade: local matching,
// semantic retrieval with fusion, and the degraded fallbacks.
package resolver

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"tanya/internal/match"
	"tanya/internal/models"
	"tanya/internal/scoring"
	"tanya/internal/textnorm"
)

// degradedFuzzyThreshold is the relaxed fuzzy bar used only when the vector
// index is unreachable. Looser than the local stage's threshold: with
// retrieval gone, a weaker lexical answer beats no answer.
const degradedFuzzyThreshold = 0.5

// defaultConsiderTopN caps how many nearest neighbours feed fusion.
const defaultConsiderTopN = 5

type Catalog interface {
	GetCategory(name string) (*models.Category, bool)
}

type SemanticRetriever interface {
	Retrieve(ctx context.Context, category, question string) ([]models.ScoredPoint, error)
}

// AnswerRewriter is the optional generative stage. Grounding carries the
// ranked question/answer pairs the model may draw on, best first. A nil
// rewriter simply disables both generative modes.
type AnswerRewriter interface {
	Rewrite(ctx context.Context, question string, grounding []models.FaqEntry) (string, error)
}

// groundingLimit caps how many ranked candidates the rewriter sees.
const groundingLimit = 5

type Options struct {
	// UseGenerativeByDefault applies when a request does not say either way.
	UseGenerativeByDefault bool
	// ConsiderTopN limits the semantic candidates entering fusion.
	ConsiderTopN int
}

// Request is one resolution request. UseGenerative overrides the service
// default when set.
type Request struct {
	Category      string
	Question      string
	UseGenerative *bool
}

type Resolver struct {
	catalog   Catalog
	retriever SemanticRetriever
	rewriter  AnswerRewriter
	opts      Options

	fuse func(semantic []models.ScoredPoint, cat *models.Category, normQuery string) []models.Candidate
}

func New(catalog Catalog, retriever SemanticRetriever, rewriter AnswerRewriter, opts Options) *Resolver {
	if opts.ConsiderTopN <= 0 {
		opts.ConsiderTopN = defaultConsiderTopN
	}
	return &Resolver{
		catalog:   catalog,
		retriever: retriever,
		rewriter:  rewriter,
		opts:      opts,
		fuse:      scoring.Fuse,
	}
}

// Resolve runs the cascade. Terminal errors are the sentinels in models;
// generative failures on the main path are never terminal.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*models.Resolution, error) {
	category := strings.TrimSpace(req.Category)
	question := strings.TrimSpace(req.Question)
	if category == "" || question == "" {
		return nil, models.ErrMissingInput
	}

	cat, ok := r.catalog.GetCategory(category)
	if !ok {
		return nil, models.ErrCategoryNotFound
	}

	if local := match.Local(question, cat); local != nil {
		log.WithFields(log.Fields{"mode": local.Mode, "score": local.Score}).Debug("resolved locally")
		return &models.Resolution{
			Question: local.Entry.Question,
			Answer:   local.Entry.Answer,
			Score:    local.Score,
			Mode:     local.Mode,
		}, nil
	}

	points, err := r.retriever.Retrieve(ctx, cat.Name, question)
	if err != nil {
		log.Warnf("semantic retrieval unavailable, using degraded path: %v", err)
		return r.resolveDegraded(ctx, req, question, cat, err)
	}
	if len(points) > r.opts.ConsiderTopN {
		points = points[:r.opts.ConsiderTopN]
	}

	candidates := r.fuse(points, cat, textnorm.Full(question))
	if len(candidates) == 0 || candidates[0].Composite < scoring.AcceptThreshold {
		return nil, models.ErrNoConfidentMatch
	}
	best := candidates[0]

	if r.generativeEnabled(req) {
		rewritten, rerr := r.rewriter.Rewrite(ctx, question, groundingPairs(candidates))
		if rerr == nil {
			return &models.Resolution{
				Question: best.Entry.Question,
				Answer:   rewritten,
				Score:    best.Composite,
				Mode:     models.ModeGenerative,
			}, nil
		}
		// The fused answer is already good; a broken rewriter must not turn
		// a hit into an error.
		log.Warnf("generative rewrite failed, serving fused answer: %v", rerr)
	}

	return &models.Resolution{
		Question: best.Entry.Question,
		Answer:   best.Entry.Answer,
		Score:    best.Composite,
		Mode:     models.ModeSemantic,
	}, nil
}

// resolveDegraded handles retrieval infrastructure failure: a relaxed fuzzy
// pass over the category, then an uncontexted generative attempt, then the
// retrieval error itself.
func (r *Resolver) resolveDegraded(ctx context.Context, req Request, question string, cat *models.Category, retrievalErr error) (*models.Resolution, error) {
	entry, rating := match.BestFuzzy(question, cat)
	if rating >= degradedFuzzyThreshold {
		return &models.Resolution{
			Question: entry.Question,
			Answer:   entry.Answer,
			Score:    rating,
			Mode:     models.ModeFallbackLocal,
		}, nil
	}

	if r.generativeEnabled(req) {
		answer, err := r.rewriter.Rewrite(ctx, question, nil)
		if err == nil {
			return &models.Resolution{
				Question: question,
				Answer:   answer,
				Score:    0,
				Mode:     models.ModeGenerativeDegraded,
			}, nil
		}
		log.Warnf("degraded generative attempt failed: %v", err)
	}

	return nil, retrievalErr
}

// groundingPairs extracts the ranked entries the rewriter grounds on.
func groundingPairs(candidates []models.Candidate) []models.FaqEntry {
	n := len(candidates)
	if n > groundingLimit {
		n = groundingLimit
	}
	pairs := make([]models.FaqEntry, n)
	for i := 0; i < n; i++ {
		pairs[i] = candidates[i].Entry
	}
	return pairs
}

func (r *Resolver) generativeEnabled(req Request) bool {
	if r.rewriter == nil {
		return false
	}
	if req.UseGenerative != nil {
		return *req.UseGenerative
	}
	return r.opts.UseGenerativeByDefault
}
