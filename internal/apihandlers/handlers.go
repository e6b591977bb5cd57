package apihandlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"tanya/internal/models"
	"tanya/internal/resolver"
)

// ResolutionService is what the ask endpoint needs from the cascade.
type ResolutionService interface {
	Resolve(ctx context.Context, req resolver.Request) (*models.Resolution, error)
}

// CatalogService is the catalog surface the API mutates and lists.
type CatalogService interface {
	Categories() []models.Category
	Append(category string, entry models.FaqEntry) error
}

// JobEnqueuer schedules background indexing of appended entries. May be nil
// when no job backend is configured; appends then only reach the index on the
// next full reindex.
type JobEnqueuer interface {
	EnqueueIndexEntry(ctx context.Context, category string, entry models.FaqEntry) error
}

type APIHandler struct {
	Resolver ResolutionService
	Catalog  CatalogService
	Jobs     JobEnqueuer
}

func NewAPIHandler(res ResolutionService, cat CatalogService, jobs JobEnqueuer) *APIHandler {
	return &APIHandler{Resolver: res, Catalog: cat, Jobs: jobs}
}

// AskRequest represents the JSON body of an ask call.
type AskRequest struct {
	Category      string `json:"category"`
	Question      string `json:"question"`
	UseGenerative *bool  `json:"use_generative,omitempty"`
}

// AddEntryRequest represents the JSON body to append a catalog entry.
type AddEntryRequest struct {
	Category string `json:"category"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (h *APIHandler) AskHandler(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	res, err := h.Resolver.Resolve(c.Request.Context(), resolver.Request{
		Category:      req.Category,
		Question:      req.Question,
		UseGenerative: req.UseGenerative,
	})
	if err != nil {
		h.respondWithResolveError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

// respondWithResolveError maps cascade sentinels onto HTTP statuses. Anything
// unrecognized is an internal error.
func (h *APIHandler) respondWithResolveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrMissingInput):
		BadRequest(c, "Both 'category' and 'question' are required")
	case errors.Is(err, models.ErrCategoryNotFound):
		NotFound(c, "category_not_found", "Unknown category")
	case errors.Is(err, models.ErrNoConfidentMatch):
		NotFound(c, "no_match", "No sufficiently confident answer was found")
	case errors.Is(err, models.ErrRetrievalFailed):
		Unavailable(c, "Answer retrieval is temporarily unavailable")
	default:
		Internal(c, fmt.Sprintf("AskHandler: resolution failed: %v", err))
	}
}

func (h *APIHandler) ListCategoriesHandler(c *gin.Context) {
	cats := h.Catalog.Categories()
	names := make([]string, len(cats))
	for i, cat := range cats {
		names[i] = cat.Name
	}
	c.JSON(http.StatusOK, gin.H{"categories": names})
}

func (h *APIHandler) AddEntryHandler(c *gin.Context) {
	req, err := parseAddEntryRequest(c)
	if err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry := models.FaqEntry{Question: req.Question, Answer: req.Answer}
	if err := h.Catalog.Append(req.Category, entry); err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			NotFound(c, "category_not_found", "Unknown category: "+req.Category)
			return
		}
		Internal(c, fmt.Sprintf("AddEntryHandler: failed to append entry: %v", err))
		return
	}

	// The entry is durable either way; indexing catches up on the next
	// reindex if the queue is down.
	indexed := false
	if h.Jobs != nil {
		if err := h.Jobs.EnqueueIndexEntry(c.Request.Context(), req.Category, entry); err != nil {
			log.Warnf("failed to enqueue index job for new entry: %v", err)
		} else {
			indexed = true
		}
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{
		"category":       req.Category,
		"question":       req.Question,
		"index_enqueued": indexed,
	}})
}

// parseAddEntryRequest parses and validates the add-entry JSON body.
func parseAddEntryRequest(c *gin.Context) (AddEntryRequest, error) {
	var req AddEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	if req.Category == "" || req.Question == "" || req.Answer == "" {
		return req, fmt.Errorf("missing required fields: category, question, and answer")
	}
	return req, nil
}
