package apihandlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tanya/internal/models"
	"tanya/internal/resolver"
)

type fakeResolver struct {
	res    *models.Resolution
	err    error
	gotReq resolver.Request
}

func (f *fakeResolver) Resolve(_ context.Context, req resolver.Request) (*models.Resolution, error) {
	f.gotReq = req
	return f.res, f.err
}

type fakeCatalog struct {
	categories []models.Category
	appendErr  error
	appended   []models.FaqEntry
}

func (f *fakeCatalog) Categories() []models.Category { return f.categories }

func (f *fakeCatalog) Append(_ string, entry models.FaqEntry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, entry)
	return nil
}

type fakeEnqueuer struct {
	err   error
	calls int
}

func (f *fakeEnqueuer) EnqueueIndexEntry(context.Context, string, models.FaqEntry) error {
	f.calls++
	return f.err
}

func newTestRouter(h *APIHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.POST("/faq/ask", h.AskHandler)
	v1.GET("/faq/categories", h.ListCategoriesHandler)
	v1.POST("/faq/add", h.AddEntryHandler)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAskHandlerSuccess(t *testing.T) {
	res := &models.Resolution{
		Question: "Apa itu margin?",
		Answer:   "Margin adalah dana jaminan.",
		Score:    0.91,
		Mode:     models.ModeSemantic,
	}
	fr := &fakeResolver{res: res}
	router := newTestRouter(NewAPIHandler(fr, &fakeCatalog{}, nil))

	w := doJSON(t, router, http.MethodPost, "/api/v1/faq/ask", AskRequest{
		Category: "Transaksi",
		Question: "margin itu apa",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var parsed struct {
		Data models.Resolution `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	assert.Equal(t, *res, parsed.Data)
	assert.Equal(t, "Transaksi", fr.gotReq.Category)
}

func TestAskHandlerForwardsGenerativeFlag(t *testing.T) {
	fr := &fakeResolver{res: &models.Resolution{Mode: models.ModeExact, Score: 1.0}}
	router := newTestRouter(NewAPIHandler(fr, &fakeCatalog{}, nil))

	useGen := true
	w := doJSON(t, router, http.MethodPost, "/api/v1/faq/ask", AskRequest{
		Category:      "Transaksi",
		Question:      "q",
		UseGenerative: &useGen,
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, fr.gotReq.UseGenerative)
	assert.True(t, *fr.gotReq.UseGenerative)
}

func TestAskHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"missing input", models.ErrMissingInput, http.StatusBadRequest},
		{"unknown category", models.ErrCategoryNotFound, http.StatusNotFound},
		{"no confident match", models.ErrNoConfidentMatch, http.StatusNotFound},
		{"retrieval down", models.ErrRetrievalFailed, http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(NewAPIHandler(&fakeResolver{err: tc.err}, &fakeCatalog{}, nil))
			w := doJSON(t, router, http.MethodPost, "/api/v1/faq/ask", AskRequest{Category: "c", Question: "q"})
			assert.Equal(t, tc.wantCode, w.Code)
		})
	}
}

func TestAskHandlerBadBody(t *testing.T) {
	router := newTestRouter(NewAPIHandler(&fakeResolver{}, &fakeCatalog{}, nil))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/faq/ask", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCategoriesHandler(t *testing.T) {
	cat := &fakeCatalog{categories: []models.Category{
		{Name: "Akun"},
		{Name: "Transaksi"},
	}}
	router := newTestRouter(NewAPIHandler(&fakeResolver{}, cat, nil))

	w := doJSON(t, router, http.MethodGet, "/api/v1/faq/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var parsed struct {
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	assert.Equal(t, []string{"Akun", "Transaksi"}, parsed.Categories)
}

func TestAddEntryHandlerAppendsAndEnqueues(t *testing.T) {
	cat := &fakeCatalog{}
	jobs := &fakeEnqueuer{}
	router := newTestRouter(NewAPIHandler(&fakeResolver{}, cat, jobs))

	w := doJSON(t, router, http.MethodPost, "/api/v1/faq/add", AddEntryRequest{
		Category: "Transaksi",
		Question: "Apa itu leverage?",
		Answer:   "Leverage adalah daya ungkit.",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, cat.appended, 1)
	assert.Equal(t, 1, jobs.calls)

	var parsed struct {
		Data struct {
			IndexEnqueued bool `json:"index_enqueued"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	assert.True(t, parsed.Data.IndexEnqueued)
}

func TestAddEntryHandlerEnqueueFailureIsNotFatal(t *testing.T) {
	cat := &fakeCatalog{}
	jobs := &fakeEnqueuer{err: errors.New("redis down")}
	router := newTestRouter(NewAPIHandler(&fakeResolver{}, cat, jobs))

	w := doJSON(t, router, http.MethodPost, "/api/v1/faq/add", AddEntryRequest{
		Category: "Transaksi",
		Question: "q",
		Answer:   "a",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var parsed struct {
		Data struct {
			IndexEnqueued bool `json:"index_enqueued"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	assert.False(t, parsed.Data.IndexEnqueued)
}

func TestAddEntryHandlerUnknownCategory(t *testing.T) {
	cat := &fakeCatalog{appendErr: models.ErrCategoryNotFound}
	router := newTestRouter(NewAPIHandler(&fakeResolver{}, cat, nil))

	w := doJSON(t, router, http.MethodPost, "/api/v1/faq/add", AddEntryRequest{
		Category: "Lainnya",
		Question: "q",
		Answer:   "a",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddEntryHandlerMissingFields(t *testing.T) {
	router := newTestRouter(NewAPIHandler(&fakeResolver{}, &fakeCatalog{}, nil))

	w := doJSON(t, router, http.MethodPost, "/api/v1/faq/add", AddEntryRequest{
		Category: "Transaksi",
		Question: "",
		Answer:   "a",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
