package resolver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tanya/internal/models"
)

type fakeCatalog struct {
	categories map[string]*models.Category
}

func (f *fakeCatalog) GetCategory(name string) (*models.Category, bool) {
	c, ok := f.categories[name]
	return c, ok
}

type fakeRetriever struct {
	points []models.ScoredPoint
	err    error
	calls  int
}

func (f *fakeRetriever) Retrieve(context.Context, string, string) ([]models.ScoredPoint, error) {
	f.calls++
	return f.points, f.err
}

type fakeRewriter struct {
	answer       string
	err          error
	calls        int
	gotGrounding []models.FaqEntry
}

func (f *fakeRewriter) Rewrite(_ context.Context, _ string, grounding []models.FaqEntry) (string, error) {
	f.calls++
	f.gotGrounding = grounding
	return f.answer, f.err
}

func boolPtr(b bool) *bool { return &b }

func depositCategory() *models.Category {
	return &models.Category{
		Name: "Transaksi",
		Entries: []models.FaqEntry{
			{Question: "Apa itu margin?", Answer: "Margin adalah dana jaminan."},
			{Question: "Bagaimana cara isi saldo lewat bank?", Answer: "Transfer ke rekening virtual."},
		},
	}
}

func newTestResolver(cat *models.Category, ret *fakeRetriever, rw AnswerRewriter, opts Options) *Resolver {
	catalog := &fakeCatalog{categories: map[string]*models.Category{}}
	if cat != nil {
		catalog.categories[cat.Name] = cat
	}
	return New(catalog, ret, rw, opts)
}

func TestResolveMissingInput(t *testing.T) {
	r := newTestResolver(depositCategory(), &fakeRetriever{}, nil, Options{})

	_, err := r.Resolve(context.Background(), Request{Category: "", Question: "apa itu margin"})
	assert.True(t, errors.Is(err, models.ErrMissingInput))

	_, err = r.Resolve(context.Background(), Request{Category: "Transaksi", Question: "   "})
	assert.True(t, errors.Is(err, models.ErrMissingInput))
}

func TestResolveUnknownCategory(t *testing.T) {
	r := newTestResolver(depositCategory(), &fakeRetriever{}, nil, Options{})

	_, err := r.Resolve(context.Background(), Request{Category: "Lainnya", Question: "apa itu margin"})
	assert.True(t, errors.Is(err, models.ErrCategoryNotFound))
}

func TestResolveExactSkipsRetrieval(t *testing.T) {
	ret := &fakeRetriever{}
	r := newTestResolver(depositCategory(), ret, nil, Options{})

	res, err := r.Resolve(context.Background(), Request{
		Category: "Transaksi",
		Question: "  APA itu   MARGIN??  ",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ModeExact, res.Mode)
	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, "Margin adalah dana jaminan.", res.Answer)
	assert.Equal(t, 0, ret.calls, "exact hits must not touch the vector index")
}

func TestResolveAcceptsAtThreshold(t *testing.T) {
	r := newTestResolver(depositCategory(), &fakeRetriever{}, nil, Options{})
	r.fuse = func([]models.ScoredPoint, *models.Category, string) []models.Candidate {
		return []models.Candidate{{
			Entry:     models.FaqEntry{Question: "Apa itu margin?", Answer: "Margin adalah dana jaminan."},
			Composite: 0.52,
		}}
	}

	res, err := r.Resolve(context.Background(), Request{Category: "Transaksi", Question: "margin itu gimana ya"})
	require.NoError(t, err)
	assert.Equal(t, models.ModeSemantic, res.Mode)
	assert.Equal(t, 0.52, res.Score)
}

func TestResolveRejectsBelowThreshold(t *testing.T) {
	r := newTestResolver(depositCategory(), &fakeRetriever{}, nil, Options{})
	r.fuse = func([]models.ScoredPoint, *models.Category, string) []models.Candidate {
		return []models.Candidate{{
			Entry:     models.FaqEntry{Question: "Apa itu margin?", Answer: "Margin adalah dana jaminan."},
			Composite: 0.519999,
		}}
	}

	_, err := r.Resolve(context.Background(), Request{Category: "Transaksi", Question: "margin itu gimana ya"})
	assert.True(t, errors.Is(err, models.ErrNoConfidentMatch))
}

func TestResolveNoCandidates(t *testing.T) {
	cat := &models.Category{Name: "Transaksi"}
	r := newTestResolver(cat, &fakeRetriever{}, nil, Options{})

	_, err := r.Resolve(context.Background(), Request{Category: "Transaksi", Question: "apa itu leverage"})
	assert.True(t, errors.Is(err, models.ErrNoConfidentMatch))
}

func TestResolveFallbackLocalOnRetrievalFailure(t *testing.T) {
	ret := &fakeRetriever{err: fmt.Errorf("%w: index down", models.ErrRetrievalFailed)}
	r := newTestResolver(depositCategory(), ret, nil, Options{})

	// Rates ~0.553 against the saldo entry: below the local stage's 0.6 bar
	// but above the degraded 0.5 bar.
	res, err := r.Resolve(context.Background(), Request{Category: "Transaksi", Question: "cara isi saldo"})
	require.NoError(t, err)
	assert.Equal(t, models.ModeFallbackLocal, res.Mode)
	assert.Equal(t, "Transfer ke rekening virtual.", res.Answer)
	assert.GreaterOrEqual(t, res.Score, 0.5)
	assert.Less(t, res.Score, 0.6)
}

func TestResolveDegradedGenerative(t *testing.T) {
	ret := &fakeRetriever{err: fmt.Errorf("%w: index down", models.ErrRetrievalFailed)}
	rw := &fakeRewriter{answer: "Silakan hubungi dukungan pelanggan."}
	r := newTestResolver(depositCategory(), ret, rw, Options{UseGenerativeByDefault: true})

	res, err := r.Resolve(context.Background(), Request{
		Category: "Transaksi",
		Question: "prosedur verifikasi dokumen identitas",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ModeGenerativeDegraded, res.Mode)
	assert.Equal(t, "Silakan hubungi dukungan pelanggan.", res.Answer)
	assert.Equal(t, 0.0, res.Score)
	assert.Empty(t, rw.gotGrounding)
}

func TestResolveRetrievalFailureWithoutRescue(t *testing.T) {
	ret := &fakeRetriever{err: fmt.Errorf("%w: index down", models.ErrRetrievalFailed)}
	r := newTestResolver(depositCategory(), ret, nil, Options{})

	_, err := r.Resolve(context.Background(), Request{
		Category: "Transaksi",
		Question: "prosedur verifikasi dokumen identitas",
	})
	assert.True(t, errors.Is(err, models.ErrRetrievalFailed))
}

func TestResolveGenerativeRewrite(t *testing.T) {
	rw := &fakeRewriter{answer: "Margin adalah dana jaminan transaksi Anda."}
	r := newTestResolver(depositCategory(), &fakeRetriever{}, rw, Options{UseGenerativeByDefault: true})
	r.fuse = func([]models.ScoredPoint, *models.Category, string) []models.Candidate {
		return []models.Candidate{{
			Entry:     models.FaqEntry{Question: "Apa itu margin?", Answer: "Margin adalah dana jaminan."},
			Composite: 0.80,
		}}
	}

	res, err := r.Resolve(context.Background(), Request{Category: "Transaksi", Question: "margin itu gimana ya"})
	require.NoError(t, err)
	assert.Equal(t, models.ModeGenerative, res.Mode)
	assert.Equal(t, "Margin adalah dana jaminan transaksi Anda.", res.Answer)
	assert.Equal(t, 0.80, res.Score)
	require.Len(t, rw.gotGrounding, 1)
	assert.Equal(t, "Margin adalah dana jaminan.", rw.gotGrounding[0].Answer)
}

func TestResolveGenerativeReceivesRankedGrounding(t *testing.T) {
	rw := &fakeRewriter{answer: "Jawaban gabungan."}
	r := newTestResolver(depositCategory(), &fakeRetriever{}, rw, Options{UseGenerativeByDefault: true})
	r.fuse = func([]models.ScoredPoint, *models.Category, string) []models.Candidate {
		return []models.Candidate{
			{Entry: models.FaqEntry{Question: "Apa itu margin?", Answer: "Margin adalah dana jaminan."}, Composite: 0.90},
			{Entry: models.FaqEntry{Question: "Berapa margin minimum?", Answer: "Minimum sepuluh persen."}, Composite: 0.80},
			{Entry: models.FaqEntry{Question: "Kapan margin call terjadi?", Answer: "Saat ekuitas turun."}, Composite: 0.70},
		}
	}

	res, err := r.Resolve(context.Background(), Request{Category: "Transaksi", Question: "margin itu gimana ya"})
	require.NoError(t, err)
	assert.Equal(t, models.ModeGenerative, res.Mode)

	// The rewriter must see every ranked pair, questions included, best first.
	require.Len(t, rw.gotGrounding, 3)
	assert.Equal(t, "Apa itu margin?", rw.gotGrounding[0].Question)
	assert.Equal(t, "Margin adalah dana jaminan.", rw.gotGrounding[0].Answer)
	assert.Equal(t, "Berapa margin minimum?", rw.gotGrounding[1].Question)
	assert.Equal(t, "Minimum sepuluh persen.", rw.gotGrounding[1].Answer)
	assert.Equal(t, "Kapan margin call terjadi?", rw.gotGrounding[2].Question)
}

func TestResolveGenerativeGroundingCappedAtFive(t *testing.T) {
	rw := &fakeRewriter{answer: "Jawaban."}
	r := newTestResolver(depositCategory(), &fakeRetriever{}, rw, Options{UseGenerativeByDefault: true})
	r.fuse = func([]models.ScoredPoint, *models.Category, string) []models.Candidate {
		out := make([]models.Candidate, 7)
		for i := range out {
			out[i] = models.Candidate{
				Entry:     models.FaqEntry{Question: fmt.Sprintf("q%d", i), Answer: fmt.Sprintf("a%d", i)},
				Composite: 0.9 - float64(i)*0.01,
			}
		}
		return out
	}

	_, err := r.Resolve(context.Background(), Request{Category: "Transaksi", Question: "margin itu gimana ya"})
	require.NoError(t, err)
	require.Len(t, rw.gotGrounding, 5)
	assert.Equal(t, "q0", rw.gotGrounding[0].Question)
	assert.Equal(t, "q4", rw.gotGrounding[4].Question)
}

func TestResolveGenerativeFailureServesFusedAnswer(t *testing.T) {
	rw := &fakeRewriter{err: fmt.Errorf("%w: ollama down", models.ErrGenerativeUnavailable)}
	r := newTestResolver(depositCategory(), &fakeRetriever{}, rw, Options{UseGenerativeByDefault: true})
	r.fuse = func([]models.ScoredPoint, *models.Category, string) []models.Candidate {
		return []models.Candidate{{
			Entry:     models.FaqEntry{Question: "Apa itu margin?", Answer: "Margin adalah dana jaminan."},
			Composite: 0.80,
		}}
	}

	res, err := r.Resolve(context.Background(), Request{Category: "Transaksi", Question: "margin itu gimana ya"})
	require.NoError(t, err)
	assert.Equal(t, models.ModeSemantic, res.Mode)
	assert.Equal(t, "Margin adalah dana jaminan.", res.Answer)
}

func TestResolveRequestOverridesGenerativeDefault(t *testing.T) {
	rw := &fakeRewriter{answer: "should not be used"}
	r := newTestResolver(depositCategory(), &fakeRetriever{}, rw, Options{UseGenerativeByDefault: true})
	r.fuse = func([]models.ScoredPoint, *models.Category, string) []models.Candidate {
		return []models.Candidate{{
			Entry:     models.FaqEntry{Question: "Apa itu margin?", Answer: "Margin adalah dana jaminan."},
			Composite: 0.80,
		}}
	}

	res, err := r.Resolve(context.Background(), Request{
		Category:      "Transaksi",
		Question:      "margin itu gimana ya",
		UseGenerative: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ModeSemantic, res.Mode)
	assert.Equal(t, 0, rw.calls)
}

func TestResolveTruncatesSemanticCandidates(t *testing.T) {
	points := make([]models.ScoredPoint, 10)
	for i := range points {
		points[i] = models.ScoredPoint{Question: fmt.Sprintf("q%d", i), Answer: "a", Score: 0.9}
	}
	ret := &fakeRetriever{points: points}
	r := newTestResolver(depositCategory(), ret, nil, Options{ConsiderTopN: 5})

	var fusedCount int
	r.fuse = func(semantic []models.ScoredPoint, _ *models.Category, _ string) []models.Candidate {
		fusedCount = len(semantic)
		return nil
	}

	_, err := r.Resolve(context.Background(), Request{Category: "Transaksi", Question: "pertanyaan lain sama sekali"})
	assert.True(t, errors.Is(err, models.ErrNoConfidentMatch))
	assert.Equal(t, 5, fusedCount)
}
