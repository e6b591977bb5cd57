// Package augment rewrites a matched answer with a completion model, or
// attempts a best-effort answer when nothing matched locally.
package augment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	log "github.com/sirupsen/logrus"

	"tanya/internal/models"
	"tanya/internal/services"
)

// NoAnswerMarker is the exact reply the prompt instructs the model to give
// when the supplied context does not contain the answer.
const NoAnswerMarker = "TIDAK ADA JAWABAN"

// ErrNoAnswer reports that the model declined to answer from the given
// context. Callers treat it differently from provider failures.
var ErrNoAnswer = errors.New("model found no answer in context")

const systemPrompt = "Kamu adalah asisten layanan pelanggan. Jawab pertanyaan pengguna hanya berdasarkan konteks yang diberikan, dalam bahasa Indonesia yang singkat dan sopan. Jangan menambahkan informasi di luar konteks. Jika konteks tidak memuat jawabannya, balas persis dengan: " + NoAnswerMarker + "."

const maxSentences = 2

// maxGrounding caps how many ranked question/answer pairs enter the prompt.
const maxGrounding = 5

type Augmenter struct {
	completion services.CompletionService
	timeout    time.Duration
	tokenizer  *sentences.DefaultSentenceTokenizer
}

func NewAugmenter(completion services.CompletionService, timeout time.Duration) (*Augmenter, error) {
	if completion == nil {
		return nil, fmt.Errorf("completion service is required")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("sentence tokenizer: %w", err)
	}
	return &Augmenter{completion: completion, timeout: timeout, tokenizer: tokenizer}, nil
}

// Rewrite asks the model to answer the question from the ranked grounding
// pairs, best first. Empty grounding means the model answers from general
// knowledge of the service, which only the degraded path uses. Provider
// failures come back wrapped in ErrGenerativeUnavailable.
func (a *Augmenter) Rewrite(ctx context.Context, question string, grounding []models.FaqEntry) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	contextBlock := renderGrounding(grounding)
	messages := []services.ChatMessage{
		{Role: services.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: services.ChatMessageRoleUser, Content: fmt.Sprintf("Konteks:\n%s\n\nPertanyaan: %s", contextBlock, question)},
	}

	raw, err := a.completion.GenerateChatCompletion(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", models.ErrGenerativeUnavailable, a.completion.Name(), err)
	}

	answer := strings.TrimSpace(raw)
	if answer == "" || strings.Contains(strings.ToUpper(answer), NoAnswerMarker) {
		return "", ErrNoAnswer
	}
	clamped := a.clamp(answer)
	log.WithField("model", a.completion.ModelName()).Debug("generative rewrite produced an answer")
	return clamped, nil
}

// renderGrounding turns the ranked pairs into the prompt's context block,
// best candidate first, capped at maxGrounding.
func renderGrounding(grounding []models.FaqEntry) string {
	if len(grounding) > maxGrounding {
		grounding = grounding[:maxGrounding]
	}
	var b strings.Builder
	for _, e := range grounding {
		fmt.Fprintf(&b, "Pertanyaan: %s\nJawaban: %s\n\n", e.Question, e.Answer)
	}
	block := strings.TrimSpace(b.String())
	if block == "" {
		return "(tidak ada)"
	}
	return block
}

// clamp keeps the first two sentences so rewrites stay as terse as the
// catalog answers they replace.
func (a *Augmenter) clamp(text string) string {
	sents := a.tokenizer.Tokenize(text)
	if len(sents) <= maxSentences {
		return text
	}
	var b strings.Builder
	for _, s := range sents[:maxSentences] {
		b.WriteString(s.Text)
	}
	return strings.TrimSpace(b.String())
}
