package generator

import (
	"context"
	"errors"

	"github.com/tharun242005/EMPATH-AI/internal/models"
)

// ErrOutputTruncated signals that the backend hit its output token budget
// before producing usable text. The client reacts by retrying once with a
// strictly shorter prompt and a smaller budget.
var ErrOutputTruncated = errors.New("generation output truncated")

// Request bundles everything the generation pipeline needs for one call.
type Request struct {
	Message      string
	Emotion      string
	IsHarassment bool
	Score        float64
	History      []models.Turn // at most the trailing 6 turns
	EnableWeb    bool
}

// Outcome is the result of a generation attempt. WebUsed is true only when
// the recency heuristic matched and the context fetch returned data.
type Outcome struct {
	Reply   string
	WebUsed bool
}

// Options tune a single backend call. Sampling parameters are fixed
// configuration, never request-controlled.
type Options struct {
	Temperature     float32
	MaxOutputTokens int32
}

// TextBackend is the single generative-language call the client wraps.
// Implementations must be safe for concurrent use after construction.
type TextBackend interface {
	GenerateText(ctx context.Context, prompt string, opts Options) (string, error)
}

// ContextFetcher retrieves short external context snippets for a query.
// A failure or empty result silently disables web augmentation for the call.
type ContextFetcher interface {
	NeedsFreshContext(message string) bool
	FetchContext(ctx context.Context, query string) string
}
