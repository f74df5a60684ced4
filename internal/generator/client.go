package generator

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/tharun242005/EMPATH-AI/internal/models"
)

const (
	mainTemperature  float32 = 0.8
	mainMaxTokens    int32   = 800
	shortTemperature float32 = 0.7
	shortMaxTokens   int32   = 300
)

// Config tunes the client's resilience behavior.
type Config struct {
	MaxRetries  int             // Default: 3
	RetryDelays []time.Duration // Default: 1s, 2s, 4s
}

// Client wraps a TextBackend with retry, backoff, truncation recovery and a
// static emergency fallback. Generate never returns an error: callers always
// get a usable reply.
type Client struct {
	backend TextBackend
	fetcher ContextFetcher
	logger  *zap.Logger
	cfg     Config
}

// NewClient creates a generation client. fetcher may be nil, in which case
// web augmentation is disabled.
func NewClient(backend TextBackend, fetcher ContextFetcher, cfg Config, logger *zap.Logger) *Client {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if len(cfg.RetryDelays) == 0 {
		cfg.RetryDelays = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	}
	return &Client{
		backend: backend,
		fetcher: fetcher,
		logger:  logger,
		cfg:     cfg,
	}
}

// Generate produces a supportive reply for the request. All failure paths
// degrade to the static emergency reply rather than an error.
func (c *Client) Generate(ctx context.Context, req Request) Outcome {
	webContext := ""
	if req.EnableWeb && c.fetcher != nil && c.fetcher.NeedsFreshContext(req.Message) {
		webContext = c.fetcher.FetchContext(ctx, req.Message)
		if webContext != "" {
			c.logger.Info("Web context fetched", zap.Int("length", len(webContext)))
		}
	}

	tier := models.SeverityFromScore(req.Score)
	prompt := buildPrompt(req, tier, webContext)

	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		text, err := c.backend.GenerateText(ctx, prompt, Options{
			Temperature:     mainTemperature,
			MaxOutputTokens: mainMaxTokens,
		})
		if err == nil {
			return Outcome{Reply: stripReplyPrefixes(text), WebUsed: webContext != ""}
		}

		if errors.Is(err, ErrOutputTruncated) {
			c.logger.Warn("Generation truncated, retrying with short prompt")
			text, err = c.backend.GenerateText(ctx, buildShortPrompt(req), Options{
				Temperature:     shortTemperature,
				MaxOutputTokens: shortMaxTokens,
			})
			if err == nil {
				return Outcome{Reply: stripReplyPrefixes(text), WebUsed: webContext != ""}
			}
			c.logger.Warn("Short prompt fallback failed", zap.Error(err))
			break
		}

		c.logger.Warn("Generation attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", c.cfg.MaxRetries),
			zap.Error(err))

		if attempt < c.cfg.MaxRetries {
			if !c.sleep(ctx, c.delayFor(attempt)) {
				break
			}
		}
	}

	// The emergency reply is static text; web context never reached the user,
	// so the outcome must not claim it did.
	c.logger.Error("All generation attempts exhausted, using emergency reply")
	return Outcome{Reply: emergencyReply(req.IsHarassment), WebUsed: false}
}

func (c *Client) delayFor(attempt int) time.Duration {
	idx := attempt - 1
	if idx >= len(c.cfg.RetryDelays) {
		idx = len(c.cfg.RetryDelays) - 1
	}
	return c.cfg.RetryDelays[idx]
}

// sleep waits for d or until the context is done. Returns false on cancel.
func (c *Client) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
