package websearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// freshnessKeywords mark a message as likely needing live information.
var freshnessKeywords = []string{
	"today", "latest", "who won", "news", "update", "recent",
	"current", "2024", "2025", "now", "happening", "trending",
	"what is", "when did",
}

// Client fetches short web context snippets via the Google Custom Search API.
// It is strictly best-effort: any failure yields an empty context.
type Client struct {
	svc        *customsearch.Service
	engineID   string
	maxResults int
	timeout    time.Duration
	logger     *zap.Logger
}

// NewClient creates a web search client. Returns an error only when the API
// itself cannot be initialized; missing credentials should be handled by the
// caller by not constructing a client at all.
func NewClient(apiKey, engineID string, maxResults int, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(engineID) == "" {
		return nil, fmt.Errorf("web search API key and engine ID are required")
	}
	if maxResults <= 0 {
		maxResults = 3
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	svc, err := customsearch.NewService(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create custom search service: %w", err)
	}

	return &Client{
		svc:        svc,
		engineID:   engineID,
		maxResults: maxResults,
		timeout:    timeout,
		logger:     logger,
	}, nil
}

// NeedsFreshContext reports whether the message contains a recency keyword.
func (c *Client) NeedsFreshContext(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range freshnessKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// FetchContext runs the search and joins the top result snippets with " | ".
// Failures and empty result sets return "".
func (c *Client) FetchContext(ctx context.Context, query string) string {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.svc.Cse.List().
		Cx(c.engineID).
		Q(query).
		Num(int64(c.maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		c.logger.Warn("Web search failed", zap.Error(err))
		return ""
	}

	var snippets []string
	for _, item := range resp.Items {
		if s := strings.TrimSpace(item.Snippet); s != "" {
			snippets = append(snippets, s)
		}
		if len(snippets) >= c.maxResults {
			break
		}
	}
	return strings.Join(snippets, " | ")
}
