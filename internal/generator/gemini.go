package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiConfig configures the Gemini text backend.
type GeminiConfig struct {
	APIKey    string
	ModelName string // Default: "gemini-1.5-flash"
}

// GeminiBackend implements TextBackend on the Gemini API.
type GeminiBackend struct {
	client    *genai.Client
	logger    *zap.Logger
	modelName string
}

// NewGeminiBackend creates the backend. A missing API key is a configuration
// fault: the process must refuse to start rather than serve degraded traffic.
func NewGeminiBackend(cfg GeminiConfig, logger *zap.Logger) (*GeminiBackend, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	if cfg.ModelName == "" {
		cfg.ModelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	logger.Info("Gemini backend initialized", zap.String("model", cfg.ModelName))

	return &GeminiBackend{
		client:    client,
		logger:    logger,
		modelName: cfg.ModelName,
	}, nil
}

// Close closes the underlying Gemini client.
func (b *GeminiBackend) Close() error {
	return b.client.Close()
}

// GenerateText runs a single generation call with the given sampling options.
func (b *GeminiBackend) GenerateText(ctx context.Context, prompt string, opts Options) (string, error) {
	model := b.client.GenerativeModel(b.modelName)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr(opts.Temperature),
		TopP:            genai.Ptr[float32](0.9),
		MaxOutputTokens: genai.Ptr(opts.MaxOutputTokens),
	}
	// The service's whole purpose is talking about harassment; the provider's
	// own content filters would otherwise reject exactly the messages that
	// matter most.
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if strings.Contains(err.Error(), "MAX_TOKENS") {
			return "", ErrOutputTruncated
		}
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
			return "", ErrOutputTruncated
		}
		return "", fmt.Errorf("empty response from gemini")
	}

	textPart, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from gemini")
	}

	text := strings.TrimSpace(string(textPart))
	if text == "" {
		return "", fmt.Errorf("empty response from gemini")
	}
	return text, nil
}
