package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tharun242005/EMPATH-AI/internal/models"
)

// Client is a client for the emotion/harassment model service API.
// The models themselves live in a separate service; this client only
// forwards text and maps the combined scoring response.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClassifyRequest represents a single message classification request.
type ClassifyRequest struct {
	Text string `json:"text"`
}

// ClassifyResponse represents the combined classification result.
type ClassifyResponse struct {
	Emotion          string   `json:"emotion"`
	EmotionRaw       string   `json:"raw_emotion,omitempty"`
	HarassmentScore  float64  `json:"harassment_score"`
	Severity         string   `json:"severity"`
	Keywords         []string `json:"keywords"`
	ProcessingTimeMs float64  `json:"processing_time_ms,omitempty"`
}

// HealthResponse represents the model service health check response.
type HealthResponse struct {
	Status                string `json:"status"`
	EmotionModelLoaded    bool   `json:"emotion_model_loaded"`
	HarassmentModelLoaded bool   `json:"harassment_model_loaded"`
	Device                string `json:"device"`
	Message               string `json:"message"`
}

// NewClient creates a new model service client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Classify scores a single message for emotion and harassment.
// Empty or whitespace-only text short-circuits to a neutral zero result
// without calling the model service.
func (c *Client) Classify(ctx context.Context, text string) (*models.ClassificationResult, error) {
	if strings.TrimSpace(text) == "" {
		return &models.ClassificationResult{
			Emotion: models.EmotionNeutral,
			Score:   0.0,
			Tier:    models.SeverityLow,
		}, nil
	}

	reqBody := ClassifyRequest{Text: text}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/classify", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("model service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result ClassifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	emotion := result.Emotion
	if emotion == "" {
		emotion = models.EmotionNeutral
	}
	tier := models.SeverityFromScore(result.HarassmentScore)

	return &models.ClassificationResult{
		Emotion:  emotion,
		Score:    result.HarassmentScore,
		Tier:     tier,
		Keywords: result.Keywords,
	}, nil
}

// HealthCheck checks if the model service is healthy.
func (c *Client) HealthCheck(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("model service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// Ready reports whether both models are loaded.
func (h *HealthResponse) Ready() bool {
	return h != nil && h.EmotionModelLoaded && h.HarassmentModelLoaded
}
