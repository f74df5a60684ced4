package models

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	EnableWeb bool   `json:"enable_web"`
}

// ChatResponse is the body returned by POST /api/chat.
type ChatResponse struct {
	Reply                string   `json:"reply"`
	Emotion              string   `json:"emotion"`
	HarassmentLevel      Severity `json:"harassment_level"`
	HarassmentDetected   bool     `json:"harassment_detected"`
	HarassmentConfidence float64  `json:"harassment_confidence"`
	Keywords             []string `json:"keywords"`
	ResponseTimeMs       float64  `json:"response_time_ms"`
	WebEnabled           bool     `json:"web_enabled"`
}

// ResetRequest is the body of POST /api/reset.
type ResetRequest struct {
	SessionID string `json:"session_id"`
}

// SupportRequest is the body of POST /api/trigger-support.
type SupportRequest struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// SupportResponse is the body returned by POST /api/trigger-support.
type SupportResponse struct {
	Reply           string   `json:"reply"`
	Severity        Severity `json:"severity"`
	Emotion         string   `json:"emotion"`
	HarassmentScore float64  `json:"harassment_score"`
}

// HealthResponse reports classifier readiness.
type HealthResponse struct {
	Status       string `json:"status"`
	ModelsLoaded bool   `json:"models_loaded"`
}
