package chat

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/tharun242005/EMPATH-AI/internal/alert"
	"github.com/tharun242005/EMPATH-AI/internal/analytics"
	"github.com/tharun242005/EMPATH-AI/internal/classifier"
	"github.com/tharun242005/EMPATH-AI/internal/generator"
	"github.com/tharun242005/EMPATH-AI/internal/legal"
	"github.com/tharun242005/EMPATH-AI/internal/memory"
	"github.com/tharun242005/EMPATH-AI/internal/models"
)

var (
	// ErrEmptyMessage rejects blank input before any model call.
	ErrEmptyMessage = errors.New("message cannot be empty")
	// ErrNotReady signals the classification models are not loaded yet.
	ErrNotReady = errors.New("models not loaded")
)

const defaultSessionKey = "anonymous"

// Classifier scores messages and reports model readiness.
type Classifier interface {
	Classify(ctx context.Context, text string) (*models.ClassificationResult, error)
	HealthCheck(ctx context.Context) (*classifier.HealthResponse, error)
}

// Generator produces a reply for a scored message. It must not fail: all
// degradation happens inside.
type Generator interface {
	Generate(ctx context.Context, req generator.Request) generator.Outcome
}

// Annotator returns legal references for a harassment message.
type Annotator interface {
	Annotate(ctx context.Context, message string, tier models.Severity) []string
}

// Service orchestrates the full chat pipeline: classification, memory,
// generation, legal annotation, analytics and alerting.
type Service struct {
	classifier  Classifier
	generator   Generator
	annotator   Annotator
	memory      *memory.Store
	store       *analytics.Store
	interaction *analytics.InteractionLog
	dispatcher  alert.Dispatcher
	logger      *zap.Logger

	ready atomic.Bool
}

// Config collects the service's collaborators. Store, Interaction, Annotator
// and Dispatcher are optional; the pipeline degrades gracefully without them.
type Config struct {
	Classifier  Classifier
	Generator   Generator
	Annotator   Annotator
	Memory      *memory.Store
	Store       *analytics.Store
	Interaction *analytics.InteractionLog
	Dispatcher  alert.Dispatcher
}

// NewService creates the chat service.
func NewService(cfg Config, logger *zap.Logger) *Service {
	return &Service{
		classifier:  cfg.Classifier,
		generator:   cfg.Generator,
		annotator:   cfg.Annotator,
		memory:      cfg.Memory,
		store:       cfg.Store,
		interaction: cfg.Interaction,
		dispatcher:  cfg.Dispatcher,
		logger:      logger,
	}
}

// checkReady probes the classifier until the first positive health check,
// then caches the result for the process lifetime.
func (s *Service) checkReady(ctx context.Context) bool {
	if s.ready.Load() {
		return true
	}
	health, err := s.classifier.HealthCheck(ctx)
	if err != nil || !health.Ready() {
		return false
	}
	s.ready.Store(true)
	return true
}

// Chat runs the full pipeline for one user message.
func (s *Service) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if !s.checkReady(ctx) {
		return nil, ErrNotReady
	}

	sessionKey := req.SessionID
	if sessionKey == "" {
		sessionKey = defaultSessionKey
	}

	start := time.Now()

	result, err := s.classifier.Classify(ctx, message)
	if err != nil {
		// The classifier only fails when the model service is unreachable, so
		// a mid-request failure means the endpoint is effectively not ready.
		s.logger.Warn("Classifier unavailable", zap.Error(err))
		return nil, fmt.Errorf("classification failed: %w", ErrNotReady)
	}
	isHarassment := models.IsHarassment(result.Score)

	history := s.memory.Recent(sessionKey, memory.ContextTurns)

	outcome := s.generator.Generate(ctx, generator.Request{
		Message:      message,
		Emotion:      result.Emotion,
		IsHarassment: isHarassment,
		Score:        result.Score,
		History:      history,
		EnableWeb:    req.EnableWeb,
	})
	reply := outcome.Reply

	now := time.Now()
	s.memory.AppendExchange(sessionKey,
		models.Turn{Role: models.RoleUser, Text: message, CreatedAt: now},
		models.Turn{Role: models.RoleAssistant, Text: reply, CreatedAt: now},
	)

	elapsedMs := float64(time.Since(start)) / float64(time.Millisecond)

	if s.store != nil {
		if err := s.store.LogAnalytics(analytics.AnalyticsEntry{
			Emotion:              result.Emotion,
			HarassmentDetected:   isHarassment,
			HarassmentConfidence: round3(result.Score),
			ResponseTimeMs:       round2(elapsedMs),
		}); err != nil {
			s.logger.Warn("Failed to log analytics", zap.Error(err))
		}
		if isHarassment {
			if err := s.store.LogIncident(analytics.IncidentEntry{
				Severity:           round3(result.Score),
				Emotion:            result.Emotion,
				HarassmentDetected: true,
				ResponseTimeMs:     round2(elapsedMs),
			}); err != nil {
				s.logger.Warn("Failed to log incident", zap.Error(err))
			}
		}
	}

	if s.annotator != nil {
		for _, annotation := range s.annotator.Annotate(ctx, message, result.Tier) {
			if num := legal.SectionNumber(annotation); num != "" && strings.Contains(reply, num) {
				continue
			}
			reply = reply + "\n\n" + annotation
		}
	}

	if s.interaction != nil {
		s.interaction.Record(sessionKey, message, result.Emotion, result.Tier)
	}

	if s.dispatcher != nil && result.Tier != models.SeverityLow {
		s.dispatcher.Trigger(sessionKey, message, result.Tier, result.Score)
	}

	return &models.ChatResponse{
		Reply:                strings.TrimSpace(reply),
		Emotion:              result.Emotion,
		HarassmentLevel:      result.Tier,
		HarassmentDetected:   isHarassment,
		HarassmentConfidence: round3(result.Score),
		Keywords:             result.Keywords,
		ResponseTimeMs:       round2(elapsedMs),
		WebEnabled:           outcome.WebUsed,
	}, nil
}

// TriggerSupport generates an immediate supportive message for a harassing
// notification. The internal path never fails: classification errors fall
// back to a static message keyed by the caller-provided severity.
func (s *Service) TriggerSupport(ctx context.Context, req models.SupportRequest) (*models.SupportResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if !s.checkReady(ctx) {
		return nil, ErrNotReady
	}

	providedSeverity := models.ParseSeverity(req.Severity)

	result, err := s.classifier.Classify(ctx, message)
	if err != nil {
		s.logger.Warn("Support classification failed, using fallback", zap.Error(err))
		return &models.SupportResponse{
			Reply:           supportFallbackMessage(providedSeverity),
			Severity:        providedSeverity,
			Emotion:         "distress",
			HarassmentScore: 0.0,
		}, nil
	}

	finalSeverity := models.MaxSeverity(providedSeverity, result.Tier)

	outcome := s.generator.Generate(ctx, generator.Request{
		Message:      "I received a notification that says: " + message,
		Emotion:      result.Emotion,
		IsHarassment: true,
		Score:        math.Max(result.Score, 0.6),
		EnableWeb:    false,
	})
	reply := outcome.Reply
	if reply == "" {
		reply = supportFallbackMessage(finalSeverity)
	}

	s.logger.Info("Triggered supportive message", zap.String("severity", string(finalSeverity)))

	return &models.SupportResponse{
		Reply:           reply,
		Severity:        finalSeverity,
		Emotion:         result.Emotion,
		HarassmentScore: round3(result.Score),
	}, nil
}

// Reset clears the session's conversation history.
func (s *Service) Reset(sessionKey string) string {
	if sessionKey == "" {
		sessionKey = defaultSessionKey
	}
	if s.memory.Len(sessionKey) > 0 {
		s.memory.Reset(sessionKey)
		return fmt.Sprintf("Conversation history reset for user %s", sessionKey)
	}
	return fmt.Sprintf("No conversation history found for user %s", sessionKey)
}

// Health reports live classifier readiness.
func (s *Service) Health(ctx context.Context) models.HealthResponse {
	health, err := s.classifier.HealthCheck(ctx)
	loaded := err == nil && health.Ready()
	status := "healthy"
	if !loaded {
		status = "degraded"
	}
	return models.HealthResponse{Status: status, ModelsLoaded: loaded}
}

// Stats aggregates logged incident analytics.
func (s *Service) Stats() (*analytics.Stats, error) {
	if s.store == nil {
		return &analytics.Stats{}, nil
	}
	return s.store.GetStats()
}

func supportFallbackMessage(severity models.Severity) string {
	switch severity {
	case models.SeverityHigh:
		return "This sounds extremely serious, and I'm deeply sorry you're going through this. " +
			"Please prioritize your safety. You can reach out to authorities or trusted friends immediately. " +
			"I'm here with you 💜"
	case models.SeverityMedium:
		return "That message sounds really hurtful. I'm here to support you. " +
			"You might want to report or block the person involved. " +
			"You deserve to feel safe and respected 💜"
	default:
		return "I noticed something that might be bothering you. " +
			"Please remember, you're not alone — I'm here to listen 💜"
	}
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
