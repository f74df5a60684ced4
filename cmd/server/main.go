package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tharun242005/EMPATH-AI/internal/alert"
	"github.com/tharun242005/EMPATH-AI/internal/analytics"
	"github.com/tharun242005/EMPATH-AI/internal/chat"
	"github.com/tharun242005/EMPATH-AI/internal/classifier"
	"github.com/tharun242005/EMPATH-AI/internal/config"
	"github.com/tharun242005/EMPATH-AI/internal/generator"
	"github.com/tharun242005/EMPATH-AI/internal/legal"
	"github.com/tharun242005/EMPATH-AI/internal/memory"
	"github.com/tharun242005/EMPATH-AI/internal/server"
	"github.com/tharun242005/EMPATH-AI/internal/websearch"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Starting EmpathAI backend...")

	cfg, err := config.LoadConfig("configs/config.yml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Classifier client; probe it once so startup logs show model state.
	mlClient := classifier.NewClient(cfg.Classifier.URL, cfg.ClassifierTimeout())
	probeCtx, probeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if health, err := mlClient.HealthCheck(probeCtx); err != nil {
		logger.Warn("Classifier not reachable yet, requests will be rejected until it is", zap.Error(err))
	} else if !health.Ready() {
		logger.Warn("Classifier reachable but models not loaded", zap.String("status", health.Status))
	} else {
		logger.Info("Classifier ready", zap.String("device", health.Device))
	}
	probeCancel()

	// Generation backend is mandatory: refuse to start without it.
	if cfg.Gemini.APIKey == "" || cfg.Gemini.APIKey == "YOUR_API_KEY_HERE" {
		logger.Fatal("Gemini API key not configured. Please set it in configs/config.yml or environment variable")
	}
	backend, err := generator.NewGeminiBackend(generator.GeminiConfig{
		APIKey:    cfg.Gemini.APIKey,
		ModelName: cfg.Gemini.ModelName,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Gemini backend", zap.Error(err))
	}
	defer backend.Close()

	// Web search is optional.
	var fetcher generator.ContextFetcher
	if cfg.WebSearch.APIKey != "" && cfg.WebSearch.EngineID != "" {
		ws, err := websearch.NewClient(cfg.WebSearch.APIKey, cfg.WebSearch.EngineID,
			cfg.WebSearch.MaxResults, cfg.WebSearchTimeout(), logger)
		if err != nil {
			logger.Warn("Failed to initialize web search, continuing without it", zap.Error(err))
		} else {
			fetcher = ws
			logger.Info("Web search enabled")
		}
	}

	genClient := generator.NewClient(backend, fetcher, generator.Config{
		MaxRetries: cfg.Gemini.MaxRetries,
	}, logger)

	// Legal dataset is optional; missing file just disables annotations.
	var annotator chat.Annotator
	if cfg.Legal.DatasetPath != "" {
		sections, err := legal.LoadDataset(cfg.Legal.DatasetPath)
		if err != nil {
			logger.Warn("Could not load legal dataset, annotations disabled", zap.Error(err))
		} else {
			annotator = legal.NewMatcher(sections, backend, logger)
			logger.Info("Legal dataset loaded", zap.Int("sections", len(sections)))
		}
	}

	// Analytics store is optional.
	var store *analytics.Store
	if s, err := analytics.Open(cfg.Database.Type, cfg.Database.Path, "migrations/postgres", logger); err != nil {
		logger.Warn("Analytics store unavailable", zap.Error(err))
	} else {
		store = s
		defer store.Close()
	}

	// Interaction log is optional.
	var interaction *analytics.InteractionLog
	if il, err := analytics.NewInteractionLog(cfg.InteractionLog.Path); err != nil {
		logger.Warn("Interaction log unavailable", zap.Error(err))
	} else {
		interaction = il
	}

	// Alerts go to Telegram when configured, the structured log otherwise.
	var dispatcher alert.Dispatcher = alert.NewLogDispatcher(logger)
	if cfg.Alerts.TelegramBotToken != "" && cfg.Alerts.TelegramChatID != 0 {
		td, err := alert.NewTelegramDispatcher(cfg.Alerts.TelegramBotToken, cfg.Alerts.TelegramChatID, logger)
		if err != nil {
			logger.Warn("Failed to initialize telegram alerts, falling back to log alerts", zap.Error(err))
		} else {
			dispatcher = td
		}
	}

	service := chat.NewService(chat.Config{
		Classifier:  mlClient,
		Generator:   genClient,
		Annotator:   annotator,
		Memory:      memory.NewStore(),
		Store:       store,
		Interaction: interaction,
		Dispatcher:  dispatcher,
	}, logger)

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: server.NewServer(service, logger).Handler(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("EmpathAI backend is running", zap.String("addr", cfg.Server.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
