package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tharun242005/EMPATH-AI/internal/chat"
	"github.com/tharun242005/EMPATH-AI/internal/handler"
)

type Server struct {
	router *gin.Engine
	logger *zap.Logger
}

func NewServer(service *chat.Service, logger *zap.Logger) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())

	s := &Server{
		router: router,
		logger: logger,
	}

	chatHandler := handler.NewChatHandler(service, logger)

	s.router.GET("/health", chatHandler.Health)

	api := s.router.Group("/api")
	{
		api.POST("/chat", chatHandler.Chat)
		api.POST("/reset", chatHandler.Reset)
		api.POST("/trigger-support", chatHandler.TriggerSupport)
		api.GET("/stats", chatHandler.Stats)
	}

	return s
}

// corsMiddleware allows the browser frontend to call the API from any origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Handler exposes the router for the HTTP server and for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server on addr and blocks.
func (s *Server) Run(addr string) error {
	s.logger.Info("Server starting", zap.String("addr", addr))
	return s.router.Run(addr)
}
