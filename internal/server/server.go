// internal/server/server.go
package server

import (
	"context"
	"net/http"
	"time"

	"gachipet/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	server *http.Server
	logger *logger.Logger
}

// SetupRouter wires the API routes onto a gin engine.
func SetupRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.POST("/chat", h.HandleChat)
		api.POST("/feed", h.HandleFeed)
		api.POST("/esp32", h.HandleDisplay)
	}

	// Liveness check
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}

func NewServer(port string, h *Handlers, logger *logger.Logger) *Server {
	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      SetupRouter(h),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		server: httpServer,
		logger: logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}
