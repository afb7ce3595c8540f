// Package server exposes the conversation pipeline over HTTP: one chat
// endpoint, a health probe, and a liveness echo.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/decaylee13/Anatomy-View/internal/pipeline"
	"github.com/decaylee13/Anatomy-View/internal/schema"
)

// ChatService is the pipeline surface the server depends on.
type ChatService interface {
	Chat(ctx context.Context, messages []schema.Message) (*schema.ChatResponse, int)
	Health() pipeline.HealthInfo
}

// Server wraps the gin engine and the pipeline.
type Server struct {
	engine *gin.Engine
	chat   ChatService
}

type chatRequest struct {
	Messages []schema.Message `json:"messages"`
}

type healthResponse struct {
	Status           string `json:"status"`
	Model            string `json:"model"`
	Configured       bool   `json:"configured"`
	SecondaryEnabled bool   `json:"secondaryEnabled"`
	SecondaryModel   string `json:"secondaryModel,omitempty"`
}

// New builds the router around chat.
func New(chat ChatService) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(), corsMiddleware())

	s := &Server{engine: engine, chat: chat}

	api := engine.Group("/api")
	api.POST("/chat", s.handleChat)
	api.GET("/health", s.handleHealth)
	api.GET("/hello", s.handleHello)

	return s
}

// Engine returns the underlying router, used by tests and by Run.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Run serves on port until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server started", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("HTTP server stopping")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

// handleChat runs one conversation turn. A malformed body is tolerated as
// an empty message list, matching the permissive inbound contract.
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Debug("chat: ignoring malformed request body", "err", err)
	}

	resp, status := s.chat.Chat(c.Request.Context(), req.Messages)
	c.JSON(status, resp)
}

func (s *Server) handleHealth(c *gin.Context) {
	info := s.chat.Health()
	c.JSON(http.StatusOK, healthResponse{
		Status:           "ok",
		Model:            info.Model,
		Configured:       info.Configured,
		SecondaryEnabled: info.SecondaryEnabled,
		SecondaryModel:   info.SecondaryModel,
	})
}

func (s *Server) handleHello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello from Anatomy-View!"})
}
