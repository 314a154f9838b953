// Package api exposes the latest valuation results over HTTP.
package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Server is the HTTP API server.
type Server struct {
	router *gin.Engine
	srv    *http.Server
}

// NewServer creates a server listening on addr with all routes registered.
func NewServer(addr string, handlers *Handlers) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	s := &Server{
		router: router,
		srv: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	s.setupRoutes(handlers)
	return s
}

func (s *Server) setupRoutes(h *Handlers) {
	s.router.GET("/health", h.HealthCheck)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/valuations", h.ListValuations)
		v1.GET("/valuations/:code", h.GetValuation)
		v1.POST("/refresh", h.Refresh)
		v1.GET("/report", h.Report)
	}
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves in the background until Shutdown is called.
func (s *Server) Start() {
	go func() {
		log.Printf("[INFO] API server listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[ERROR] API server: %v", err)
		}
	}()
}

// Shutdown stops the server gracefully, waiting at most 5 seconds.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Println("[INFO] API server stopped")
	return nil
}
