// Package http exposes the workspace over a REST API plus a websocket event
// stream: the chat pipeline, the task registry, the content sinks and the
// kanban board.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"loft/internal/board"
	"loft/internal/content"
	"loft/internal/events"
	"loft/internal/logging"
	"loft/internal/orchestrator"
	"loft/internal/task"
)

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr         string
	Debug        bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns the server defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:        ":8080",
		ReadTimeout: 30 * time.Second,
		// Websocket connections and the chat pipeline outlive a typical
		// request write window, so no global write timeout.
	}
}

// Server hosts the workspace API.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server

	orch     *orchestrator.Orchestrator
	registry *task.Registry
	sinks    *content.Sinks
	board    *board.Store
	hub      *events.Hub

	upgrader websocket.Upgrader
	logger   logging.Logger
}

// NewServer assembles the gin engine and routes.
func NewServer(cfg ServerConfig, orch *orchestrator.Orchestrator, registry *task.Registry, sinks *content.Sinks, boardStore *board.Store, hub *events.Hub) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultServerConfig().Addr
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"}
	corsConfig.AllowWebSockets = true
	engine.Use(cors.New(corsConfig))

	s := &Server{
		engine:   engine,
		orch:     orch,
		registry: registry,
		sinks:    sinks,
		board:    boardStore,
		hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logging.NewComponentLogger("http"),
	}
	s.engine.Use(s.requestLogger())
	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:        cfg.Addr,
		Handler:     engine,
		ReadTimeout: cfg.ReadTimeout,
	}
	if cfg.WriteTimeout > 0 {
		s.httpServer.WriteTimeout = cfg.WriteTimeout
	}
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.engine.GET("/ws", s.handleWebSocket)

	api := s.engine.Group("/api")
	{
		api.POST("/chat", s.handleChat)
		api.GET("/tasks", s.handleListTasks)
		api.GET("/content/:kind", s.handleGetContent)
		api.PUT("/content/:kind/edit-mode", s.handleSetEditMode)

		api.GET("/board", s.handleListCards)
		api.POST("/board", s.handleAddCard)
		api.PATCH("/board/:id", s.handlePatchCard)
		api.DELETE("/board/:id", s.handleDeleteCard)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("%s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
