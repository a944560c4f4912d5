package server

import (
	"context"
	"net/http"
	"time"

	"github.com/eventkeeper/reminder-service/internal/auth"
	"github.com/eventkeeper/reminder-service/internal/config"
	"github.com/eventkeeper/reminder-service/internal/services"
	"github.com/eventkeeper/reminder-service/internal/users"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server wraps the HTTP server and its routes.
type Server struct {
	Server *http.Server
	log    *zap.Logger
}

// New builds the router and handlers and returns a server ready to start.
func New(cfg *config.Config, events *services.EventService, directory users.UserDirectory, tokens *auth.Manager, log *zap.Logger) *Server {
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(requestLogger(log))
	r.Use(gin.Recovery())

	authHandler := NewAuthHandler(directory, tokens, log)
	eventHandler := NewEventHandler(events, log)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := r.Group("/api")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		protected := api.Group("/events", auth.Middleware(tokens))
		{
			protected.POST("", eventHandler.CreateEvent)
			protected.GET("", eventHandler.ListEvents)
		}
	}

	return &Server{
		Server: &http.Server{
			Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:      r,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		log: log,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.Server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down server")
	return s.Server.Shutdown(ctx)
}

// requestLogger logs all incoming requests.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Info("Request processed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}
