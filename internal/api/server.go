// Package api exposes the academy engine as a JSON HTTP API for the web
// front end.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/agrovision/academy/internal/academy"
	"github.com/agrovision/academy/internal/logger"
)

// Config configures the HTTP server.
type Config struct {
	Addr        string
	CORSOrigins []string
}

// Server serves the academy API.
type Server struct {
	engine *academy.Engine
	log    *logger.Logger
	router *gin.Engine
	cfg    Config
}

// NewServer builds the router. It does not start listening.
func NewServer(engine *academy.Engine, cfg Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		engine: engine,
		log:    log.With("component", "api"),
		cfg:    cfg,
	}
	s.router = s.newRouter()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	if len(s.cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     s.cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthCheck)

	api := router.Group("/api")
	{
		api.GET("/units", s.listUnits)
		api.GET("/progress", s.getProgress)
		api.POST("/progress/reset", s.resetProgress)

		api.POST("/session", s.startSession)
		api.GET("/session", s.getSession)
		api.DELETE("/session", s.exitSession)
		api.POST("/session/answer", s.answer)
		api.POST("/session/acknowledge", s.acknowledge)

		api.GET("/calibration", s.getCalibration)
		api.POST("/calibration", s.calibrate)

		api.POST("/scans/:step", s.applyScan)

		api.GET("/missions", s.listMissions)
		api.POST("/missions/:id/claim", s.claimMission)

		api.GET("/leaderboard", s.leaderboard)
		api.GET("/events", s.listEvents)
	}
	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
