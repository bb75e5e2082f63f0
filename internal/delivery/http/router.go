package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterConfig struct {
	StatsHandler   *StatsHandler
	AllowedOrigins []string
	Logger         *zap.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Logger != nil {
		r.Use(RequestLogger(cfg.Logger))
	}
	r.Use(CORS(cfg.AllowedOrigins))

	r.GET("/healthcheck", HealthCheck)

	api := r.Group("/api")
	if cfg.StatsHandler != nil {
		api.GET("/stats/platform", cfg.StatsHandler.Platform)
		api.GET("/stats/dashboard", cfg.StatsHandler.Dashboard)
		api.GET("/attempts", cfg.StatsHandler.Attempts)
	}

	return r
}

// Server is the stats API HTTP server.
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

func NewServer(addr string, cfg RouterConfig) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(cfg),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: cfg.Logger,
	}
}

// Run serves until Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("http server started", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
