// Package httpapi exposes the registration and session workflows over a
// JSON/multipart HTTP surface.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/avolkovs/talentdesk/internal/logging"
	"github.com/avolkovs/talentdesk/internal/server/config"
	"github.com/avolkovs/talentdesk/internal/server/models"
	"github.com/avolkovs/talentdesk/internal/server/services"
	"github.com/avolkovs/talentdesk/internal/server/uploads"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// AccountService is the slice of the service layer the handlers call.
type AccountService interface {
	Provision(ctx context.Context, req *services.RegistrationRequest) (*services.ProvisionResult, error)
	Login(ctx context.Context, email, password string) (*models.Account, *services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	GetAccount(ctx context.Context, accountID string) (*services.AccountDetails, error)
}

type Server struct {
	engine  *gin.Engine
	config  *config.Config
	service AccountService
	files   uploads.Store
	logger  logging.Logger
}

func NewServer(cfg *config.Config, service AccountService, files uploads.Store, logger logging.Logger) *Server {
	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:  gin.New(),
		config:  cfg,
		service: service,
		files:   files,
		logger:  logger.With("module", "httpapi"),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(s.requestLogger())
	s.engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.healthz)

	api := s.engine.Group("/api/v1")
	api.POST("/accounts", s.registerAccount)
	api.POST("/sessions", s.login)
	api.POST("/sessions/refresh", s.refreshSession)
	api.GET("/accounts/me", s.authRequired(), s.currentAccount)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down draining in-flight
// requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.config.EndpointAddr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.config.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info(ctx, "http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
