package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"oauth-relay/internal/auth"
	"oauth-relay/internal/config"
	"oauth-relay/internal/data"
	"oauth-relay/internal/jobs"
	"oauth-relay/internal/middlewares"
	"oauth-relay/internal/provider"
	"oauth-relay/internal/relay"
	"oauth-relay/internal/token"
	"oauth-relay/internal/version"
	"os"
	"os/signal"
	"syscall"
	"time"
)

type Server struct {
	cfg         *config.Config
	logger      *slog.Logger
	appCtx      *middlewares.AppContext
	httpServer  *http.Server
	debugServer *http.Server
	store       data.SessionStore
	jobManager  *jobs.JobManager
	ctx         context.Context
	cancel      context.CancelFunc
}

func New(cfg *config.Config) (*Server, error) {
	logger := setupLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())

	sessionManager, err := auth.NewSessionManager(ctx, logger, cfg)
	if err != nil {
		cancel()
		return nil, err
	}

	oauthProvider, err := provider.New(ctx, cfg.Provider)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to set up provider: %w", err)
	}

	issuer, err := token.NewIssuer(cfg.Signing)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to set up token issuer: %w", err)
	}

	store, err := data.NewSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize session store", "store", cfg.Sessions.Store, "error", err)
		cancel()
		return nil, err
	}

	relayService := relay.NewService(oauthProvider, store, issuer, logger)

	appCtx := middlewares.NewAppContext(ctx, cfg, logger, sessionManager, oauthProvider, relayService)

	jobManager := jobs.NewJobManager(logger)
	if err := jobManager.Register(jobs.NewSessionStatsJob(store, cfg.Sessions.Store, cfg.Sessions.StatsInterval)); err != nil {
		cancel()
		return nil, err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           setupRouter(appCtx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var debugServer *http.Server
	if cfg.Server.Debug != nil && cfg.Server.Debug.Enabled {
		debugServer = &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Debug.Host, cfg.Server.Debug.Port),
			Handler:           setupDebugRouter(),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	return &Server{
		cfg:         cfg,
		logger:      logger,
		appCtx:      appCtx,
		httpServer:  server,
		debugServer: debugServer,
		store:       store,
		jobManager:  jobManager,
		ctx:         ctx,
		cancel:      cancel,
	}, nil
}

// Start serves until SIGINT/SIGTERM or until a listener fails, then drains
// in-flight requests.
func (s *Server) Start() error {
	s.jobManager.Start(s.ctx)

	go func() {
		s.logger.Info("Server Started",
			"port", s.cfg.Server.Port,
			"provider", s.cfg.Provider.Type,
			"store", s.cfg.Sessions.Store,
			"version", version.Version,
		)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server failed to start", "error", err)
			s.cancel()
		}
	}()

	if s.debugServer != nil {
		go func() {
			s.logger.Info("Metrics server starting", "address", s.debugServer.Addr)
			if err := s.debugServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("Metrics server failed to start", "error", err)
				s.cancel()
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		s.logger.Info("Shutdown signal received")
	case <-s.ctx.Done():
		s.logger.Info("Context canceled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	s.logger.Info("Shutting Down Server")

	s.jobManager.Shutdown(shutdownCtx)

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
		return err
	}

	if s.debugServer != nil {
		if err := s.debugServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Debug server forced to shutdown", "error", err)
		}
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			s.logger.Warn("failed to close session store", "error", err)
		}
	} else if closer, ok := s.store.(interface{ Close() }); ok {
		closer.Close()
	}

	s.cancel()
	s.logger.Info("Server Exited")
	return nil
}
