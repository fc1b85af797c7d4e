// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"taskdesk/internal/config"
	authHandler "taskdesk/internal/handlers/auth"
	categoryHandler "taskdesk/internal/handlers/category"
	taskHandler "taskdesk/internal/handlers/task"
	wsHandler "taskdesk/internal/handlers/websocket"
	"taskdesk/internal/middleware"
	"taskdesk/internal/pkg/navigation"
	"taskdesk/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Server is the local web console.
type Server struct {
	cfg       config.AppConfig
	engine    *gin.Engine
	logger    *zap.Logger
	container *Container
	hub       *websocket.Hub
}

func NewServer(ctx context.Context, cfg config.AppConfig, logger *zap.Logger, opts ...ContainerOption) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// ----- WebSocket Hub -----
	// forced logouts are pushed to every open console page
	hub := websocket.NewHub(logger.Named("hub"))

	navLogger := logger.Named("nav")
	nav := navigation.Multi{
		hub,
		navigation.NavigatorFunc(func(r navigation.Route) {
			navLogger.Info("console pages sent away", zap.String("route", r.String()), zap.Int("pages", hub.TotalClients()))
		}),
	}

	container, err := NewContainer(ctx, cfg, logger, nav, opts...)
	if err != nil {
		return nil, err
	}

	// ----- Handlers -----
	handlers := &Handlers{
		AuthHandler:     authHandler.NewAuthHandler(container.Auth, logger.Named("console")),
		TaskHandler:     taskHandler.NewTaskHandler(container.Tasks),
		CategoryHandler: categoryHandler.NewCategoryHandler(container.Categories),
		WSHandler:       wsHandler.NewWebSocketHandler(hub, logger.Named("ws")),
		Metrics:         container.Metrics.Handler(),
	}

	// ----- Middlewares -----
	engine := gin.New()
	engine.Use(
		middleware.LoggingMiddleware(logger.Named("http")),
		middleware.RecoveryMiddleware(logger),
	)

	// ----- Router -----
	SetupRouter(engine, container.Session, handlers)

	return &Server{
		cfg:       cfg,
		engine:    engine,
		logger:    logger,
		container: container,
		hub:       hub,
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Container() *Container {
	return s.container
}

// Run serves the console until ctx is cancelled, then drains in-flight
// requests and closes the hub and storage.
func (s *Server) Run(ctx context.Context) error {
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go s.hub.Run(hubCtx)

	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("console listening",
			zap.String("addr", s.cfg.HTTPAddr),
			zap.String("api_base_url", s.container.Client.BaseURL()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		_ = s.container.Close()
		if ok {
			return fmt.Errorf("console server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down console")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	stopHub()
	if cerr := s.container.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to stop console: %w", err)
	}

	s.logger.Info("console stopped")
	return nil
}
