package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/judge-session.net/internal/core/ports/primary"
	"gitlab.com/judge-session.net/internal/core/services/registry"
	"gitlab.com/judge-session.net/internal/handlers"
	"gitlab.com/judge-session.net/internal/handlers/response"
	"gitlab.com/judge-session.net/internal/handlers/sessions"
)

type ServiceProvider struct {
	registry   registry.IRegistry
	middleware *handlers.MiddlewareProvider
}

func NewServiceProvider(registry registry.IRegistry, middleware *handlers.MiddlewareProvider) *ServiceProvider {
	return &ServiceProvider{
		registry:   registry,
		middleware: middleware,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	if s.ServiceProvider.registry == nil || s.ServiceProvider.middleware == nil {
		return fmt.Errorf("%s: registry and middleware are required", s.ServiceName)
	}
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	sessions.
		NewSessionHandler(s.ServiceProvider.registry, s.logger).
		RegisterRoutes(r, s.ServiceProvider.middleware)
	s.router = r
	return nil
}

// Handler returns the router built by Init
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	response.WriteSuccess(w, map[string]interface{}{
		"service":  s.ServiceName,
		"sessions": s.ServiceProvider.registry.Len(),
	})
}

func (s *Server) Start(ctx context.Context) {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	// Start the server in a goroutine
	go func() {
		s.logger.Info("Server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down http server...")
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
