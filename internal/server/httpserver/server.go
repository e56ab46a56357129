// Package httpserver exposes the auth and todo services over HTTP. Routing
// is handled by chi; handlers translate transport DTOs to service calls and
// map sentinel errors onto status codes.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/todoserver/internal/logging"
	"github.com/dmitrijs2005/todoserver/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type HTTPServer struct {
	address  string
	logger   logging.Logger
	auth     *services.AuthService
	todos    *services.TodoService
	validate *validator.Validate
}

func NewHTTPServer(a string, l logging.Logger, as *services.AuthService, ts *services.TodoService) (*HTTPServer, error) {
	return &HTTPServer{
		address:  a,
		logger:   l.With("module", "http_server"),
		auth:     as,
		todos:    ts,
		validate: validator.New(),
	}, nil
}

// Router assembles the route tree. Auth endpoints are public except refresh,
// verify and logout, which read the bearer token themselves; todo endpoints
// sit behind the authentication middleware.
func (s *HTTPServer) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(s.withRequestID)
	r.Use(s.withLogging)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/verify", s.handleVerify)
		r.Post("/logout", s.handleLogout)
	})

	r.Route("/api/todos", func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/", s.handleListTodos)
		r.Post("/", s.handleCreateTodo)
		r.Get("/{todoID}", s.handleGetTodo)
		r.Patch("/{todoID}", s.handlePatchTodo)
		r.Delete("/{todoID}", s.handleDeleteTodo)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
