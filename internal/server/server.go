// Package server is the composition root: it opens the stores, wires the
// services and handlers, mounts the route table and runs the HTTP server
// with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/snippet-share/internal/auth"
	"github.com/sakif/snippet-share/internal/config"
	"github.com/sakif/snippet-share/internal/handler"
	"github.com/sakif/snippet-share/internal/middleware"
	"github.com/sakif/snippet-share/internal/repository"
	"github.com/sakif/snippet-share/internal/repository/mongodb"
	sqliteRepo "github.com/sakif/snippet-share/internal/repository/sqlite"
	"github.com/sakif/snippet-share/internal/service"
	"github.com/sakif/snippet-share/internal/session"
	"github.com/sakif/snippet-share/web"
)

// Deps are the stores the application runs on.
type Deps struct {
	Users    repository.UserRepository
	Snippets repository.SnippetRepository
	Sessions session.Store
}

// Server owns the HTTP server and the stores it opened.
type Server struct {
	handler http.Handler
	config  config.Config
	logger  *slog.Logger
	stores  *Stores
}

// New opens the configured stores and builds the router.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	stores, err := OpenStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	h, err := NewHandler(cfg, stores.Deps, logger)
	if err != nil {
		stores.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return &Server{handler: h, config: cfg, logger: logger, stores: stores}, nil
}

// Stores are the backends opened from a Config.
type Stores struct {
	Deps
	closers []func() error
}

// OpenStores connects the credential/snippet store and the session store
// selected by cfg. On error, anything already opened is closed again.
func OpenStores(ctx context.Context, cfg config.Config) (*Stores, error) {
	s := &Stores{}

	switch cfg.Store {
	case config.StoreSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		db, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		s.closers = append(s.closers, db.Close)
		s.Users, s.Snippets = db, db

	default:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		db, err := mongodb.New(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		s.closers = append(s.closers, db.Close)
		s.Users, s.Snippets = db, db
	}

	switch cfg.SessionStore {
	case config.SessionsRedis:
		rdb, err := session.DialRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, rdb.Close)
		s.Sessions = session.NewRedisStore(rdb, cfg.SessionTTL)

	default:
		s.Sessions = session.NewMemoryStore(cfg.SessionTTL)
	}

	return s, nil
}

// Close releases the backends in reverse order of opening.
func (s *Stores) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// NewHandler wires services and handlers on top of deps and returns the
// complete router.
//
// MIDDLEWARE ORDER:
//  1. RequestID: tags the request for the log line
//  2. RealIP: client address from proxy headers
//  3. Recoverer: a panic becomes a 500 instead of killing the process
//  4. Session: cookie → identity in the context
//  5. Logger: one line per request, sees the identity set by Session
func NewHandler(cfg config.Config, deps Deps, logger *slog.Logger) (http.Handler, error) {
	tokens, err := auth.NewTokenService(cfg.SessionSecret)
	if err != nil {
		return nil, err
	}
	passwords, err := auth.NewPasswordService(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	cookies := session.NewCookies(tokens, cfg.SecureCookies)

	var policy service.Policy = service.NewCreatorPolicy(cfg.AdminUsers...)
	if cfg.Ownership == config.OwnershipOpen {
		policy = service.OpenPolicy{}
	}

	authSvc := service.NewAuthService(deps.Users, passwords, deps.Sessions, logger)
	snippetSvc := service.NewSnippetService(deps.Snippets, policy, logger)

	pages, err := handler.NewPages(web.Templates(), logger)
	if err != nil {
		return nil, err
	}
	h := handler.New(authSvc, snippetSvc, cookies, pages, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Session(deps.Sessions, cookies, logger))
	r.Use(middleware.Logger(logger))

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS(cfg)))))

	if err := h.Mount(r, handler.DefaultRoutes()); err != nil {
		return nil, err
	}
	return r, nil
}

func staticFS(cfg config.Config) fs.FS {
	if cfg.StaticDir != "" {
		return os.DirFS(cfg.StaticDir)
	}
	return web.Static()
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests for
// up to 30 seconds and closes the stores.
func (s *Server) Start() error {
	defer func() {
		if err := s.stores.Close(); err != nil {
			s.logger.Warn("closing stores", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("store", s.config.Store),
			slog.String("sessions", s.config.SessionStore),
			slog.String("ownership", s.config.Ownership),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
