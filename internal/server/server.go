// Package server exposes the builder, library, entries, wizard and auth
// operations over HTTP with gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kagzat/kagzat-india-sub000/internal/config"
	"github.com/Kagzat/kagzat-india-sub000/internal/storage"
	"github.com/Kagzat/kagzat-india-sub000/pkg/auth"
	"github.com/Kagzat/kagzat-india-sub000/pkg/builder"
	"github.com/Kagzat/kagzat-india-sub000/pkg/library"
	"github.com/Kagzat/kagzat-india-sub000/pkg/render"
	"github.com/Kagzat/kagzat-india-sub000/pkg/renderers/html"
	"github.com/Kagzat/kagzat-india-sub000/pkg/wizard"
)

const shutdownTimeout = 5 * time.Second

// Server wires the packages behind one gin engine.
type Server struct {
	cfg       config.Config
	logger    *zap.Logger
	library   *library.Catalog
	flows     *wizard.Catalog
	store     storage.Store
	provider  auth.Provider
	session   *auth.Session
	verifier  *auth.Verifier
	renderers *render.Registry

	editors *registry[*builder.Editor]
	runs    *registry[*wizard.Machine]

	draftsMu sync.Mutex
	drafts   map[string]*wizard.DraftWriter

	engine *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithLibrary(lib *library.Catalog) Option {
	return func(s *Server) {
		if lib != nil {
			s.library = lib
		}
	}
}

func WithFlows(flows *wizard.Catalog) Option {
	return func(s *Server) {
		if flows != nil {
			s.flows = flows
		}
	}
}

// WithStore sets the store backing auth sessions, drafts and saved forms.
// The default is an in-memory store.
func WithStore(store storage.Store) Option {
	return func(s *Server) {
		if store != nil {
			s.store = store
		}
	}
}

// WithProvider overrides the provider chosen from the auth config.
func WithProvider(provider auth.Provider) Option {
	return func(s *Server) {
		if provider != nil {
			s.provider = provider
		}
	}
}

// WithRenderers replaces the renderer registry. Its default renderer serves
// previews.
func WithRenderers(reg *render.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.renderers = reg
		}
	}
}

// New builds a server from cfg.
func New(cfg config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:     cfg,
		logger:  zap.NewNop(),
		editors: newRegistry[*builder.Editor](),
		runs:    newRegistry[*wizard.Machine](),
		drafts:  map[string]*wizard.DraftWriter{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.library == nil {
		s.library = library.Default()
	}
	if s.flows == nil {
		s.flows = wizard.Default()
	}
	if s.store == nil {
		s.store = storage.NewMemoryStore()
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		s.logger.Warn("auth.jwt_secret not set; tokens will not survive a restart")
	}
	verifier, err := auth.NewVerifier(secret)
	if err != nil {
		return nil, err
	}
	s.verifier = verifier

	if s.provider == nil {
		if cfg.Auth.Simulate {
			s.provider = auth.NewSimulatedProvider(verifier, cfg.Auth.SimulateLatency)
		} else {
			hp, err := auth.NewHTTPProvider(cfg.Auth.ProviderURL, cfg.Auth.APIKey)
			if err != nil {
				return nil, err
			}
			s.provider = hp
		}
	}
	s.session, err = auth.NewSession(s.provider, s.store, auth.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	if s.renderers == nil {
		htmlRenderer, err := html.New(html.WithThemeSelector(render.DefaultThemes()))
		if err != nil {
			return nil, fmt.Errorf("server: html renderer: %w", err)
		}
		s.renderers = render.NewRegistry()
		if err := s.renderers.Register(htmlRenderer); err != nil {
			return nil, err
		}
	}

	s.engine = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on cfg.Server.Addr until ctx ends, then shuts down and flushes
// pending drafts.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  2 * s.cfg.Server.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return s.Close(shutdownCtx)
}

// Close flushes and closes every draft writer.
func (s *Server) Close(ctx context.Context) error {
	s.draftsMu.Lock()
	defer s.draftsMu.Unlock()
	var errs []error
	for flowID, w := range s.drafts {
		if err := w.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("draft %s: %w", flowID, err))
		}
		delete(s.drafts, flowID)
	}
	return errors.Join(errs...)
}

func (s *Server) draftWriter(flowID string) *wizard.DraftWriter {
	s.draftsMu.Lock()
	defer s.draftsMu.Unlock()
	w, ok := s.drafts[flowID]
	if !ok {
		w = wizard.NewDraftWriter(s.store, flowID,
			wizard.WithDebounce(s.cfg.Wizard.DraftDebounce),
			wizard.WithDraftLogger(s.logger),
		)
		s.drafts[flowID] = w
	}
	return w
}
