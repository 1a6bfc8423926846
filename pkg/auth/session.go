package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Kagzat/kagzat-india-sub000/internal/storage"
)

// ErrNoSession is what a SessionStore returns from Get (directly or
// wrapped) when no session has been stored.
var ErrNoSession = errors.New("auth: no stored session")

// SessionStore persists the raw provider response. Get reports a missing
// session with ErrNoSession.
type SessionStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// SessionOption configures a Session.
type SessionOption func(*Session)

func WithLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session is the auth state owned by the application root. Each call goes
// to the provider once; there are no retries and no timeouts beyond ctx.
type Session struct {
	provider Provider
	store    SessionStore
	logger   *zap.Logger
}

// NewSession wires a provider to the store holding the session.
func NewSession(provider Provider, store SessionStore, opts ...SessionOption) (*Session, error) {
	if provider == nil {
		return nil, errors.New("auth: provider is required")
	}
	if store == nil {
		return nil, errors.New("auth: session store is required")
	}
	s := &Session{provider: provider, store: store, logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *Session) SignUp(ctx context.Context, email, password string) Result {
	resp, err := s.provider.SignUp(ctx, email, password)
	return s.finish(ctx, "signup", resp, err)
}

func (s *Session) SignIn(ctx context.Context, email, password string) Result {
	resp, err := s.provider.SignInWithPassword(ctx, email, password)
	return s.finish(ctx, "signin", resp, err)
}

func (s *Session) SignInWithOAuth(ctx context.Context, provider, redirectTo string) Result {
	resp, err := s.provider.SignInWithOAuth(ctx, provider, redirectTo)
	return s.finish(ctx, "oauth", resp, err)
}

// SignOut forgets the stored session.
func (s *Session) SignOut(ctx context.Context) Result {
	if err := s.store.Delete(ctx, SessionKey); err != nil {
		return Result{Error: err.Error()}
	}
	return Result{Success: true}
}

// Current returns the stored provider response, if any.
func (s *Session) Current(ctx context.Context) (json.RawMessage, bool, error) {
	raw, err := s.store.Get(ctx, SessionKey)
	if err != nil {
		if errors.Is(err, ErrNoSession) || errors.Is(err, storage.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("auth: load session: %w", err)
	}
	return json.RawMessage(raw), true, nil
}

func (s *Session) finish(ctx context.Context, op string, resp Response, err error) Result {
	if err != nil {
		s.logger.Warn("auth call failed", zap.String("op", op), zap.Error(err))
		return Result{Error: err.Error()}
	}
	if resp.Error != nil {
		s.logger.Info("auth rejected", zap.String("op", op), zap.Int("status", resp.Error.Status), zap.String("code", resp.Error.Code))
		return Result{Error: resp.Error.Message}
	}

	// A storage failure does not undo a successful provider call.
	if err := s.store.Set(ctx, SessionKey, resp.Data); err != nil {
		s.logger.Warn("persist session failed", zap.String("op", op), zap.Error(err))
	}
	return Result{Success: true, Data: resp.Data}
}
