package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	simulatedBaseURL = "https://auth.kagzat.local"
	minPasswordLen   = 6
	tokenTTL         = time.Hour
)

// SimulatedProvider is the demo backend: an in-memory user table behind an
// artificial delay. Tokens are real HS256 tokens so the service guard
// accepts them.
type SimulatedProvider struct {
	latency  time.Duration
	verifier *Verifier

	mu    sync.Mutex
	users map[string]simulatedUser
}

type simulatedUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	password  string
}

// NewSimulatedProvider returns a provider that sleeps latency before each
// answer and signs tokens with verifier.
func NewSimulatedProvider(verifier *Verifier, latency time.Duration) *SimulatedProvider {
	return &SimulatedProvider{latency: latency, verifier: verifier, users: map[string]simulatedUser{}}
}

func (p *SimulatedProvider) SignUp(ctx context.Context, email, password string) (Response, error) {
	if err := p.wait(ctx); err != nil {
		return Response{}, err
	}
	email = normaliseEmail(email)
	if perr := checkCredentials(email, password); perr != nil {
		return Response{Error: perr}, nil
	}
	if len(password) < minPasswordLen {
		return Response{Error: &ProviderError{Status: http.StatusUnprocessableEntity, Code: "weak_password", Message: "Password should be at least 6 characters"}}, nil
	}

	p.mu.Lock()
	if _, exists := p.users[email]; exists {
		p.mu.Unlock()
		return Response{Error: &ProviderError{Status: http.StatusUnprocessableEntity, Code: "user_already_exists", Message: "User already registered"}}, nil
	}
	user := simulatedUser{ID: uuid.NewString(), Email: email, CreatedAt: time.Now().UTC(), password: password}
	p.users[email] = user
	p.mu.Unlock()

	return p.session(user)
}

func (p *SimulatedProvider) SignInWithPassword(ctx context.Context, email, password string) (Response, error) {
	if err := p.wait(ctx); err != nil {
		return Response{}, err
	}
	email = normaliseEmail(email)
	if perr := checkCredentials(email, password); perr != nil {
		return Response{Error: perr}, nil
	}

	p.mu.Lock()
	user, ok := p.users[email]
	p.mu.Unlock()
	if !ok || user.password != password {
		return Response{Error: &ProviderError{Status: http.StatusBadRequest, Code: "invalid_credentials", Message: "Invalid login credentials"}}, nil
	}
	return p.session(user)
}

func (p *SimulatedProvider) SignInWithOAuth(ctx context.Context, provider, redirectTo string) (Response, error) {
	if err := p.wait(ctx); err != nil {
		return Response{}, err
	}
	if strings.TrimSpace(provider) == "" {
		return Response{Error: &ProviderError{Status: http.StatusBadRequest, Message: "provider is required"}}, nil
	}
	return oauthResponse(simulatedBaseURL, provider, redirectTo)
}

func (p *SimulatedProvider) session(user simulatedUser) (Response, error) {
	token, expiresAt, err := p.verifier.Issue(user.ID, user.Email, tokenTTL)
	if err != nil {
		return Response{}, err
	}
	data, err := json.Marshal(map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int(tokenTTL.Seconds()),
		"expires_at":   expiresAt.Unix(),
		"user":         user,
	})
	if err != nil {
		return Response{}, err
	}
	return Response{Data: data}, nil
}

func (p *SimulatedProvider) wait(ctx context.Context) error {
	if p.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkCredentials(email, password string) *ProviderError {
	if email == "" || password == "" {
		return &ProviderError{Status: http.StatusBadRequest, Code: "validation_failed", Message: "Email and password are required"}
	}
	if !strings.Contains(email, "@") {
		return &ProviderError{Status: http.StatusBadRequest, Code: "validation_failed", Message: "Unable to validate email address: invalid format"}
	}
	return nil
}
