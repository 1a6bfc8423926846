package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HTTPProvider talks to a GoTrue-compatible endpoint (/auth/v1/...).
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// HTTPOption configures an HTTPProvider.
type HTTPOption func(*HTTPProvider)

// WithHTTPClient swaps the client used for provider calls.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(p *HTTPProvider) {
		if client != nil {
			p.client = client
		}
	}
}

// NewHTTPProvider returns a provider rooted at baseURL.
func NewHTTPProvider(baseURL, apiKey string, opts ...HTTPOption) (*HTTPProvider, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("auth: provider url is required")
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, fmt.Errorf("auth: provider url: %w", err)
	}
	p := &HTTPProvider{baseURL: trimmed, apiKey: apiKey, client: http.DefaultClient}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p *HTTPProvider) SignUp(ctx context.Context, email, password string) (Response, error) {
	return p.post(ctx, "/auth/v1/signup", credentials{Email: email, Password: password})
}

func (p *HTTPProvider) SignInWithPassword(ctx context.Context, email, password string) (Response, error) {
	return p.post(ctx, "/auth/v1/token?grant_type=password", credentials{Email: email, Password: password})
}

// SignInWithOAuth builds the authorize URL the browser is sent to. No
// request is made; Data is {"provider": ..., "url": ...}.
func (p *HTTPProvider) SignInWithOAuth(ctx context.Context, provider, redirectTo string) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	if strings.TrimSpace(provider) == "" {
		return Response{Error: &ProviderError{Status: http.StatusBadRequest, Message: "provider is required"}}, nil
	}
	return oauthResponse(p.baseURL, provider, redirectTo)
}

func oauthResponse(baseURL, provider, redirectTo string) (Response, error) {
	q := url.Values{"provider": {provider}}
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	data, err := json.Marshal(map[string]string{
		"provider": provider,
		"url":      baseURL + "/auth/v1/authorize?" + q.Encode(),
	})
	if err != nil {
		return Response{}, err
	}
	return Response{Data: data}, nil
}

func (p *HTTPProvider) post(ctx context.Context, path string, body any) (Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("auth: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("auth: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("apikey", p.apiKey)
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("auth: %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Response{}, fmt.Errorf("auth: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{Error: decodeProviderError(resp.StatusCode, raw)}, nil
	}
	if !json.Valid(raw) {
		return Response{}, fmt.Errorf("auth: %s: response is not JSON", path)
	}
	return Response{Data: raw}, nil
}

// decodeProviderError picks the human message out of the error shapes
// GoTrue has used over time.
func decodeProviderError(status int, raw []byte) *ProviderError {
	var body struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
		ErrorCode        string `json:"error_code"`
		Code             any    `json:"code"`
	}
	perr := &ProviderError{Status: status}
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, candidate := range []string{body.Msg, body.Message, body.ErrorDescription, body.Error} {
			if candidate != "" {
				perr.Message = candidate
				break
			}
		}
		perr.Code = body.ErrorCode
		if perr.Code == "" {
			if code, ok := body.Code.(string); ok {
				perr.Code = code
			}
		}
	}
	if perr.Message == "" {
		if text := strings.TrimSpace(string(raw)); text != "" && len(text) < 200 {
			perr.Message = text
		} else {
			perr.Message = http.StatusText(status)
		}
	}
	return perr
}
