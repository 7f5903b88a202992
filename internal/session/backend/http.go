// Package backend implements the session backend over its REST token
// endpoints.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/fekuna/omnipos-terminal/internal/session"
)

type HTTPBackend struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPBackend(baseURL, apiKey string) session.Backend {
	return &HTTPBackend{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (b *HTTPBackend) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	body := map[string]string{"email": email, "password": password}
	var s model.Session
	err := b.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", body, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (b *HTTPBackend) SignOut(ctx context.Context, accessToken string) error {
	return b.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil)
}

func (b *HTTPBackend) GetSession(ctx context.Context, accessToken string) (*model.Session, error) {
	if accessToken == "" {
		return nil, nil
	}
	var user json.RawMessage
	err := b.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &user)
	if err != nil {
		if herr, ok := err.(*httpError); ok && herr.status == http.StatusUnauthorized {
			return nil, nil
		}
		return nil, err
	}
	return &model.Session{AccessToken: accessToken, User: user}, nil
}

func (b *HTTPBackend) Refresh(ctx context.Context, refreshToken string) (*model.Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var s model.Session
	err := b.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", "", body, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type httpError struct {
	status int
	body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("auth backend returned %d: %s", e.status, e.body)
}

func (b *HTTPBackend) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		req.Header.Set("apikey", b.apiKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &httpError{status: resp.StatusCode, body: string(data)}
	}
	if out != nil && len(data) > 0 {
		return json.Unmarshal(data, out)
	}
	return nil
}
