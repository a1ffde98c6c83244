// Package supabase talks to the Supabase auth (GoTrue) API.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/icco/moodmovies/lib/config"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotConfigured      = errors.New("supabase is not configured")
)

const maxBodySize = 1 << 20

// APIError is a non-2xx response from the auth API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase: %d %s", e.Status, e.Message)
}

type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

type SignUpRequest struct {
	Email    string
	Password string
	FullName string
	Username string
}

type Client struct {
	baseURL    string
	anonKey    string
	jwtSecret  []byte
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg config.SupabaseConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	c := &Client{
		baseURL:    cfg.URL,
		anonKey:    cfg.AnonKey,
		httpClient: httpClient,
		logger:     logger,
	}
	if cfg.JWTSecret != "" {
		c.jwtSecret = []byte(cfg.JWTSecret)
	}
	return c
}

// SignUp registers a user. The returned user may still need email confirmation.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*User, error) {
	body := map[string]any{
		"email":    req.Email,
		"password": req.Password,
		"data": map[string]string{
			"full_name": req.FullName,
			"username":  req.Username,
		},
	}

	// Depending on project settings the response is either the user or a session.
	var resp struct {
		User
		Nested *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", body, &resp); err != nil {
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}

	if resp.Nested != nil && resp.Nested.ID != "" {
		return resp.Nested, nil
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("failed to sign up: %w", &APIError{Status: http.StatusBadRequest, Message: "registration failed"})
	}
	return &resp.User, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	var session Session
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", body, &session)
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.Message)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}
	return &session, nil
}

// SignOut revokes the session behind the access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if err := c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

// GetUser asks the auth API who owns the access token.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	if accessToken == "" {
		return nil, ErrInvalidToken
	}

	var user User
	err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &user)
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.ID == "" {
		return nil, ErrInvalidToken
	}
	return &user, nil
}

// Authenticate resolves an access token to its user. With a JWT secret
// configured the token is verified locally, otherwise the auth API is asked.
func (c *Client) Authenticate(ctx context.Context, accessToken string) (*User, error) {
	if c.jwtSecret != nil {
		return c.verify(accessToken)
	}
	return c.GetUser(ctx, accessToken)
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, in, out any) error {
	if c.baseURL == "" || c.anonKey == "" {
		return ErrNotConfigured
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("Auth API error", slog.String("path", path), slog.Int("status", resp.StatusCode))
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage picks the human readable part of a GoTrue error body.
func errorMessage(data []byte) string {
	var e struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if json.Unmarshal(data, &e) != nil {
		return http.StatusText(http.StatusBadGateway)
	}
	for _, s := range []string{e.Msg, e.ErrorDescription, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return "unknown error"
}
