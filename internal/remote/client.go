// Package remote is the HTTP client for the remote document backend: email/
// password authentication plus per-user favorites and notes collections. The
// session (bearer token + user id) is state owned by the Client instance, not
// package-level, so multiple isolated sessions can coexist in one process.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/avillega/rimario/internal/errs"
	"github.com/avillega/rimario/internal/model"
)

const apiPrefix = "/api/v1"

// fallbackTokenTTL is assumed when the token carries no exp claim.
const fallbackTokenTTL = 15 * time.Minute

// Client talks to the remote backend. The zero session means unauthenticated.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     *zap.Logger

	mu        sync.Mutex
	token     string
	userID    string
	expiresAt time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpc = h } }

// WithLogger sets the logger; the default is a no-op logger.
func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.log = l } }

// New constructs a backend client for baseURL (no trailing slash).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   http.DefaultClient,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Authenticated reports whether the client holds an unexpired session.
func (c *Client) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != "" && time.Now().Before(c.expiresAt)
}

// Token returns the current bearer token and its expiry for persistence.
func (c *Client) Token() (string, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token, c.expiresAt
}

// RestoreSession adopts a previously persisted token.
func (c *Client) RestoreSession(token string) {
	c.adoptToken(token)
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username,omitempty"`
}

type authResponse struct {
	User        userPayload `json:"user"`
	AccessToken string      `json:"access_token"`
}

// Register creates an account and adopts the returned session.
func (c *Client) Register(ctx context.Context, email, password, username string) (model.User, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, apiPrefix+"/auth/register",
		authRequest{Email: email, Password: password, Username: username}, &resp, false)
	if err != nil {
		return model.User{}, err
	}
	c.adoptToken(resp.AccessToken)
	return resp.User.toModel(), nil
}

// Login authenticates and adopts the returned session.
func (c *Client) Login(ctx context.Context, email, password string) (model.User, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, apiPrefix+"/auth/login",
		authRequest{Email: email, Password: password}, &resp, false)
	if err != nil {
		return model.User{}, err
	}
	c.adoptToken(resp.AccessToken)
	return resp.User.toModel(), nil
}

// Logout revokes the session server-side and always drops the client-held
// session, even when the request failed.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, apiPrefix+"/auth/logout", nil, nil, true)
	c.mu.Lock()
	c.token, c.userID, c.expiresAt = "", "", time.Time{}
	c.mu.Unlock()
	return err
}

// Me returns the profile of the authenticated user.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	if !c.Authenticated() {
		return model.User{}, errs.ErrBackendUnavailable
	}
	var u userPayload
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/me", nil, &u, true); err != nil {
		return model.User{}, err
	}
	return u.toModel(), nil
}

// adoptToken stores the token and reads its expiry and subject from the JWT
// claims without verifying the signature; verification is the server's job.
func (c *Client) adoptToken(token string) {
	var claims jwt.RegisteredClaims
	_, _ = jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return nil, nil },
		jwt.WithoutClaimsValidation())

	exp := time.Now().Add(fallbackTokenTTL)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	c.mu.Lock()
	c.token = token
	c.userID = claims.Subject
	c.expiresAt = exp
	c.mu.Unlock()
}

type errorResponse struct {
	Error string `json:"error"`
}

// do performs one JSON round trip. Transport failures wrap
// errs.ErrBackendUnavailable; HTTP statuses map onto the shared sentinels.
func (c *Client) do(ctx context.Context, method, path string, in, out any, auth bool) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		c.mu.Lock()
		tok := c.token
		c.mu.Unlock()
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrBackendUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return c.statusError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) statusError(resp *http.Response) error {
	var er errorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&er)
	msg := er.Error
	if msg == "" {
		msg = resp.Status
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", errs.ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", errs.ErrNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", errs.ErrAlreadyExists, msg)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", errs.ErrRateLimited, msg)
	default:
		return fmt.Errorf("backend error (%d): %s", resp.StatusCode, msg)
	}
}

// requireAuth gates document operations on an authenticated session so the
// facades can skip straight to the local fallback without a network call.
func (c *Client) requireAuth() error {
	if !c.Authenticated() {
		return errs.ErrBackendUnavailable
	}
	return nil
}
