package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/theyard/yard/internal/auth"
	"github.com/theyard/yard/internal/client/models"
)

const defaultTimeout = 10 * time.Second

// HTTPAuthClient speaks the GoTrue REST dialect used by the hosted backend.
type HTTPAuthClient struct {
	baseURL   string
	anonKey   string
	jwtSecret []byte
	http      *http.Client
	store     SessionStore
	now       func() time.Time

	mu      sync.Mutex
	session *models.Session
	loaded  bool

	listeners listeners
}

type Option func(*HTTPAuthClient)

// WithSessionStore persists sessions across runs.
func WithSessionStore(s SessionStore) Option {
	return func(c *HTTPAuthClient) { c.store = s }
}

// WithJWTSecret enables signature checks on issued access tokens.
func WithJWTSecret(secret []byte) Option {
	return func(c *HTTPAuthClient) { c.jwtSecret = secret }
}

func NewHTTPAuthClient(baseURL, anonKey string, timeout time.Duration, opts ...Option) *HTTPAuthClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &HTTPAuthClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		http:    &http.Client{Timeout: timeout},
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"`
	ExpiresAt    int64         `json:"expires_at"`
	User         *userResponse `json:"user"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e errorResponse) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (c *HTTPAuthClient) do(ctx context.Context, method, path, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.anonKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er errorResponse
		_ = json.Unmarshal(data, &er)
		msg := er.text()
		if msg == "" {
			msg = strings.TrimSpace(string(data))
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPAuthClient) sessionFromToken(tr tokenResponse) (*models.Session, error) {
	claims, err := auth.ParseClaims(tr.AccessToken, c.jwtSecret)
	if err != nil {
		return nil, err
	}

	s := &models.Session{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    claims.ExpiresAtTime(),
		User:         models.Identity{ID: claims.UserID(), Email: claims.Email},
	}
	switch {
	case tr.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(tr.ExpiresAt, 0)
	case s.ExpiresAt.IsZero() && tr.ExpiresIn > 0:
		s.ExpiresAt = c.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	if tr.User != nil {
		if tr.User.ID != "" {
			s.User.ID = tr.User.ID
		}
		if tr.User.Email != "" {
			s.User.Email = tr.User.Email
		}
	}
	return s, nil
}

// setSession replaces the current session, persists it and notifies
// listeners. A nil session clears it.
func (c *HTTPAuthClient) setSession(ctx context.Context, s *models.Session, ev AuthEventType) error {
	c.mu.Lock()
	c.session = s
	c.loaded = true
	c.mu.Unlock()

	var err error
	if c.store != nil {
		if s == nil {
			err = c.store.Clear(ctx)
		} else {
			err = c.store.Save(ctx, s)
		}
		if err != nil {
			err = fmt.Errorf("session persist error: %w", err)
		}
	}

	c.listeners.emit(AuthEvent{Type: ev, Session: s})
	return err
}

func (c *HTTPAuthClient) grant(ctx context.Context, grantType string, body any) (*models.Session, error) {
	var tr tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type="+grantType, "", body, &tr); err != nil {
		return nil, err
	}
	return c.sessionFromToken(tr)
}

// GetSession returns the in-memory session, falling back to the store on
// first use. An expired session with a refresh token is refreshed once; if
// the refresh is rejected the session is dropped.
func (c *HTTPAuthClient) GetSession(ctx context.Context) (*models.Session, error) {
	c.mu.Lock()
	s, loaded := c.session, c.loaded
	c.mu.Unlock()

	if !loaded && c.store != nil {
		stored, err := c.store.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("session load error: %w", err)
		}
		s = stored
		c.mu.Lock()
		c.session, c.loaded = s, true
		c.mu.Unlock()
	}

	if s == nil || !s.Expired(c.now()) {
		return s, nil
	}

	if s.RefreshToken == "" {
		return nil, c.setSession(ctx, nil, EventSignedOut)
	}

	refreshed, err := c.grant(ctx, "refresh_token", map[string]string{"refresh_token": s.RefreshToken})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			return nil, c.setSession(ctx, nil, EventSignedOut)
		}
		return nil, err
	}
	if err := c.setSession(ctx, refreshed, EventTokenRefreshed); err != nil {
		return nil, err
	}
	return refreshed, nil
}

func (c *HTTPAuthClient) OnAuthStateChange(fn func(AuthEvent)) func() {
	return c.listeners.add(fn)
}

// SignUp registers a new account. Depending on project settings the user
// may have to confirm the address before signing in.
func (c *HTTPAuthClient) SignUp(ctx context.Context, email, password string) (*models.Identity, error) {
	var resp struct {
		userResponse
		User *userResponse `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", body, &resp); err != nil {
		return nil, err
	}

	u := resp.userResponse
	if resp.User != nil {
		u = *resp.User
	}
	return &models.Identity{ID: u.ID, Email: u.Email}, nil
}

func (c *HTTPAuthClient) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	s, err := c.grant(ctx, "password", map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	if err := c.setSession(ctx, s, EventSignedIn); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *HTTPAuthClient) SignInWithIDToken(ctx context.Context, provider, idToken string) (*models.Session, error) {
	s, err := c.grant(ctx, "id_token", map[string]string{"provider": provider, "id_token": idToken})
	if err != nil {
		return nil, err
	}
	if err := c.setSession(ctx, s, EventSignedIn); err != nil {
		return nil, err
	}
	return s, nil
}

// SignOut revokes the session remotely and always clears it locally. A
// token the server already considers invalid is not an error.
func (c *HTTPAuthClient) SignOut(ctx context.Context) error {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()

	var remoteErr error
	if s != nil {
		remoteErr = c.do(ctx, http.MethodPost, "/auth/v1/logout", s.AccessToken, nil, nil)
		if errors.Is(remoteErr, ErrUnauthorized) {
			remoteErr = nil
		}
	}

	if err := c.setSession(ctx, nil, EventSignedOut); err != nil {
		return err
	}
	return remoteErr
}

func (c *HTTPAuthClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/auth/v1/health", "", nil, nil)
}
