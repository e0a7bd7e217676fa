package client

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/theyard/yard/internal/auth"
	"github.com/theyard/yard/internal/client/models"
	"github.com/theyard/yard/internal/common"
	"github.com/theyard/yard/internal/cryptox"
)

const memoryTokenTTL = time.Hour

type memoryUser struct {
	id    string
	email string
	salt  []byte
	key   []byte
}

// MemoryAuthClient keeps accounts in process. Passwords are stored as
// argon2id hashes and sessions carry real HS256 tokens, so the rest of the
// client cannot tell it from the hosted service.
type MemoryAuthClient struct {
	secret []byte

	mu      sync.Mutex
	users   map[string]*memoryUser
	session *models.Session

	listeners listeners
}

type MemoryOption func(*MemoryAuthClient)

// WithUser pre-registers an account.
func WithUser(email, password string) MemoryOption {
	return func(c *MemoryAuthClient) {
		c.users[normalizeEmail(email)] = newMemoryUser(email, password)
	}
}

// WithUserID pre-registers an account under a fixed id.
func WithUserID(id, email, password string) MemoryOption {
	return func(c *MemoryAuthClient) {
		u := newMemoryUser(email, password)
		u.id = id
		c.users[u.email] = u
	}
}

func NewMemoryAuthClient(secret []byte, opts ...MemoryOption) *MemoryAuthClient {
	if len(secret) == 0 {
		secret = common.GenerateRandByteArray(32)
	}
	c := &MemoryAuthClient{secret: secret, users: make(map[string]*memoryUser)}
	for _, o := range opts {
		o(c)
	}
	return c
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newMemoryUser(email, password string) *memoryUser {
	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	return &memoryUser{
		id:    uuid.NewString(),
		email: normalizeEmail(email),
		salt:  salt,
		key:   cryptox.DeriveKey([]byte(password), salt),
	}
}

func (c *MemoryAuthClient) issue(id, email string) (*models.Session, error) {
	token, err := auth.GenerateToken(id, email, c.secret, memoryTokenTTL)
	if err != nil {
		return nil, err
	}
	claims, err := auth.ParseClaims(token, c.secret)
	if err != nil {
		return nil, err
	}
	refresh, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, err
	}
	return &models.Session{
		AccessToken:  token,
		RefreshToken: refresh,
		ExpiresAt:    claims.ExpiresAtTime(),
		User:         models.Identity{ID: id, Email: email},
	}, nil
}

func (c *MemoryAuthClient) signIn(s *models.Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	c.listeners.emit(AuthEvent{Type: EventSignedIn, Session: s})
}

func (c *MemoryAuthClient) GetSession(ctx context.Context) (*models.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session, nil
}

func (c *MemoryAuthClient) OnAuthStateChange(fn func(AuthEvent)) func() {
	return c.listeners.add(fn)
}

func (c *MemoryAuthClient) SignUp(ctx context.Context, email, password string) (*models.Identity, error) {
	key := normalizeEmail(email)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.users[key]; ok {
		return nil, &APIError{Status: http.StatusUnprocessableEntity, Message: "User already registered"}
	}
	u := newMemoryUser(email, password)
	c.users[key] = u
	return &models.Identity{ID: u.id, Email: u.email}, nil
}

func (c *MemoryAuthClient) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	c.mu.Lock()
	u, ok := c.users[normalizeEmail(email)]
	c.mu.Unlock()

	if !ok || subtle.ConstantTimeCompare(cryptox.DeriveKey([]byte(password), u.salt), u.key) != 1 {
		return nil, &APIError{Status: http.StatusBadRequest, Message: "Invalid login credentials"}
	}

	s, err := c.issue(u.id, u.email)
	if err != nil {
		return nil, err
	}
	c.signIn(s)
	return s, nil
}

// SignInWithIDToken accepts any JWT-shaped identity token and derives a
// stable account id from its issuer-scoped subject.
func (c *MemoryAuthClient) SignInWithIDToken(ctx context.Context, provider, idToken string) (*models.Session, error) {
	claims, err := auth.ParseClaims(idToken, nil)
	if err != nil {
		return nil, &APIError{Status: http.StatusBadRequest, Message: "Invalid id token"}
	}

	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(provider+":"+claims.Subject)).String()
	s, err := c.issue(id, claims.Email)
	if err != nil {
		return nil, err
	}
	c.signIn(s)
	return s, nil
}

func (c *MemoryAuthClient) SignOut(ctx context.Context) error {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	c.listeners.emit(AuthEvent{Type: EventSignedOut})
	return nil
}

func (c *MemoryAuthClient) Ping(ctx context.Context) error {
	return nil
}
