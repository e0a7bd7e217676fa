package client

import (
	"context"
	"sync"

	"github.com/theyard/yard/internal/client/models"
)

type AuthEventType string

const (
	EventSignedIn       AuthEventType = "SIGNED_IN"
	EventSignedOut      AuthEventType = "SIGNED_OUT"
	EventTokenRefreshed AuthEventType = "TOKEN_REFRESHED"
)

// AuthEvent is delivered to OnAuthStateChange listeners. Session is nil
// after sign-out.
type AuthEvent struct {
	Type    AuthEventType
	Session *models.Session
}

type AuthClient interface {
	// GetSession returns the current session or nil when signed out.
	GetSession(ctx context.Context) (*models.Session, error)
	// OnAuthStateChange registers fn for every later session change. The
	// returned function unregisters it and may be called more than once.
	OnAuthStateChange(fn func(AuthEvent)) (unsubscribe func())
	SignUp(ctx context.Context, email, password string) (*models.Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)
	SignInWithIDToken(ctx context.Context, provider, idToken string) (*models.Session, error)
	SignOut(ctx context.Context) error
	Ping(ctx context.Context) error
}

// SessionStore persists the session between runs. Load returns (nil, nil)
// when nothing is stored.
type SessionStore interface {
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Clear(ctx context.Context) error
}

type listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(AuthEvent)
}

func (l *listeners) add(fn func(AuthEvent)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fns == nil {
		l.fns = make(map[int]func(AuthEvent))
	}
	id := l.next
	l.next++
	l.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.fns, id)
			l.mu.Unlock()
		})
	}
}

func (l *listeners) emit(ev AuthEvent) {
	l.mu.Lock()
	fns := make([]func(AuthEvent), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
