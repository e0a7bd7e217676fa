// Package session holds the process-wide authenticated identity.
//
// A single Provider is built at start-up and handed to every command. It
// mirrors the auth client's session, reports a loading flag until the first
// answer arrives and fans session changes out to observers.
package session

import (
	"context"
	"sync"

	"github.com/theyard/yard/internal/client/client"
	"github.com/theyard/yard/internal/client/models"
	"github.com/theyard/yard/internal/common"
	"github.com/theyard/yard/internal/logging"
)

type Provider struct {
	auth client.AuthClient
	log  logging.Logger

	mu        sync.RWMutex
	session   *models.Session
	loading   bool
	nextID    int
	observers map[int]func(*models.Session)

	stopOnce    sync.Once
	unsubscribe func()
}

func NewProvider(auth client.AuthClient, log logging.Logger) *Provider {
	return &Provider{
		auth:      auth,
		log:       log,
		loading:   true,
		observers: make(map[int]func(*models.Session)),
	}
}

// Start subscribes to auth changes and then asks for the existing session.
// Subscribing first means a change racing with the initial fetch is not lost.
func (p *Provider) Start(ctx context.Context) error {
	unsubscribe := p.auth.OnAuthStateChange(func(ev client.AuthEvent) {
		p.log.Info(ctx, "auth state changed", "event", string(ev.Type))
		p.set(ev.Session)
	})
	p.mu.Lock()
	p.unsubscribe = unsubscribe
	p.mu.Unlock()

	s, err := p.auth.GetSession(ctx)
	if err != nil {
		p.log.Error(ctx, "session load failed", "error", err)
		p.set(nil)
		return err
	}
	p.set(s)
	return nil
}

// Close stops listening to the auth client. Safe to call more than once.
func (p *Provider) Close() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		unsubscribe := p.unsubscribe
		p.mu.Unlock()
		if unsubscribe != nil {
			unsubscribe()
		}
	})
}

func (p *Provider) set(s *models.Session) {
	p.mu.Lock()
	p.session = s
	p.loading = false
	fns := make([]func(*models.Session), 0, len(p.observers))
	for _, fn := range p.observers {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// Current returns the session and whether one exists.
func (p *Provider) Current() (*models.Session, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.session, p.session != nil
}

func (p *Provider) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loading
}

// Identity is the gate for identity-dependent work.
func (p *Provider) Identity() (models.Identity, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	switch {
	case p.loading:
		return models.Identity{}, common.ErrSessionLoading
	case p.session == nil:
		return models.Identity{}, common.ErrNotSignedIn
	default:
		return p.session.User, nil
	}
}

// Subscribe calls fn on every later session change, nil meaning signed out.
func (p *Provider) Subscribe(fn func(*models.Session)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.observers[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.observers, id)
			p.mu.Unlock()
		})
	}
}

// SignOut ends the session. Observers learn about it through the auth
// client's change notification.
func (p *Provider) SignOut(ctx context.Context) error {
	if err := p.auth.SignOut(ctx); err != nil {
		p.log.Error(ctx, "sign out failed", "error", err)
		return err
	}
	return nil
}
