// Package services holds the Yard client's use cases. Each service works on
// an explicit user id; the CLI resolves it from the session provider.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/theyard/yard/internal/client/client"
	"github.com/theyard/yard/internal/client/federated"
	"github.com/theyard/yard/internal/client/models"
	"github.com/theyard/yard/internal/common"
	"github.com/theyard/yard/internal/logging"
	"github.com/theyard/yard/internal/store"
)

// AuthService covers the identity flows.
//
// Contract:
//   - SignUp: local presence check, then remote sign-up. No profile row.
//   - SignIn: remote password sign-in followed by EnsureProfile.
//   - SignInWithProvider: federated token exchange followed by EnsureProfile.
//     A call made while another is running, or a cancelled provider prompt,
//     returns (nil, nil).
//   - EnsureProfile: insert-if-absent of the User row.
//
// Remote errors are returned unchanged and never retried.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*models.Identity, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignInWithProvider(ctx context.Context) (*models.Session, error)
	EnsureProfile(ctx context.Context, id models.Identity) error
	Ping(ctx context.Context) error
}

type authService struct {
	auth     client.AuthClient
	store    store.Store
	tokens   federated.TokenSource
	provider string
	log      logging.Logger
	now      func() time.Time

	federatedInFlight atomic.Bool
}

func NewAuthService(auth client.AuthClient, st store.Store, tokens federated.TokenSource, provider string, log logging.Logger) AuthService {
	return &authService{auth: auth, store: st, tokens: tokens, provider: provider, log: log, now: time.Now}
}

func credentials(email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}
	return email, nil
}

func (s *authService) SignUp(ctx context.Context, email, password string) (*models.Identity, error) {
	email, err := credentials(email, password)
	if err != nil {
		return nil, err
	}

	id, err := s.auth.SignUp(ctx, email, password)
	if err != nil {
		s.log.Error(ctx, "sign up failed", "email", email, "error", err)
		return nil, err
	}
	s.log.Info(ctx, "signed up", "user_id", id.ID)
	return id, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	email, err := credentials(email, password)
	if err != nil {
		return nil, err
	}

	sess, err := s.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		s.log.Error(ctx, "sign in failed", "email", email, "error", err)
		return nil, err
	}

	if err := s.EnsureProfile(ctx, sess.User); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "signed in", "user_id", sess.User.ID)
	return sess, nil
}

func (s *authService) SignInWithProvider(ctx context.Context) (*models.Session, error) {
	if !s.federatedInFlight.CompareAndSwap(false, true) {
		s.log.Debug(ctx, "federated sign-in already running")
		return nil, nil
	}
	defer s.federatedInFlight.Store(false)

	token, err := s.tokens.IDToken(ctx)
	if errors.Is(err, federated.ErrCancelled) {
		s.log.Info(ctx, "federated sign-in cancelled")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sess, err := s.auth.SignInWithIDToken(ctx, s.provider, token)
	if err != nil {
		s.log.Error(ctx, "federated sign in failed", "provider", s.provider, "error", err)
		return nil, err
	}

	if err := s.EnsureProfile(ctx, sess.User); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "signed in", "user_id", sess.User.ID, "provider", s.provider)
	return sess, nil
}

func (s *authService) EnsureProfile(ctx context.Context, id models.Identity) error {
	err := s.store.Upsert(ctx, tableUser, store.Row{
		"id":        id.ID,
		"email":     id.Email,
		"createdAt": s.now().UTC(),
	}, store.Conflict{Columns: []string{"id"}, IgnoreDuplicates: true})
	if err != nil {
		s.log.Error(ctx, "profile upsert failed", "user_id", id.ID, "error", err)
		return fmt.Errorf("profile setup failed: %w", err)
	}
	return nil
}

func (s *authService) Ping(ctx context.Context) error {
	return s.auth.Ping(ctx)
}
