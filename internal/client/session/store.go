package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/theyard/yard/internal/client/models"
	"github.com/theyard/yard/internal/client/repositories/metadata"
	"github.com/theyard/yard/internal/common"
	"github.com/theyard/yard/internal/cryptox"
)

const (
	sessionKey = "session"
	saltKey    = "session_salt"
)

// EncryptedStore keeps the session in the local state table, sealed with a
// key derived from a user secret. The salt is created on first use and kept
// next to the blob.
type EncryptedStore struct {
	repo   metadata.Repository
	secret []byte

	mu  sync.Mutex
	key []byte
}

func NewEncryptedStore(repo metadata.Repository, secret []byte) *EncryptedStore {
	return &EncryptedStore{repo: repo, secret: secret}
}

func (s *EncryptedStore) encryptionKey(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key != nil {
		return s.key, nil
	}

	salt, err := s.repo.Get(ctx, saltKey)
	if err != nil {
		return nil, err
	}
	if salt == nil {
		salt = common.GenerateRandByteArray(cryptox.SaltSize)
		if err := s.repo.Set(ctx, saltKey, salt); err != nil {
			return nil, err
		}
	}

	s.key = cryptox.DeriveKey(s.secret, salt)
	return s.key, nil
}

func (s *EncryptedStore) Load(ctx context.Context) (*models.Session, error) {
	blob, err := s.repo.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if blob == nil {
		return nil, nil
	}

	key, err := s.encryptionKey(ctx)
	if err != nil {
		return nil, err
	}

	var sess models.Session
	if err := cryptox.Open(blob, key, &sess); err != nil {
		return nil, fmt.Errorf("session decrypt error: %w", err)
	}
	return &sess, nil
}

func (s *EncryptedStore) Save(ctx context.Context, sess *models.Session) error {
	key, err := s.encryptionKey(ctx)
	if err != nil {
		return err
	}

	blob, err := cryptox.Seal(sess, key)
	if err != nil {
		return fmt.Errorf("session encrypt error: %w", err)
	}
	return s.repo.Set(ctx, sessionKey, blob)
}

func (s *EncryptedStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, sessionKey)
}
