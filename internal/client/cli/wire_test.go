package cli

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theyard/yard/internal/client/client"
	"github.com/theyard/yard/internal/client/config"
	"github.com/theyard/yard/internal/client/models"
	"github.com/theyard/yard/internal/client/upload"
	"github.com/theyard/yard/internal/logging"
	"github.com/theyard/yard/internal/store"
)

func remoteConfig(t *testing.T) *config.Config {
	t.Helper()
	var cfg config.Config
	cfg.LoadDefaults()
	cfg.Backend = config.BackendRemote
	cfg.AuthURL = "https://auth.example"
	cfg.AnonKey = "anon"
	cfg.DatabaseDSN = "postgres://db"
	cfg.DataDir = t.TempDir()
	return &cfg
}

func stubPostgres(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	orig := openPostgres
	openPostgres = func(ctx context.Context, dsn string) (*sql.DB, error) {
		assert.Equal(t, "postgres://db", dsn)
		return db, nil
	}
	t.Cleanup(func() { openPostgres = orig })
	return mock
}

func TestNewBackend_Demo(t *testing.T) {
	var cfg config.Config
	cfg.LoadDefaults()

	b, err := NewBackend(context.Background(), &cfg, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &client.MemoryAuthClient{}, b.Auth)
	assert.IsType(t, &upload.MemoryUploader{}, b.Uploader)

	rows, err := b.Store.Select(context.Background(), store.Query{Table: "Subscription"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, DemoUserID, rows[0].String("userId"))
	assert.Equal(t, models.StatusActive, rows[0].String("status"))
	assert.True(t, rows[0].Time("currentPeriodEnd").After(time.Now()))

	require.NoError(t, b.Close())
}

func TestNewBackend_InvalidConfig(t *testing.T) {
	var cfg config.Config
	cfg.LoadDefaults()
	cfg.Backend = config.BackendRemote

	_, err := NewBackend(context.Background(), &cfg, logging.Nop())
	require.ErrorContains(t, err, "auth URL is required")
}

func TestNewBackend_Remote(t *testing.T) {
	mock := stubPostgres(t)
	cfg := remoteConfig(t)

	b, err := NewBackend(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &client.HTTPAuthClient{}, b.Auth)
	assert.IsType(t, &store.PostgresStore{}, b.Store)
	assert.IsType(t, &upload.CloudinaryUploader{}, b.Uploader)

	mock.ExpectClose()
	require.NoError(t, b.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewBackend_RemoteWithSessionPersistenceAndS3(t *testing.T) {
	mock := stubPostgres(t)
	cfg := remoteConfig(t)
	cfg.SessionSecret = "local-secret"
	cfg.UploadBackend = config.UploadS3
	cfg.S3Bucket = "certs"
	cfg.S3Endpoint = "http://127.0.0.1:9000"

	var openedPath string
	orig := openLocalDB
	openLocalDB = func(ctx context.Context, dsn string) (*sql.DB, error) {
		openedPath = dsn
		return orig(ctx, dsn)
	}
	t.Cleanup(func() { openLocalDB = orig })

	b, err := NewBackend(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	assert.Equal(t, cfg.LocalDBPath(), openedPath)
	assert.IsType(t, &upload.S3Uploader{}, b.Uploader)

	s, err := b.Auth.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s)

	mock.ExpectClose()
	require.NoError(t, b.Close())
}

func TestNewBackend_DataStoreError(t *testing.T) {
	orig := openPostgres
	openPostgres = func(ctx context.Context, dsn string) (*sql.DB, error) {
		return nil, errors.New("connection refused")
	}
	t.Cleanup(func() { openPostgres = orig })

	_, err := NewBackend(context.Background(), remoteConfig(t), logging.Nop())
	assert.EqualError(t, err, "data store: connection refused")
}

func TestBackend_CloseJoinsErrors(t *testing.T) {
	var order []int
	b := &Backend{closers: []func() error{
		func() error { order = append(order, 1); return nil },
		func() error { order = append(order, 2); return errors.New("busy") },
	}}

	assert.EqualError(t, b.Close(), "busy")
	assert.Equal(t, []int{2, 1}, order)
	require.NoError(t, b.Close())
}
