package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theyard/yard/internal/client/client"
	"github.com/theyard/yard/internal/client/config"
	"github.com/theyard/yard/internal/client/localdb"
	"github.com/theyard/yard/internal/client/models"
	"github.com/theyard/yard/internal/client/repositories/metadata"
	"github.com/theyard/yard/internal/client/session"
	"github.com/theyard/yard/internal/client/upload"
	"github.com/theyard/yard/internal/filex"
	"github.com/theyard/yard/internal/logging"
	"github.com/theyard/yard/internal/store"
)

// Demo account available with the demo backend.
const (
	DemoUserID   = "00000000-0000-4000-8000-00000000d06e"
	DemoEmail    = "demo@theyard.dev"
	DemoPassword = "woofwoof"
)

// Backend is the set of remote services a session talks to.
type Backend struct {
	Auth     client.AuthClient
	Store    store.Store
	Uploader upload.Uploader

	closers []func() error
}

// Close releases database handles in reverse order of opening.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	b.closers = nil
	return errors.Join(errs...)
}

// Seams for tests.
var (
	openPostgres = store.OpenPostgres
	openLocalDB  = localdb.Open
)

// NewBackend builds the backend selected by cfg.Backend.
func NewBackend(ctx context.Context, cfg *config.Config, log logging.Logger) (*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Backend == config.BackendDemo {
		return newDemoBackend(time.Now()), nil
	}
	return newRemoteBackend(ctx, cfg, log)
}

// newDemoBackend runs everything in process: one account with an active
// two-pet membership and a published v1 of the terms.
func newDemoBackend(now time.Time) *Backend {
	st := store.NewMemoryStore()
	st.Seed("Terms", store.Row{
		"version":    "v1",
		"text":       "Dogs must be leashed at the gate. Owners pick up after their dogs. Vaccinations must be current.",
		"activeFrom": now.AddDate(0, -1, 0).UTC(),
	})
	st.Seed("Subscription", store.Row{
		"id":               "sub-demo",
		"userId":           DemoUserID,
		"priceId":          "price_1Q6aumGpnjr9yNMYtwh7nf8y",
		"status":           models.StatusActive,
		"currentPeriodEnd": now.AddDate(0, 1, 0).UTC(),
		"allowedPets":      2,
	})

	return &Backend{
		Auth:     client.NewMemoryAuthClient(nil, client.WithUserID(DemoUserID, DemoEmail, DemoPassword)),
		Store:    st,
		Uploader: upload.NewMemoryUploader(),
	}
}

func newRemoteBackend(ctx context.Context, cfg *config.Config, log logging.Logger) (*Backend, error) {
	b := &Backend{}

	opts := []client.Option{}
	if cfg.JWTSecret != "" {
		opts = append(opts, client.WithJWTSecret([]byte(cfg.JWTSecret)))
	}
	if cfg.SessionSecret != "" {
		if _, err := filex.EnsureDir(cfg.DataDir); err != nil {
			return nil, err
		}
		path, err := filex.ExpandHome(cfg.LocalDBPath())
		if err != nil {
			return nil, err
		}
		db, err := openLocalDB(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("local state: %w", err)
		}
		b.closers = append(b.closers, db.Close)
		repo := metadata.NewSQLiteRepository(db)
		opts = append(opts, client.WithSessionStore(session.NewEncryptedStore(repo, []byte(cfg.SessionSecret))))
		log.Debug(ctx, "session persistence enabled", "path", path)
	}
	b.Auth = client.NewHTTPAuthClient(cfg.AuthURL, cfg.AnonKey, cfg.RequestTimeout, opts...)

	db, err := openPostgres(ctx, cfg.DatabaseDSN)
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("data store: %w", err)
	}
	b.closers = append(b.closers, db.Close)
	b.Store = store.NewPostgresStore(db)

	switch cfg.UploadBackend {
	case config.UploadS3:
		u, err := upload.NewS3Uploader(ctx, upload.S3Config{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("object storage: %w", err)
		}
		b.Uploader = u
	default:
		b.Uploader = upload.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.RequestTimeout)
	}

	return b, nil
}
