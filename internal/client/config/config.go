package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/theyard/yard/internal/common"
)

const (
	BackendRemote = "remote"
	BackendDemo   = "demo"

	UploadCloudinary = "cloudinary"
	UploadS3         = "s3"
)

// Config holds runtime settings for the yard client.
//
// Backend "demo" runs entirely in process with a seeded account; "remote"
// talks to the hosted auth service and Postgres data store. Secrets left
// empty disable the feature that needs them: without SessionSecret the
// session is never written to disk, without JWTSecret access tokens are
// read but not verified.
type Config struct {
	Backend     string `env:"BACKEND"`
	AuthURL     string `env:"AUTH_URL"`
	AnonKey     string `env:"ANON_KEY"`
	JWTSecret   string `env:"JWT_SECRET"`
	DatabaseDSN string `env:"DATABASE_DSN"`

	UploadBackend       string `env:"UPLOAD_BACKEND"`
	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
	S3Bucket            string `env:"S3_BUCKET"`
	S3Region            string `env:"S3_REGION"`
	S3Endpoint          string `env:"S3_ENDPOINT"`
	S3AccessKey         string `env:"S3_ACCESS_KEY"`
	S3SecretKey         string `env:"S3_SECRET_KEY"`
	S3PublicURL         string `env:"S3_PUBLIC_URL"`

	GoogleWebClientID string `env:"GOOGLE_WEB_CLIENT_ID"`
	PricingURL        string `env:"PRICING_URL"`
	ManageURL         string `env:"MANAGE_URL"`

	SessionSecret  string        `env:"SESSION_SECRET"`
	DataDir        string        `env:"DATA_DIR"`
	LogLevel       string        `env:"LOG_LEVEL"`
	LogFormat      string        `env:"LOG_FORMAT"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// LoadDefaults populates c with defaults that run the offline demo.
func (c *Config) LoadDefaults() {
	c.Backend = BackendDemo
	c.UploadBackend = UploadCloudinary
	c.S3Region = "us-east-1"
	c.GoogleWebClientID = common.GoogleWebClientID
	c.PricingURL = common.PricingURL
	c.ManageURL = common.ManageURL
	c.DataDir = "~/.yard"
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.RequestTimeout = 10 * time.Second
}

// LocalDBPath is the SQLite file holding local client state.
func (c *Config) LocalDBPath() string {
	return filepath.Join(c.DataDir, "yard.db")
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from .env, the environment, JSON (if present) and command-line flags (if
// present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	var errs []error

	switch c.Backend {
	case BackendDemo:
	case BackendRemote:
		if c.AuthURL == "" {
			errs = append(errs, errors.New("auth URL is required for the remote backend"))
		}
		if c.AnonKey == "" {
			errs = append(errs, errors.New("anon key is required for the remote backend"))
		}
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("database DSN is required for the remote backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}

	switch c.UploadBackend {
	case UploadCloudinary, UploadS3:
	default:
		errs = append(errs, fmt.Errorf("unknown upload backend %q", c.UploadBackend))
	}

	return errors.Join(errs...)
}
