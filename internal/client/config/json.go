package config

import (
	"encoding/json"
	"os"

	"github.com/theyard/yard/internal/flagx"
	"github.com/theyard/yard/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Only keys
// present in the file are copied, so a partial file overrides only what it
// names.
type JsonConfig struct {
	Backend     *string `json:"backend"`
	AuthURL     *string `json:"auth_url"`
	AnonKey     *string `json:"anon_key"`
	JWTSecret   *string `json:"jwt_secret"`
	DatabaseDSN *string `json:"database_dsn"`

	UploadBackend       *string `json:"upload_backend"`
	CloudinaryCloudName *string `json:"cloudinary_cloud_name"`
	CloudinaryAPIKey    *string `json:"cloudinary_api_key"`
	CloudinaryAPISecret *string `json:"cloudinary_api_secret"`
	S3Bucket            *string `json:"s3_bucket"`
	S3Region            *string `json:"s3_region"`
	S3Endpoint          *string `json:"s3_endpoint"`
	S3AccessKey         *string `json:"s3_access_key"`
	S3SecretKey         *string `json:"s3_secret_key"`
	S3PublicURL         *string `json:"s3_public_url"`

	GoogleWebClientID *string `json:"google_web_client_id"`
	PricingURL        *string `json:"pricing_url"`
	ManageURL         *string `json:"manage_url"`

	SessionSecret  *string         `json:"session_secret"`
	DataDir        *string         `json:"data_dir"`
	LogLevel       *string         `json:"log_level"`
	LogFormat      *string         `json:"log_format"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag it does nothing. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	set(&cfg.Backend, jc.Backend)
	set(&cfg.AuthURL, jc.AuthURL)
	set(&cfg.AnonKey, jc.AnonKey)
	set(&cfg.JWTSecret, jc.JWTSecret)
	set(&cfg.DatabaseDSN, jc.DatabaseDSN)
	set(&cfg.UploadBackend, jc.UploadBackend)
	set(&cfg.CloudinaryCloudName, jc.CloudinaryCloudName)
	set(&cfg.CloudinaryAPIKey, jc.CloudinaryAPIKey)
	set(&cfg.CloudinaryAPISecret, jc.CloudinaryAPISecret)
	set(&cfg.S3Bucket, jc.S3Bucket)
	set(&cfg.S3Region, jc.S3Region)
	set(&cfg.S3Endpoint, jc.S3Endpoint)
	set(&cfg.S3AccessKey, jc.S3AccessKey)
	set(&cfg.S3SecretKey, jc.S3SecretKey)
	set(&cfg.S3PublicURL, jc.S3PublicURL)
	set(&cfg.GoogleWebClientID, jc.GoogleWebClientID)
	set(&cfg.PricingURL, jc.PricingURL)
	set(&cfg.ManageURL, jc.ManageURL)
	set(&cfg.SessionSecret, jc.SessionSecret)
	set(&cfg.DataDir, jc.DataDir)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.LogFormat, jc.LogFormat)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
