package upload

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	Region    string
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	// PublicURL is the base of returned URLs. Defaults to Endpoint.
	PublicURL string
}

// S3Uploader writes documents to an S3-compatible bucket (AWS or MinIO).
type S3Uploader struct {
	cfg    S3Config
	client objectPutter
	now    func() time.Time
}

func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{cfg: cfg, client: client, now: time.Now}, nil
}

// StorageKey places a document under pets/<yyyy>/<m>/<d>/ with a random
// prefix so names never collide.
func StorageKey(now time.Time, name string) string {
	return fmt.Sprintf("pets/%d/%d/%d/%v-%s", now.Year(), now.Month(), now.Day(), uuid.New(), safeName(name))
}

func (u *S3Uploader) objectURL(key string) string {
	base := u.cfg.PublicURL
	if base == "" {
		base = u.cfg.Endpoint
	}
	if base == "" {
		base = fmt.Sprintf("https://s3.%s.amazonaws.com", u.cfg.Region)
	}
	return strings.TrimRight(base, "/") + "/" + u.cfg.Bucket + "/" + key
}

func (u *S3Uploader) Upload(ctx context.Context, doc Document) (string, error) {
	key := StorageKey(u.now(), doc.Name)

	ct := doc.ContentType
	if ct == "" {
		ct = "application/pdf"
	}

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(doc.Data),
		ContentType: aws.String(ct),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload error: %w", err)
	}

	return u.objectURL(key), nil
}
