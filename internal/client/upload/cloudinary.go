package upload

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/theyard/yard/internal/netx"
)

const cloudinaryAPI = "https://api.cloudinary.com/v1_1"

// Sign computes the upload signature for a request made at timestamp (unix
// seconds): hex(SHA1("timestamp=<ts>" + secret)).
func Sign(timestamp int64, secret string) string {
	sum := sha1.Sum([]byte("timestamp=" + strconv.FormatInt(timestamp, 10) + secret))
	return hex.EncodeToString(sum[:])
}

// CloudinaryUploader performs signed uploads to the auto/upload endpoint of
// a Cloudinary cloud.
type CloudinaryUploader struct {
	endpoint  string
	apiKey    string
	apiSecret string
	http      *http.Client
	now       func() time.Time
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret string, timeout time.Duration) *CloudinaryUploader {
	return &CloudinaryUploader{
		endpoint:  fmt.Sprintf("%s/%s/auto/upload", cloudinaryAPI, cloudName),
		apiKey:    apiKey,
		apiSecret: apiSecret,
		http:      &http.Client{Timeout: timeout},
		now:       time.Now,
	}
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (u *CloudinaryUploader) Upload(ctx context.Context, doc Document) (string, error) {
	ts := u.now().Unix()
	fields := map[string]string{
		"api_key":   u.apiKey,
		"timestamp": strconv.FormatInt(ts, 10),
		"signature": Sign(ts, u.apiSecret),
	}

	ct := doc.ContentType
	if ct == "" {
		ct = "application/pdf"
	}
	resp, err := netx.PostMultipart(ctx, u.http, u.endpoint, fields, netx.FilePart{
		Field:       "file",
		FileName:    safeName(doc.Name),
		ContentType: ct,
		Data:        doc.Data,
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	var body cloudinaryResponse
	_ = json.Unmarshal(resp.Body, &body)

	if body.SecureURL != "" {
		return body.SecureURL, nil
	}

	msg := "Upload failed"
	if body.Error != nil && body.Error.Message != "" {
		msg = body.Error.Message
	}
	return "", &ProviderError{Provider: "cloudinary", Status: resp.StatusCode, Message: msg}
}
