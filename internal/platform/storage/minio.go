package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"fileshare_backend/internal/platform/config"
)

// MinioPresigner implements Presigner with minio-go.
type MinioPresigner struct {
	client  *minio.Client
	bucket  string
	timeout time.Duration
}

var _ Presigner = (*MinioPresigner)(nil)

// normaliseEndpoint accepts "minio:9000" or "http(s)://minio:9000" and returns host:port and TLS.
func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("endpoint must not contain a path")
		}
		return u.Host, u.Scheme == "https", nil
	}

	// No scheme: host:port, plain HTTP.
	return raw, false, nil
}

// NewMinio creates a MinioPresigner. Region is set explicitly so presigning
// never needs a bucket-location round trip.
func NewMinio(cfg config.Storage) (*MinioPresigner, error) {
	endpoint, secure, err := normaliseEndpoint(cfg.URL)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinioPresigner{client: client, bucket: cfg.Bucket, timeout: cfg.Timeout}, nil
}

// PresignGet returns a GET URL for key that is valid for ttl.
func (p *MinioPresigner) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := checkTTL(ttl); err != nil {
		return "", err
	}
	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	u, err := p.client.PresignedGetObject(ctx, p.bucket, key, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", key, err)
	}
	return u.String(), nil
}

// PresignPut returns a PUT URL for key bound to contentType. The uploader must send the same Content-Type.
func (p *MinioPresigner) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	if err := checkTTL(ttl); err != nil {
		return "", err
	}
	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	header := http.Header{}
	header.Set("Content-Type", contentType)
	u, err := p.client.PresignHeader(ctx, http.MethodPut, p.bucket, key, ttl, url.Values{}, header)
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", key, err)
	}
	return u.String(), nil
}

// Delete removes the object at key. A missing object is not an error.
func (p *MinioPresigner) Delete(ctx context.Context, key string) error {
	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	err := p.client.RemoveObject(ctx, p.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
