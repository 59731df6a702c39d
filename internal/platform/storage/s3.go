package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"fileshare_backend/internal/platform/config"
)

// S3Presigner implements Presigner with aws-sdk-go-v2. S3_URL points it at any
// S3-compatible endpoint (R2, MinIO, LocalStack).
type S3Presigner struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	timeout time.Duration
}

var _ Presigner = (*S3Presigner)(nil)

// NewS3 creates an S3Presigner from static credentials. It does not contact the endpoint.
func NewS3(ctx context.Context, cfg config.Storage, optFns ...func(*s3.Options)) (*S3Presigner, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	opts := append([]func(*s3.Options){func(o *s3.Options) {
		if cfg.URL != "" {
			o.BaseEndpoint = aws.String(cfg.URL)
		}
		o.UsePathStyle = cfg.PathStyleBuckets
	}}, optFns...)
	client := s3.NewFromConfig(awsCfg, opts...)

	return &S3Presigner{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		timeout: cfg.Timeout,
	}, nil
}

// PresignGet returns a GET URL for key that is valid for ttl.
func (p *S3Presigner) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := checkTTL(ttl); err != nil {
		return "", err
	}
	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	req, err := p.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", key, err)
	}
	return req.URL, nil
}

// PresignPut returns a PUT URL for key bound to contentType. The uploader must send the same Content-Type.
func (p *S3Presigner) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	if err := checkTTL(ttl); err != nil {
		return "", err
	}
	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	req, err := p.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", key, err)
	}
	return req.URL, nil
}

// Delete removes the object at key. A missing object is not an error.
func (p *S3Presigner) Delete(ctx context.Context, key string) error {
	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isS3NotFound(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
