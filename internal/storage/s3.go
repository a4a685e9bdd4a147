package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
)

// Archive stores generated documents.
type Archive interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

type S3Archive struct {
	client *s3.Client
	bucket string
}

func NewS3Archive(cfg *config.Config) (*S3Archive, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3 bucket name is required")
	}

	region := cfg.S3Region
	if region == "" {
		region = "us-east-1"
	}

	opts := s3.Options{
		Region: region,
	}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")
	}
	// S3-compatible endpoints (MinIO) need path-style addressing.
	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
		opts.UsePathStyle = true
	}

	return &S3Archive{
		client: s3.New(opts),
		bucket: cfg.S3Bucket,
	}, nil
}

func (a *S3Archive) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(strings.TrimPrefix(key, "/")),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3: put %s: %w", key, err)
	}
	return nil
}

// StatementKey is the object key of a settlement statement.
func StatementKey(settlementID uint, professionalID uint) string {
	return fmt.Sprintf("statements/professional-%d/settlement-%d.pdf", professionalID, settlementID)
}
