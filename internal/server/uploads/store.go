// Package uploads stores registration file uploads (resumes, logos, photos)
// in S3-compatible object storage and enforces the per-purpose accept
// policy.
package uploads

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	sc "github.com/avolkovs/talentdesk/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store is the file-storage collaborator: Put validates against the accept
// policy, writes the blob, and returns a stable reference key; Remove is
// used by the provisioning rollback path.
type Store interface {
	Put(ctx context.Context, purpose, filename string, size int64, r io.Reader) (string, error)
	Remove(ctx context.Context, key string) error
}

// Seams for testing the AWS client wiring.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Store implements Store over an S3-compatible backend (MinIO in
// development).
type S3Store struct {
	config *sc.Config
}

func NewS3Store(cfg *sc.Config) *S3Store {
	return &S3Store{config: cfg}
}

func (s *S3Store) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// objectKey builds a date-partitioned key with a random name so uploads
// never collide regardless of the original filename.
func objectKey(purpose, filename string) string {
	d := time.Now()
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("uploads/%s/%d/%02d/%02d/%s%s", purpose, d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

func (s *S3Store) Put(ctx context.Context, purpose, filename string, size int64, r io.Reader) (string, error) {
	if err := CheckPolicy(purpose, filename, size); err != nil {
		return "", err
	}

	client, err := s.client(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := objectKey(purpose, filename)

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &bucket,
		Key:           &key,
		Body:          r,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("store %s: %w", purpose, err)
	}

	return key, nil
}

func (s *S3Store) Remove(ctx context.Context, key string) error {
	client, err := s.client(ctx)
	if err != nil {
		return err
	}

	bucket := s.config.S3Bucket
	_, err = client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
