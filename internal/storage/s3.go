package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/ismywebok/webaudit/internal/config"
)

type S3Storage struct {
	uploader *s3manager.Uploader
	bucket   string
}

func NewS3Storage(cfg *config.Config) *S3Storage {
	awsConfig := &aws.Config{
		Region:           aws.String(cfg.ArchiveRegion),
		Credentials:      credentials.NewStaticCredentials(cfg.ArchiveAccessKey, cfg.ArchiveSecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	}

	if cfg.ArchiveEndpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.ArchiveEndpoint)
	}

	sess := session.Must(session.NewSession(awsConfig))

	return &S3Storage{
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.ArchiveBucket,
	}
}

func (s *S3Storage) Put(ctx context.Context, key string, content []byte, contentType string) error {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 upload failed: %w", err)
	}
	return nil
}
