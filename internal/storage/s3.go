package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/spec-kit/contacts-service/internal/config"
)

// AvatarStore uploads avatar images and returns their public URL.
type AvatarStore interface {
	Upload(ctx context.Context, data []byte, contentType, identifier string) (string, error)
}

type s3AvatarStore struct {
	cfg config.StorageConfig
}

// NewS3AvatarStore builds an S3-compatible store. A custom endpoint makes it
// work against MinIO as well as AWS.
func NewS3AvatarStore(cfg config.StorageConfig) AvatarStore {
	return &s3AvatarStore{cfg: cfg}
}

func (s *s3AvatarStore) client(ctx context.Context) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(s.cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.AccessKey,
			s.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if s.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Upload stores the bytes under avatars/<identifier>/<uuid> and returns the
// object's public URL.
func (s *s3AvatarStore) Upload(ctx context.Context, data []byte, contentType, identifier string) (string, error) {
	client, err := s.client(ctx)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("avatars/%s/%s", identifier, uuid.NewString())
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	base := s.cfg.PublicURL
	if base == "" {
		if s.cfg.Endpoint != "" {
			base = strings.TrimSuffix(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.cfg.Bucket, s.cfg.Region)
		}
	}
	return strings.TrimSuffix(base, "/") + "/" + key, nil
}
