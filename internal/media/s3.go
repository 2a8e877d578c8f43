package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var _ Store = (*S3Store)(nil)

// S3Store implements Store against any S3-compatible endpoint
// (AWS S3, MinIO, DigitalOcean Spaces, ...).
type S3Store struct {
	client    *minio.Client
	bucket    string
	publicURL string // base URL objects are served from, no trailing slash
}

// NewS3Store connects to the given endpoint. publicURL is the base the
// bucket is publicly reachable under; object URLs are publicURL/key.
func NewS3Store(endpoint, accessKey, secretKey, bucket, publicURL string, useSSL bool) (*S3Store, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("media: creating object-storage client: %w", err)
	}

	return &S3Store{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("media: uploading %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

func (s *S3Store) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("media: removing %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) KeyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, s.publicURL+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}
