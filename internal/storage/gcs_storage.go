package storage

import (
	"context"
	"fmt"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/has-bi/you-posm/pkg/logger"
)

// GCSStorage stores objects in a Google Cloud Storage bucket.
type GCSStorage struct {
	client *gcs.Client
	bucket string
}

// NewGCSStorage builds a GCS-backed store from raw service account
// JSON.
func NewGCSStorage(ctx context.Context, credentials []byte, bucket string) (*GCSStorage, error) {
	client, err := gcs.NewClient(ctx, option.WithCredentialsJSON(credentials))
	if err != nil {
		return nil, fmt.Errorf("failed to build storage client: %w", err)
	}
	return &GCSStorage{client: client, bucket: bucket}, nil
}

// Probe checks that the bucket exists and is reachable.
func (s *GCSStorage) Probe(ctx context.Context) error {
	_, err := s.client.Bucket(s.bucket).Attrs(ctx)
	return err
}

func (s *GCSStorage) Upload(ctx context.Context, key, contentType string, data []byte) error {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize object %s: %w", key, err)
	}
	return nil
}

// MakePublic grants AllUsers read on the object. Buckets with uniform
// bucket-level access reject per-object ACLs, so a predefined-ACL
// update is tried as the second mechanism before giving up; on such
// buckets public visibility comes from bucket IAM and the object is
// already readable through the same URL.
func (s *GCSStorage) MakePublic(ctx context.Context, key string) error {
	obj := s.client.Bucket(s.bucket).Object(key)

	aclErr := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader)
	if aclErr == nil {
		return nil
	}

	if _, err := obj.Update(ctx, gcs.ObjectAttrsToUpdate{PredefinedACL: "publicRead"}); err != nil {
		logger.Warn("Public-read grant failed on both mechanisms", map[string]interface{}{
			"key":          key,
			"acl_error":    aclErr.Error(),
			"update_error": err.Error(),
		})
		return fmt.Errorf("failed to grant public read on %s: %w", key, err)
	}
	return nil
}

func (s *GCSStorage) PublicURL(key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key)
}

func (s *GCSStorage) BucketName() string {
	return s.bucket
}

// WriteProbeObject uploads and deletes a tiny object, used by the
// doctor tool to verify write permissions.
func (s *GCSStorage) WriteProbeObject(ctx context.Context) error {
	const key = "test-connection.txt"
	obj := s.client.Bucket(s.bucket).Object(key)

	w := obj.NewWriter(ctx)
	w.ContentType = "text/plain"
	if _, err := w.Write([]byte("test")); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return obj.Delete(ctx)
}
