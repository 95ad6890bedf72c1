package storage

import "context"

// ObjectStore is the object storage surface the image pipeline needs.
// Two backends exist: GCS (default) and S3.
type ObjectStore interface {
	// Upload writes an object with an explicit content type.
	Upload(ctx context.Context, key, contentType string, data []byte) error
	// MakePublic attempts to make an object world readable. Failures
	// are reported but must not be treated as upload failures: the
	// object stays stored and the URL stays valid, it may just need a
	// bucket-level policy fix.
	MakePublic(ctx context.Context, key string) error
	// PublicURL returns the deterministic public URL for a key. It is
	// derived from bucket and key, never signed or expiring.
	PublicURL(key string) string
	// BucketName identifies the backing bucket, for health reporting.
	BucketName() string
}
