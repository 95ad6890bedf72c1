package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/has-bi/you-posm/internal/imaging"
	"github.com/has-bi/you-posm/internal/storage"
	"github.com/has-bi/you-posm/pkg/logger"
	"github.com/has-bi/you-posm/pkg/util"
)

// ImageKind distinguishes the two photos of a visit.
type ImageKind string

const (
	KindBefore ImageKind = "before"
	KindAfter  ImageKind = "after"
)

// keyNamespace is the top-level folder every photo lands under.
const keyNamespace = "you-posm"

var ErrEmptyImage = errors.New("image payload is empty")

// ImageService runs one photo through the ingestion pipeline and
// returns its public URL.
type ImageService interface {
	Ingest(ctx context.Context, raw []byte, storeName, employeeName string, kind ImageKind) (string, error)
}

type imageService struct {
	store storage.ObjectStore
	now   func() time.Time
}

func NewImageService(store storage.ObjectStore) ImageService {
	return &imageService{store: store, now: time.Now}
}

func (s *imageService) Ingest(ctx context.Context, raw []byte, storeName, employeeName string, kind ImageKind) (string, error) {
	if len(raw) == 0 {
		return "", ErrEmptyImage
	}

	encoded, err := imaging.Process(raw)
	if err != nil {
		return "", err
	}

	// Date and time are captured here, at upload time, so the two
	// photos of one visit may land in different time-of-day subpaths.
	now := s.now()
	key := fmt.Sprintf("%s/%s/%s/%s/%s/%s_%s.jpg",
		keyNamespace,
		util.SanitizeName(storeName),
		util.SanitizeName(employeeName),
		now.Format("2006-01-02"),
		kind,
		now.Format("150405"),
		util.KeySuffix(),
	)

	if err := s.store.Upload(ctx, key, "image/jpeg", encoded); err != nil {
		logger.Error("Image upload failed", err, map[string]interface{}{
			"key":  key,
			"kind": string(kind),
		})
		return "", err
	}

	// The grant is best effort: on buckets where it fails the object
	// is stored and the URL stays valid, access just needs a
	// bucket-policy fix.
	if err := s.store.MakePublic(ctx, key); err != nil {
		logger.Warn("Public-read grant failed, object may be inaccessible until bucket policy allows it", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	url := s.store.PublicURL(key)
	logger.Info("Image stored", map[string]interface{}{
		"key":    key,
		"kind":   string(kind),
		"bucket": s.store.BucketName(),
		"bytes":  len(encoded),
	})
	return url, nil
}
