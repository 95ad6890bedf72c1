package storage

import (
	"context"
	"fmt"
	"sync"
)

// StoredObject is what the fake retained for one Upload call.
type StoredObject struct {
	ContentType string
	Data        []byte
	Public      bool
}

// Fake is an in-memory ObjectStore for tests.
type Fake struct {
	mu      sync.Mutex
	bucket  string
	objects map[string]*StoredObject

	ErrUpload     error
	ErrMakePublic error
}

func NewFake(bucket string) *Fake {
	return &Fake{bucket: bucket, objects: map[string]*StoredObject{}}
}

// Objects returns a copy of the stored objects keyed by storage key.
func (f *Fake) Objects() map[string]StoredObject {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]StoredObject, len(f.objects))
	for k, v := range f.objects {
		out[k] = *v
	}
	return out
}

func (f *Fake) Upload(ctx context.Context, key, contentType string, data []byte) error {
	if f.ErrUpload != nil {
		return f.ErrUpload
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = &StoredObject{
		ContentType: contentType,
		Data:        append([]byte(nil), data...),
	}
	return nil
}

func (f *Fake) MakePublic(ctx context.Context, key string) error {
	if f.ErrMakePublic != nil {
		return f.ErrMakePublic
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[key]
	if !ok {
		return fmt.Errorf("object %s not found", key)
	}
	obj.Public = true
	return nil
}

func (f *Fake) PublicURL(key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", f.bucket, key)
}

func (f *Fake) BucketName() string {
	return f.bucket
}
