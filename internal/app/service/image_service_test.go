package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/has-bi/you-posm/internal/storage"
)

func testPhoto(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 180, G: 90, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestImageService_Ingest_KeyStructure(t *testing.T) {
	fakeStore := storage.NewFake("posm-test")
	svc := &imageService{
		store: fakeStore,
		now:   fixedClock(time.Date(2024, 5, 1, 14, 30, 5, 0, time.UTC)),
	}

	url, err := svc.Ingest(context.Background(), testPhoto(t, 120, 80), "Acme #1 (East)", "Jane Doe", KindBefore)
	require.NoError(t, err)

	objects := fakeStore.Objects()
	require.Len(t, objects, 1)

	var key string
	for k := range objects {
		key = k
	}
	assert.True(t, strings.HasPrefix(key, "you-posm/Acme_1_East/Jane_Doe/2024-05-01/before/143005_"), key)
	assert.True(t, strings.HasSuffix(key, ".jpg"), key)
	assert.Equal(t, "image/jpeg", objects[key].ContentType)
	assert.True(t, objects[key].Public)
	assert.Equal(t, "https://storage.googleapis.com/posm-test/"+key, url)
}

func TestImageService_Ingest_GrantFailureStillReturnsURL(t *testing.T) {
	fakeStore := storage.NewFake("posm-test")
	fakeStore.ErrMakePublic = assert.AnError
	svc := NewImageService(fakeStore)

	url, err := svc.Ingest(context.Background(), testPhoto(t, 64, 64), "New Mart", "Jane Doe", KindAfter)
	require.NoError(t, err)
	assert.NotEmpty(t, url)
	assert.Len(t, fakeStore.Objects(), 1)
}

func TestImageService_Ingest_UploadFailure(t *testing.T) {
	fakeStore := storage.NewFake("posm-test")
	fakeStore.ErrUpload = assert.AnError
	svc := NewImageService(fakeStore)

	url, err := svc.Ingest(context.Background(), testPhoto(t, 64, 64), "New Mart", "Jane Doe", KindBefore)
	assert.Error(t, err)
	assert.Empty(t, url)
}

func TestImageService_Ingest_EmptyPayload(t *testing.T) {
	svc := NewImageService(storage.NewFake("posm-test"))

	_, err := svc.Ingest(context.Background(), nil, "New Mart", "Jane Doe", KindBefore)
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestImageService_Ingest_UndecodablePayload(t *testing.T) {
	fakeStore := storage.NewFake("posm-test")
	svc := NewImageService(fakeStore)

	_, err := svc.Ingest(context.Background(), []byte("not an image at all, just filler text"), "New Mart", "Jane Doe", KindBefore)
	assert.Error(t, err)
	assert.Empty(t, fakeStore.Objects())
}
