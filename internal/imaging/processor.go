package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/rwcarlsen/goexif/exif"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// MaxDimension is the largest side an uploaded photo keeps. Larger
// inputs are scaled down preserving aspect ratio; smaller inputs are
// never upscaled.
const MaxDimension = 1920

// JPEGQuality is the fixed encode quality for stored photos.
const JPEGQuality = 85

var ErrUnsupportedFormat = errors.New("photo must be png, jpeg, or webp")

// Process turns a raw upload into the canonical stored form: EXIF
// orientation applied and metadata dropped, alpha flattened onto
// white, downscaled to at most MaxDimension on the larger side, and
// encoded as JPEG.
func Process(raw []byte) ([]byte, error) {
	mime := http.DetectContentType(raw)
	switch mime {
	case "image/png", "image/jpeg", "image/webp":
	default:
		return nil, ErrUnsupportedFormat
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		if decoded, decodeErr := webp.Decode(bytes.NewReader(raw)); decodeErr == nil {
			img = decoded
		} else {
			return nil, fmt.Errorf("unable to decode photo: %w", err)
		}
	}

	img = applyOrientation(img, readOrientation(raw))
	rgb := flatten(img)
	rgb = downscale(rgb)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, rgb, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("unable to encode photo: %w", err)
	}
	return out.Bytes(), nil
}

// readOrientation extracts the EXIF orientation tag; anything without
// usable EXIF (PNGs, stripped JPEGs) counts as already upright.
func readOrientation(raw []byte) int {
	meta, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return 1
	}
	tag, err := meta.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil || orientation < 1 || orientation > 8 {
		return 1
	}
	return orientation
}

// applyOrientation rewrites pixel data so the image displays upright
// without its EXIF tag. Cases follow the TIFF orientation values.
func applyOrientation(img image.Image, orientation int) image.Image {
	if orientation <= 1 {
		return img
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	swapped := orientation >= 5
	dw, dh := w, h
	if swapped {
		dw, dh = h, w
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var dx, dy int
			switch orientation {
			case 2: // mirrored horizontally
				dx, dy = w-1-x, y
			case 3: // rotated 180
				dx, dy = w-1-x, h-1-y
			case 4: // mirrored vertically
				dx, dy = x, h-1-y
			case 5: // mirrored then rotated 270 CW
				dx, dy = y, x
			case 6: // rotated 90 CW
				dx, dy = h-1-y, x
			case 7: // mirrored then rotated 90 CW
				dx, dy = h-1-y, w-1-x
			case 8: // rotated 270 CW
				dx, dy = y, w-1-x
			}
			dst.Set(dx, dy, img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return dst
}

// flatten composites the image over an opaque white background,
// removing any alpha or palette channel before JPEG encoding.
func flatten(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	return dst
}

// downscale caps the larger dimension at MaxDimension, preserving
// aspect ratio.
func downscale(img *image.RGBA) *image.RGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w <= MaxDimension && h <= MaxDimension {
		return img
	}

	var tw, th int
	if w >= h {
		tw = MaxDimension
		th = h * MaxDimension / w
	} else {
		th = MaxDimension
		tw = w * MaxDimension / h
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	resized := image.NewRGBA(image.Rect(0, 0, tw, th))
	xdraw.CatmullRom.Scale(resized, resized.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return resized
}
