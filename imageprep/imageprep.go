// Package imageprep straightens and shrinks uploaded page photos before OCR.
package imageprep

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/apex/log"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	jpegQuality = 90

	// defaultPixelBudget caps decoding when no maximum dimension is set.
	defaultPixelBudget = 64 << 20
)

// ErrTooManyPixels is returned for images whose header declares more pixels
// than Prepare is willing to decode.
var ErrTooManyPixels = errors.New("image dimensions exceed the decode budget")

// PixelBudget is the largest width*height Prepare decodes for maxDimension.
func PixelBudget(maxDimension int) int64 {
	if maxDimension <= 0 {
		return defaultPixelBudget
	}
	return 4 * int64(maxDimension) * int64(maxDimension)
}

// Orientation extracts the EXIF orientation tag, defaulting to 1.
func Orientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	v, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return v
}

// Orient applies an EXIF orientation so the page reads upright.
func Orient(img image.Image, orientation int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	// dst maps a source pixel (x, y) to its destination coordinates.
	var dst func(x, y int) (int, int)
	swap := false

	switch orientation {
	case 2: // flip horizontal
		dst = func(x, y int) (int, int) { return w - 1 - x, y }
	case 3: // rotate 180
		dst = func(x, y int) (int, int) { return w - 1 - x, h - 1 - y }
	case 4: // flip vertical
		dst = func(x, y int) (int, int) { return x, h - 1 - y }
	case 5: // transpose
		dst = func(x, y int) (int, int) { return y, x }
		swap = true
	case 6: // rotate 90 clockwise
		dst = func(x, y int) (int, int) { return h - 1 - y, x }
		swap = true
	case 7: // transverse
		dst = func(x, y int) (int, int) { return h - 1 - y, w - 1 - x }
		swap = true
	case 8: // rotate 90 counter-clockwise
		dst = func(x, y int) (int, int) { return y, w - 1 - x }
		swap = true
	default:
		return img
	}

	rect := image.Rect(0, 0, w, h)
	if swap {
		rect = image.Rect(0, 0, h, w)
	}
	out := image.NewRGBA(rect)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := dst(x, y)
			out.Set(dx, dy, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}

// Prepare returns an upright JPEG no larger than maxDimension on either side.
// Upright images already within bounds are returned unchanged, as is anything
// that does not decode as an image; the OCR endpoint decides what to do with
// those. Images declaring more than PixelBudget pixels fail with
// ErrTooManyPixels before any pixel data is decoded.
func Prepare(data []byte, maxDimension int) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		log.Warnf("Upload is not a decodable image, sending as-is: %v", err)
		return data, nil
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > PixelBudget(maxDimension) {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Warnf("Upload is not a decodable image, sending as-is: %v", err)
		return data, nil
	}

	orientation := 1
	if format == "jpeg" {
		orientation = Orientation(data)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	size := fmt.Sprintf("%dx%d", w, h)
	tooLarge := maxDimension > 0 && (w > maxDimension || h > maxDimension)
	if orientation == 1 && !tooLarge {
		return data, nil
	}

	if orientation != 1 {
		img = Orient(img, orientation)
		b = img.Bounds()
		w, h = b.Dx(), b.Dy()
	}

	if tooLarge {
		scale := float64(maxDimension) / float64(w)
		if s := float64(maxDimension) / float64(h); s < scale {
			scale = s
		}
		nw, nh := int(float64(w)*scale), int(float64(h)*scale)
		if nw < 1 {
			nw = 1
		}
		if nh < 1 {
			nh = 1
		}
		scaled := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, b, draw.Over, nil)
		img = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode prepared image: %w", err)
	}

	log.WithFields(log.Fields{
		"format":      format,
		"orientation": orientation,
		"size_in":     size,
		"size_out":    fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()),
		"bytes_in":    len(data),
		"bytes_out":   buf.Len(),
	}).Info("image.prepared")

	return buf.Bytes(), nil
}
