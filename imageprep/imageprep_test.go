package imageprep

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 0, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPrepare_SmallImageUnchanged(t *testing.T) {
	data := pngBytes(t, 40, 20)

	out, err := Prepare(data, 100)

	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestPrepare_DownscalesLargeImage(t *testing.T) {
	data := pngBytes(t, 400, 200)

	out, err := Prepare(data, 100)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestPrepare_NonImagePassesThrough(t *testing.T) {
	data := []byte("%PDF-1.7 not an image")

	out, err := Prepare(data, 100)

	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestOrient(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	marker := color.RGBA{255, 0, 0, 255}
	src.Set(0, 0, marker)

	testCases := []struct {
		orientation int
		w, h        int
		mx, my      int
	}{
		{1, 3, 2, 0, 0},
		{2, 3, 2, 2, 0},
		{3, 3, 2, 2, 1},
		{4, 3, 2, 0, 1},
		{5, 2, 3, 0, 0},
		{6, 2, 3, 1, 0},
		{7, 2, 3, 1, 2},
		{8, 2, 3, 0, 2},
	}

	for _, tc := range testCases {
		out := Orient(src, tc.orientation)
		b := out.Bounds()
		assert.Equal(t, tc.w, b.Dx(), "orientation %d width", tc.orientation)
		assert.Equal(t, tc.h, b.Dy(), "orientation %d height", tc.orientation)

		r, g, bl, a := out.At(tc.mx, tc.my).RGBA()
		assert.Equal(t, [4]uint32{0xffff, 0, 0, 0xffff}, [4]uint32{r, g, bl, a}, "orientation %d marker", tc.orientation)
	}
}

func TestOrientation_NoExif(t *testing.T) {
	assert.Equal(t, 1, Orientation(pngBytes(t, 2, 2)))
}

// pngHeader returns a PNG signature and IHDR chunk declaring w x h RGB pixels,
// with no image data behind it.
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 2 // truecolor

	chunk := append([]byte("IHDR"), ihdr...)
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestPrepare_RejectsOversizedHeader(t *testing.T) {
	data := pngHeader(30000, 30000)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err, "header must be well formed")
	require.Equal(t, "png", format)
	require.Equal(t, 30000, cfg.Width)

	out, err := Prepare(data, 2048)

	assert.Nil(t, out)
	assert.True(t, errors.Is(err, ErrTooManyPixels), "got %v", err)
}

func TestPixelBudget(t *testing.T) {
	assert.Equal(t, int64(4*2048*2048), PixelBudget(2048))
	assert.Equal(t, int64(defaultPixelBudget), PixelBudget(0))
}
