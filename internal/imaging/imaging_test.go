package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 10 {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestProcessKeepsSmallImages(t *testing.T) {
	res, err := Process(bytes.NewReader(pngBytes(t, 800, 600)))
	assert.NoError(t, err)
	assert.Equal(t, "image/jpeg", res.ContentType)

	w, h := decodeDims(t, res.Data)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestProcessDownscalesWideImage(t *testing.T) {
	res, err := Process(bytes.NewReader(pngBytes(t, 2400, 1200)))
	assert.NoError(t, err)

	w, h := decodeDims(t, res.Data)
	assert.Equal(t, MaxDimension, w)
	assert.Equal(t, 600, h)
}

func TestProcessDownscalesTallImage(t *testing.T) {
	res, err := Process(bytes.NewReader(pngBytes(t, 600, 2400)))
	assert.NoError(t, err)

	w, h := decodeDims(t, res.Data)
	assert.Equal(t, 300, w)
	assert.Equal(t, MaxDimension, h)
}

func TestProcessRejectsNonImage(t *testing.T) {
	_, err := Process(strings.NewReader("this is just text, not an image at all"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image format")
}

func TestProcessRejectsMislabeledBytes(t *testing.T) {
	// PDF magic bytes; MIME sniffing must catch this regardless of any
	// client-supplied content type.
	_, err := Process(bytes.NewReader([]byte("%PDF-1.4 fake document body")))
	assert.Error(t, err)
}
