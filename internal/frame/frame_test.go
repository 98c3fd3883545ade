package frame

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnSingh1/DoorDetection/internal/common"
)

func TestDimensions(t *testing.T) {
	f := New("plan.png", image.NewRGBA(image.Rect(0, 0, 120, 80)))
	assert.Equal(t, 120, f.Width())
	assert.Equal(t, 80, f.Height())
}

func TestCloneRGBAIsIndependent(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	src.SetRGBA(3, 3, color.RGBA{10, 20, 30, 255})
	f := New("plan.png", src)

	clone := f.CloneRGBA()
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, clone.RGBAAt(3, 3))

	clone.SetRGBA(3, 3, color.RGBA{255, 0, 0, 255})
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, src.RGBAAt(3, 3), "mutating the clone leaves the source alone")
}

func TestCloneRGBANormalizesOrigin(t *testing.T) {
	// subimages carry non-zero bounds; clones always start at (0,0)
	src := image.NewRGBA(image.Rect(5, 7, 25, 27))
	f := New("crop.png", src)

	clone := f.CloneRGBA()
	assert.Equal(t, image.Rect(0, 0, 20, 20), clone.Bounds())
}

func TestEncodePNGRoundTrip(t *testing.T) {
	f := New("plan.png", image.NewRGBA(image.Rect(0, 0, 16, 9)))
	raw, err := f.EncodePNG()
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 9, img.Bounds().Dy())
}

func TestEncodePNGKeepsEncoderError(t *testing.T) {
	// png rejects zero-size images; the encoder's own message must survive
	// into the returned error for diagnosis
	f := New("empty.png", image.NewRGBA(image.Rect(0, 0, 0, 0)))
	_, err := f.EncodePNG()
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrEncoding)
	assert.Contains(t, err.Error(), "invalid image size")
}

func TestDataURLPrefix(t *testing.T) {
	f := New("plan.png", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	url, err := f.DataURL()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
	assert.Greater(t, len(url), len("data:image/png;base64,"))
}
