package frame

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/draw"
	"image/png"

	"github.com/AnSingh1/DoorDetection/internal/common"
)

// Frame is one decoded raster page: pixel data plus a derived filename.
// A Frame is owned by the pipeline run that created it and is never shared
// across requests.
type Frame struct {
	Name  string
	Image image.Image
}

func New(name string, img image.Image) Frame {
	return Frame{Name: name, Image: img}
}

func (f Frame) Width() int {
	return f.Image.Bounds().Dx()
}

func (f Frame) Height() int {
	return f.Image.Bounds().Dy()
}

// CloneRGBA returns a mutable RGBA copy of the frame's pixels.
func (f Frame) CloneRGBA() *image.RGBA {
	b := f.Image.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), f.Image, b.Min, draw.Src)
	return dst
}

// EncodePNG encodes the frame's pixels as PNG bytes.
func (f Frame) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, f.Image); err != nil {
		return nil, common.NewAppError("PNG_ENCODE", "encoding frame "+f.Name,
			errors.Join(common.ErrEncoding, err))
	}
	return buf.Bytes(), nil
}

// DataURL encodes the frame as an embedded PNG data URL for transport.
func (f Frame) DataURL() (string, error) {
	raw, err := f.EncodePNG()
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw), nil
}
