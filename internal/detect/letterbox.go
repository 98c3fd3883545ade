package detect

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/nfnt/resize"
)

// Letterbox describes the aspect-preserving transform from a frame's native
// resolution onto a square inference canvas: uniform scale plus centered
// padding. Inverting it recovers original-space coordinates, which is the
// single most bug-prone seam between the model and the postprocessor.
type Letterbox struct {
	Size    int
	Scale   float64
	ScaledW int
	ScaledH int
	PadX    int
	PadY    int
}

// Fit computes the letterbox transform for a width×height frame onto a
// size×size canvas.
func Fit(width, height, size int) Letterbox {
	scale := math.Min(float64(size)/float64(width), float64(size)/float64(height))
	scaledW := int(math.Round(float64(width) * scale))
	scaledH := int(math.Round(float64(height) * scale))
	return Letterbox{
		Size:    size,
		Scale:   scale,
		ScaledW: scaledW,
		ScaledH: scaledH,
		PadX:    (size - scaledW) / 2,
		PadY:    (size - scaledH) / 2,
	}
}

// Canvas renders the frame onto the inference canvas: scaled with bilinear
// interpolation and centered on a white background (binarized plans are
// white-dominant, so padding must not read as line work).
func (lb Letterbox) Canvas(img image.Image) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, lb.Size, lb.Size))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	scaled := resize.Resize(uint(lb.ScaledW), uint(lb.ScaledH), img, resize.Bilinear)
	target := image.Rect(lb.PadX, lb.PadY, lb.PadX+lb.ScaledW, lb.PadY+lb.ScaledH)
	draw.Draw(canvas, target, scaled, image.Point{}, draw.Src)
	return canvas
}

// ToOriginal maps an inference-space box (x1,y1,x2,y2 on the canvas) back to
// the original frame's pixel space: subtract the padding offset, divide by
// the scale. The result is not clamped; out-of-bounds coordinates are a
// coordinate-space defect that the postprocessor rejects.
func (lb Letterbox) ToOriginal(x1, y1, x2, y2 float64) (x, y, w, h int) {
	ox1 := (x1 - float64(lb.PadX)) / lb.Scale
	oy1 := (y1 - float64(lb.PadY)) / lb.Scale
	ox2 := (x2 - float64(lb.PadX)) / lb.Scale
	oy2 := (y2 - float64(lb.PadY)) / lb.Scale

	x = int(math.Round(ox1))
	y = int(math.Round(oy1))
	w = int(math.Round(ox2)) - x
	h = int(math.Round(oy2)) - y
	return x, y, w, h
}
