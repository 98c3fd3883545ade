// Package render holds the display-scaling contract for clients: boxes stay
// in original-frame coordinates and are mapped to any viewport through an
// aspect-preserving, never-upscaling scale. Display state is derived, a pure
// function of (natural size, viewport size), recomputed on layout changes
// and never cached.
package render

import (
	"math"

	"github.com/AnSingh1/DoorDetection/internal/entity"
)

// DisplayBox is a DetectionBox rescaled into a concrete viewport. Transient,
// never persisted.
type DisplayBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FitScale returns min(viewportW/naturalW, viewportH/naturalH, 1): the image
// shrinks to fit but is never upscaled past native resolution.
func FitScale(naturalW, naturalH, viewportW, viewportH int) float64 {
	if naturalW <= 0 || naturalH <= 0 {
		return 1
	}
	s := math.Min(float64(viewportW)/float64(naturalW), float64(viewportH)/float64(naturalH))
	return math.Min(s, 1)
}

// DisplaySize returns the displayed image dimensions for a viewport.
func DisplaySize(naturalW, naturalH, viewportW, viewportH int) (float64, float64) {
	s := FitScale(naturalW, naturalH, viewportW, viewportH)
	return float64(naturalW) * s, float64(naturalH) * s
}

// Rescale maps a box from original-frame space into display space.
func Rescale(b entity.DetectionBox, scale float64) DisplayBox {
	return DisplayBox{
		X:      float64(b.X) * scale,
		Y:      float64(b.Y) * scale,
		Width:  float64(b.Width) * scale,
		Height: float64(b.Height) * scale,
	}
}
