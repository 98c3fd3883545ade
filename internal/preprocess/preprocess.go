// Package preprocess prepares a decoded plan frame for detection.
//
// Floor-plan line art has near-white backgrounds and near-black structural
// lines; a fixed binary threshold strips anti-aliasing noise and low-contrast
// fill patterns that degrade small-symbol detection.
package preprocess

import (
	"image"
	"image/color"

	"github.com/AnSingh1/DoorDetection/internal/frame"
)

// DefaultThreshold is the fixed binarization cutoff.
const DefaultThreshold = 250

// Binarize converts the frame to single-channel luminance, applies the
// threshold (luminance >= t becomes white, else black), and replicates the
// mask across three channels for the model. The input frame is not modified;
// it remains the coordinate reference for detections.
func Binarize(f frame.Frame, t uint8) frame.Frame {
	b := f.Image.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(f.Image.At(x, y)).(color.Gray)
			var v uint8
			if g.Y >= t {
				v = 255
			}
			out.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return frame.New(f.Name, out)
}
