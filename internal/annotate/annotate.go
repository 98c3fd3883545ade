// Package annotate draws detection boxes and labels onto a copy of a frame.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/AnSingh1/DoorDetection/internal/entity"
	"github.com/AnSingh1/DoorDetection/internal/frame"
)

const (
	// StrokeWidth is the fixed outline thickness in frame pixels.
	StrokeWidth = 3
	// ChipMinWidth keeps short class labels legible on narrow boxes.
	ChipMinWidth = 80
	// ChipHeight is the fixed label chip height.
	ChipHeight = 24
)

// Accent is the fixed outline and chip fill color.
var Accent = color.RGBA{R: 224, G: 49, B: 49, A: 255}

var labelColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// ChipWidth returns the label chip width for a box: at least ChipMinWidth,
// or half the box width, whichever is larger.
func ChipWidth(boxWidth int) int {
	if half := boxWidth / 2; half > ChipMinWidth {
		return half
	}
	return ChipMinWidth
}

// ChipRect positions the label chip above the box, clamped to the frame's
// top edge when the box sits near y=0.
func ChipRect(b entity.DetectionBox) image.Rectangle {
	y := b.Y - ChipHeight
	if y < 0 {
		y = 0
	}
	return image.Rect(b.X, y, b.X+ChipWidth(b.Width), y+ChipHeight)
}

// Label formats the chip text, e.g. "Door 87%".
func Label(b entity.DetectionBox) string {
	return fmt.Sprintf("%s %d%%", b.ClassName, int(math.Round(float64(b.Confidence)*100)))
}

// Annotate returns a copy of the frame with a rectangle outline and a
// filled label chip per box. The input frame is never mutated.
func Annotate(f frame.Frame, boxes []entity.DetectionBox) frame.Frame {
	img := f.CloneRGBA()
	for _, b := range boxes {
		drawRect(img, b.X, b.Y, b.X+b.Width, b.Y+b.Height, Accent)
		drawChip(img, b)
	}
	return frame.New(f.Name, img)
}

// drawRect outlines the box edges with a fixed stroke width, skipping
// pixels outside the image bounds.
func drawRect(img *image.RGBA, x1, y1, x2, y2 int, col color.Color) {
	bounds := img.Bounds()
	setPixel := func(x, y int) {
		if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			img.Set(x, y, col)
		}
	}

	for t := 0; t < StrokeWidth; t++ {
		for x := x1; x <= x2; x++ {
			setPixel(x, y1+t)
			setPixel(x, y2-t)
		}
		for y := y1; y <= y2; y++ {
			setPixel(x1+t, y)
			setPixel(x2-t, y)
		}
	}
}

func drawChip(img *image.RGBA, b entity.DetectionBox) {
	chip := ChipRect(b)
	draw.Draw(img, chip.Intersect(img.Bounds()), image.NewUniform(Accent), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: face,
		Dot: fixed.P(
			chip.Min.X+6,
			chip.Min.Y+(ChipHeight+face.Ascent)/2-2,
		),
	}
	d.DrawString(Label(b))
}
