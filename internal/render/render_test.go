package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AnSingh1/DoorDetection/internal/entity"
)

func TestFitScaleShrinksToViewport(t *testing.T) {
	s := FitScale(2000, 1000, 800, 800)
	assert.InDelta(t, 0.4, s, 1e-9)

	w, h := DisplaySize(2000, 1000, 800, 800)
	assert.InDelta(t, 800, w, 1e-9)
	assert.InDelta(t, 400, h, 1e-9)
}

func TestFitScaleNeverUpscales(t *testing.T) {
	assert.Equal(t, 1.0, FitScale(400, 300, 3000, 3000))

	w, h := DisplaySize(400, 300, 3000, 3000)
	assert.InDelta(t, 400, w, 1e-9)
	assert.InDelta(t, 300, h, 1e-9)
}

func TestFitScaleDegenerateNaturalSize(t *testing.T) {
	assert.Equal(t, 1.0, FitScale(0, 0, 800, 600))
}

func TestRescale(t *testing.T) {
	b := entity.DetectionBox{X: 100, Y: 200, Width: 300, Height: 150}
	d := Rescale(b, 0.4)
	assert.InDelta(t, 40, d.X, 1e-9)
	assert.InDelta(t, 80, d.Y, 1e-9)
	assert.InDelta(t, 120, d.Width, 1e-9)
	assert.InDelta(t, 60, d.Height, 1e-9)
}

func TestRescaleIdentity(t *testing.T) {
	b := entity.DetectionBox{X: 7, Y: 9, Width: 11, Height: 13}
	d := Rescale(b, 1)
	assert.Equal(t, DisplayBox{X: 7, Y: 9, Width: 11, Height: 13}, d)
}

func TestOverlaySVGViewBoxMatchesNaturalSize(t *testing.T) {
	svg := OverlaySVG(1700, 2200, nil)
	assert.Contains(t, svg, `viewBox="0 0 1700 2200"`)
	assert.Contains(t, svg, `preserveAspectRatio="xMidYMid meet"`)
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
}

func TestOverlaySVGBoxesInOriginalCoordinates(t *testing.T) {
	boxes := []entity.DetectionBox{
		{X: 100, Y: 200, Width: 300, Height: 150, ClassName: "door"},
		{X: 10, Y: 20, Width: 30, Height: 40, ClassName: "door"},
	}
	svg := OverlaySVG(2000, 1000, boxes)

	assert.Contains(t, svg, `<rect x="100" y="200" width="300" height="150"`)
	assert.Contains(t, svg, `<rect x="10" y="20" width="30" height="40"`)
	assert.Contains(t, svg, `stroke="#e03131"`)
	assert.Contains(t, svg, `vector-effect="non-scaling-stroke"`)
	assert.Equal(t, 2, strings.Count(svg, "<rect"))
}

func TestOverlaySVGEscapesClassName(t *testing.T) {
	svg := OverlaySVG(100, 100, []entity.DetectionBox{
		{X: 1, Y: 1, Width: 2, Height: 2, ClassName: `a<b>&"c`},
	})
	assert.Contains(t, svg, "<title>a&lt;b&gt;&amp;&quot;c</title>")
}
