package render

import (
	"fmt"
	"strings"

	"github.com/AnSingh1/DoorDetection/internal/entity"
)

const overlayStroke = "#e03131"

// OverlaySVG builds a box overlay whose viewBox equals the original frame's
// pixel dimensions. The drawing surface's own viewport-to-viewBox mapping
// performs the scaling, so box coordinates never need rescaling host-side,
// and vector-effect keeps strokes one on-screen width at any zoom.
func OverlaySVG(naturalW, naturalH int, boxes []entity.DetectionBox) string {
	var sb strings.Builder
	fmt.Fprintf(&sb,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" preserveAspectRatio="xMidYMid meet">`,
		naturalW, naturalH)
	for _, b := range boxes {
		fmt.Fprintf(&sb,
			`<rect x="%d" y="%d" width="%d" height="%d" fill="none" stroke="%s" stroke-width="2" vector-effect="non-scaling-stroke"><title>%s</title></rect>`,
			b.X, b.Y, b.Width, b.Height, overlayStroke, svgEscape(b.ClassName))
	}
	sb.WriteString(`</svg>`)
	return sb.String()
}

func svgEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
