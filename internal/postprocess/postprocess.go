// Package postprocess turns raw model detections into the stable box schema.
package postprocess

import (
	"fmt"
	"strings"

	"github.com/AnSingh1/DoorDetection/internal/common"
	"github.com/AnSingh1/DoorDetection/internal/detect"
	"github.com/AnSingh1/DoorDetection/internal/entity"
)

// Filter keeps detections whose class matches targetClass
// (case-insensitive), preserving the detector's emission order. Confidence
// values pass through unmodified; the system applies no confidence floor
// beyond what the detector itself enforces. Deduplication and NMS are
// assumed already applied inside the detector.
//
// Every kept box must lie within the frame's bounds. A violation is a
// coordinate-space defect between detector and postprocessor and is
// reported as an error, never clamped.
func Filter(dets []detect.Detection, targetClass string, frameW, frameH int) ([]entity.DetectionBox, error) {
	boxes := make([]entity.DetectionBox, 0, len(dets))
	for _, d := range dets {
		if !strings.EqualFold(d.ClassName, targetClass) {
			continue
		}
		if err := validate(d, frameW, frameH); err != nil {
			return nil, err
		}
		boxes = append(boxes, entity.DetectionBox{
			X:          d.X,
			Y:          d.Y,
			Width:      d.Width,
			Height:     d.Height,
			ClassName:  d.ClassName,
			Confidence: d.Confidence,
		})
	}
	return boxes, nil
}

func validate(d detect.Detection, frameW, frameH int) error {
	switch {
	case d.Width <= 0 || d.Height <= 0:
		return boxDefect(d, frameW, frameH, "empty box")
	case d.X < 0 || d.Y < 0:
		return boxDefect(d, frameW, frameH, "negative origin")
	case d.X+d.Width > frameW || d.Y+d.Height > frameH:
		return boxDefect(d, frameW, frameH, "exceeds frame bounds")
	case d.Confidence < 0 || d.Confidence > 1:
		return boxDefect(d, frameW, frameH, "confidence outside [0,1]")
	}
	return nil
}

func boxDefect(d detect.Detection, frameW, frameH int, reason string) error {
	return common.NewAppError("BOX_DEFECT",
		fmt.Sprintf("%s: box (%d,%d %dx%d conf=%.3f) in %dx%d frame",
			reason, d.X, d.Y, d.Width, d.Height, d.Confidence, frameW, frameH),
		common.ErrInternal)
}
