// Package detect wraps the external detection model as a narrow, injected
// capability. Adapters own the resize/letterbox transform to the inference
// resolution and always hand back detections in the original frame's pixel
// space, so downstream stages never see inference-space coordinates.
package detect

import (
	"context"

	"github.com/AnSingh1/DoorDetection/internal/frame"
)

// Detection is one raw model detection mapped back into the original
// frame's pixel space.
type Detection struct {
	ClassName  string
	Confidence float32
	X          int
	Y          int
	Width      int
	Height     int
}

// Detector is the opaque model capability: given a model-ready frame and a
// target inference size, return raw detections in original-frame coordinates.
type Detector interface {
	Detect(ctx context.Context, f frame.Frame, inferenceSize int) ([]Detection, error)
}

// HealthChecker is implemented by adapters that can probe their backend.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}
