package entity

// DetectionBox is a filtered detection in the original, unscaled Frame's
// pixel space. Coordinates are never pre-scaled for display; consumers
// rescale against the Frame's natural dimensions.
type DetectionBox struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	ClassName  string  `json:"className"`
	Confidence float32 `json:"confidence"`
}

// DetectionResult holds the per-frame output of one pipeline run.
// AnnotatedImage and OriginalImage are PNG data URLs ready for transport.
type DetectionResult struct {
	Filename       string         `json:"filename"`
	AnnotatedImage string         `json:"image"`
	OriginalImage  string         `json:"original_image"`
	Overlay        string         `json:"overlay,omitempty"`
	Boxes          []DetectionBox `json:"boxes"`
}

// DocumentError is the structured per-file error reported alongside the
// results of the unaffected documents in the same batch.
type DocumentError struct {
	Filename string `json:"filename"`
	Code     string `json:"code"`
	Error    string `json:"error"`
}

// BatchResult aggregates one result per input frame across all uploaded
// documents, in upload order, plus per-document failures.
type BatchResult struct {
	Images []DetectionResult `json:"images"`
	Errors []DocumentError   `json:"errors,omitempty"`
}
