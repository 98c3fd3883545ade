package preprocess

// Inference resolution tiers. Door symbols in large-format plans are
// proportionally small, so large frames get high-resolution inference;
// small plans stay at the cheap tier.
const (
	SmallInferenceSize = 640
	LargeInferenceSize = 3200
	largeFrameEdge     = 2000
)

// InferenceSize picks the inference target size from frame dimensions.
// The boundary is inclusive: max(w,h) >= 2000 selects the high tier.
func InferenceSize(width, height int) int {
	longest := width
	if height > longest {
		longest = height
	}
	if longest >= largeFrameEdge {
		return LargeInferenceSize
	}
	return SmallInferenceSize
}
