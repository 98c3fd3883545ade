package detect

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// responseSchema constrains the inference server's payload before we trust
// its coordinates.
const responseSchema = `{
	"type": "object",
	"required": ["detections"],
	"properties": {
		"detections": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["class", "confidence", "box"],
				"properties": {
					"class":      {"type": "string", "minLength": 1},
					"confidence": {"type": "number", "minimum": 0, "maximum": 1},
					"box": {
						"type": "array",
						"minItems": 4,
						"maxItems": 4,
						"items": {"type": "number"}
					}
				}
			}
		}
	}
}`

type wireDetection struct {
	Class      string     `json:"class"`
	Confidence float32    `json:"confidence"`
	Box        [4]float64 `json:"box"` // x1,y1,x2,y2 on the inference canvas
}

type wireResponse struct {
	Detections []wireDetection `json:"detections"`
}

func compileResponseSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("response.json", strings.NewReader(responseSchema)); err != nil {
		panic(fmt.Sprintf("detect: adding response schema: %v", err))
	}
	return compiler.MustCompile("response.json")
}

// decodeDetections validates and decodes an inference payload, then maps
// every box through the inverse letterbox transform into original-frame
// space. Emission order is preserved.
func decodeDetections(schema *jsonschema.Schema, payload []byte, lb Letterbox) ([]Detection, error) {
	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, fmt.Errorf("unmarshal inference response: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return nil, fmt.Errorf("inference response does not match schema: %w", err)
	}

	var resp wireResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("decode inference response: %w", err)
	}

	out := make([]Detection, 0, len(resp.Detections))
	for _, d := range resp.Detections {
		x, y, w, h := lb.ToOriginal(d.Box[0], d.Box[1], d.Box[2], d.Box[3])
		out = append(out, Detection{
			ClassName:  d.Class,
			Confidence: d.Confidence,
			X:          x,
			Y:          y,
			Width:      w,
			Height:     h,
		})
	}
	return out, nil
}
