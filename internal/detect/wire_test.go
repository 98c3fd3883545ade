package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityLetterbox(size int) Letterbox {
	return Letterbox{Size: size, Scale: 1, ScaledW: size, ScaledH: size}
}

func TestDecodeDetections(t *testing.T) {
	schema := compileResponseSchema()
	payload := []byte(`{"detections":[
		{"class":"Door","confidence":0.91,"box":[10,20,50,60]},
		{"class":"window","confidence":0.40,"box":[0,0,5,5]}
	]}`)

	dets, err := decodeDetections(schema, payload, identityLetterbox(640))
	require.NoError(t, err)
	require.Len(t, dets, 2)

	assert.Equal(t, "Door", dets[0].ClassName)
	assert.InDelta(t, 0.91, float64(dets[0].Confidence), 1e-6)
	assert.Equal(t, 10, dets[0].X)
	assert.Equal(t, 20, dets[0].Y)
	assert.Equal(t, 40, dets[0].Width)
	assert.Equal(t, 40, dets[0].Height)

	// emission order is preserved
	assert.Equal(t, "window", dets[1].ClassName)
}

func TestDecodeDetectionsEmpty(t *testing.T) {
	schema := compileResponseSchema()
	dets, err := decodeDetections(schema, []byte(`{"detections":[]}`), identityLetterbox(640))
	require.NoError(t, err)
	assert.Empty(t, dets)
}

func TestDecodeDetectionsInverseLetterbox(t *testing.T) {
	schema := compileResponseSchema()
	lb := Fit(2000, 1000, 640) // scale 0.32, padY 160
	payload := []byte(`{"detections":[{"class":"door","confidence":0.5,"box":[32,224,128,272]}]}`)

	dets, err := decodeDetections(schema, payload, lb)
	require.NoError(t, err)
	require.Len(t, dets, 1)
	assert.Equal(t, 100, dets[0].X)
	assert.Equal(t, 200, dets[0].Y)
	assert.Equal(t, 300, dets[0].Width)
	assert.Equal(t, 150, dets[0].Height)
}

func TestDecodeDetectionsRejectsMalformed(t *testing.T) {
	schema := compileResponseSchema()
	lb := identityLetterbox(640)

	cases := map[string]string{
		"not json":            `{"detections":`,
		"missing detections":  `{}`,
		"missing confidence":  `{"detections":[{"class":"door","box":[1,2,3,4]}]}`,
		"confidence above 1":  `{"detections":[{"class":"door","confidence":1.5,"box":[1,2,3,4]}]}`,
		"short box":           `{"detections":[{"class":"door","confidence":0.5,"box":[1,2,3]}]}`,
		"empty class":         `{"detections":[{"class":"","confidence":0.5,"box":[1,2,3,4]}]}`,
		"string coordinates":  `{"detections":[{"class":"door","confidence":0.5,"box":["1","2","3","4"]}]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decodeDetections(schema, []byte(payload), lb)
			assert.Error(t, err)
		})
	}
}
