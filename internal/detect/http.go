package detect

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/AnSingh1/DoorDetection/internal/common"
	"github.com/AnSingh1/DoorDetection/internal/frame"
)

// HTTPDetector talks to a remote inference service over HTTP: the
// letterboxed canvas goes out as a multipart PNG, detections come back as
// JSON in canvas coordinates.
type HTTPDetector struct {
	url    string
	client *http.Client
	schema *jsonschema.Schema
	logger *slog.Logger
}

func NewHTTPDetector(url string, timeout time.Duration, logger *slog.Logger) *HTTPDetector {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPDetector{
		url:    url,
		client: &http.Client{Timeout: timeout},
		schema: compileResponseSchema(),
		logger: logger,
	}
}

func (d *HTTPDetector) Detect(ctx context.Context, f frame.Frame, inferenceSize int) ([]Detection, error) {
	start := time.Now()
	lb := Fit(f.Width(), f.Height(), inferenceSize)

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, lb.Canvas(f.Image)); err != nil {
		return nil, common.NewAppError("ENCODING", "encoding inference canvas",
			errors.Join(common.ErrEncoding, err))
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", f.Name+".png")
	if err != nil {
		return nil, inferenceErr(f.Name, err)
	}
	if _, err := io.Copy(part, &pngBuf); err != nil {
		return nil, inferenceErr(f.Name, err)
	}
	if err := writer.Close(); err != nil {
		return nil, inferenceErr(f.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, body)
	if err != nil {
		return nil, inferenceErr(f.Name, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, inferenceErr(f.Name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, inferenceErr(f.Name, fmt.Errorf("inference status %d", resp.StatusCode))
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, inferenceErr(f.Name, err)
	}

	dets, err := decodeDetections(d.schema, payload, lb)
	if err != nil {
		return nil, inferenceErr(f.Name, err)
	}

	d.logger.Debug("inference ok",
		"frame", f.Name,
		"inference_size", inferenceSize,
		"detections", len(dets),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return dets, nil
}

// CheckHealth probes the inference service's health endpoint.
func (d *HTTPDetector) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference service unhealthy: %d", resp.StatusCode)
	}
	return nil
}

func inferenceErr(name string, cause error) error {
	return common.NewAppError("MODEL_INFERENCE",
		fmt.Sprintf("detecting on %s: %v", name, cause),
		common.ErrModelInference)
}
