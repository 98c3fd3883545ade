package detect

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/AnSingh1/DoorDetection/internal/common"
	"github.com/AnSingh1/DoorDetection/internal/frame"
)

// WSDetector talks to a remote inference service over a persistent
// websocket: one binary PNG message out, one JSON detections message back.
// The protocol is request/response, so calls are serialized on the
// connection regardless of the pipeline's own detector slot.
type WSDetector struct {
	url     string
	timeout time.Duration
	schema  *jsonschema.Schema
	logger  *slog.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewWSDetector(url string, timeout time.Duration, logger *slog.Logger) *WSDetector {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &WSDetector{
		url:     url,
		timeout: timeout,
		schema:  compileResponseSchema(),
		logger:  logger,
	}
}

func (d *WSDetector) Detect(ctx context.Context, f frame.Frame, inferenceSize int) ([]Detection, error) {
	lb := Fit(f.Width(), f.Height(), inferenceSize)

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, lb.Canvas(f.Image)); err != nil {
		return nil, common.NewAppError("ENCODING", "encoding inference canvas",
			errors.Join(common.ErrEncoding, err))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	payload, err := d.roundTrip(ctx, pngBuf.Bytes())
	if err != nil {
		// one reconnect attempt; the server may have dropped an idle conn
		d.reset()
		payload, err = d.roundTrip(ctx, pngBuf.Bytes())
	}
	if err != nil {
		d.reset()
		return nil, inferenceErr(f.Name, err)
	}

	dets, err := decodeDetections(d.schema, payload, lb)
	if err != nil {
		return nil, inferenceErr(f.Name, err)
	}
	return dets, nil
}

// roundTrip sends one frame and reads one response on the shared conn.
// Caller holds d.mu.
func (d *WSDetector) roundTrip(ctx context.Context, pngBytes []byte) ([]byte, error) {
	conn, err := d.ensureConn(ctx)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(d.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	_ = conn.SetWriteDeadline(deadline)
	_ = conn.SetReadDeadline(deadline)

	if err := conn.WriteMessage(websocket.BinaryMessage, pngBytes); err != nil {
		return nil, err
	}
	_, message, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return message, nil
}

func (d *WSDetector) ensureConn(ctx context.Context) (*websocket.Conn, error) {
	if d.conn != nil {
		return d.conn, nil
	}
	d.logger.Info("connecting to inference server", "url", d.url)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", d.url, err)
	}
	d.conn = conn
	return conn, nil
}

func (d *WSDetector) reset() {
	if d.conn != nil {
		_ = d.conn.Close()
		d.conn = nil
	}
}

// CheckHealth dials the inference server and keeps the connection for
// subsequent Detect calls.
func (d *WSDetector) CheckHealth(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.ensureConn(ctx)
	return err
}

// Close releases the websocket connection.
func (d *WSDetector) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
}
