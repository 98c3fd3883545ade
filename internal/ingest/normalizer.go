package ingest

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"time"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/AnSingh1/DoorDetection/constants"
	"github.com/AnSingh1/DoorDetection/internal/common"
	"github.com/AnSingh1/DoorDetection/internal/frame"
)

// SourceDocument is one uploaded byte stream; discarded after ingestion.
type SourceDocument struct {
	Filename  string
	MediaType string
	Data      []byte
}

type Config struct {
	Pdftoppm string // binary name or absolute path; if empty -> "pdftoppm"
	DPI      int    // rasterization DPI for PDF pages, default 150
	Runner   Runner // stubbed in tests; if nil -> exec
}

// Normalizer turns one SourceDocument into one or more canonical raster
// frames: one per PDF page, or one for a single image.
type Normalizer struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewNormalizer(cfg Config, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 150
	}
	runner := cfg.Runner
	if runner == nil {
		runner = execRunner{logger: logger}
	}
	return &Normalizer{cfg: cfg, runner: runner, logger: logger}
}

// Normalize picks a strategy based on file extension.
func (n *Normalizer) Normalize(ctx context.Context, doc SourceDocument) ([]frame.Frame, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(doc.Filename))
	n.logger.Debug("starting ingestion", "filename", doc.Filename, "ext", ext, "bytes", len(doc.Data))

	var frames []frame.Frame
	var err error
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		frames, err = n.rasterizePDF(ctx, doc)
	case constants.IMAGE:
		frames, err = n.decodeImage(doc)
	default:
		n.logger.Error("unsupported upload extension", "filename", doc.Filename, "extension", ext)
		return nil, common.NewAppError("UNSUPPORTED_FORMAT",
			fmt.Sprintf("unsupported extension %q for %s", ext, doc.Filename),
			common.ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}

	n.logger.Info("ingestion ok",
		"filename", doc.Filename,
		"frames", len(frames),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return frames, nil
}

func (n *Normalizer) decodeImage(doc SourceDocument) ([]frame.Frame, error) {
	img, _, err := image.Decode(bytes.NewReader(doc.Data))
	if err != nil {
		n.logger.Error("image decode failed", "filename", doc.Filename, "error", err)
		return nil, common.NewAppError("CORRUPT_INPUT",
			fmt.Sprintf("decoding %s: %v", doc.Filename, err),
			common.ErrCorruptInput)
	}
	if img.Bounds().Dx() <= 0 || img.Bounds().Dy() <= 0 {
		return nil, common.NewAppError("CORRUPT_INPUT",
			fmt.Sprintf("%s decoded to empty image", doc.Filename),
			common.ErrCorruptInput)
	}
	return []frame.Frame{frame.New(doc.Filename, img)}, nil
}
