// Package pipeline composes the per-document detection stages:
// ingestion, preprocessing, resolution selection, detection,
// postprocessing, annotation.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/AnSingh1/DoorDetection/internal/annotate"
	"github.com/AnSingh1/DoorDetection/internal/common"
	"github.com/AnSingh1/DoorDetection/internal/detect"
	"github.com/AnSingh1/DoorDetection/internal/entity"
	"github.com/AnSingh1/DoorDetection/internal/frame"
	"github.com/AnSingh1/DoorDetection/internal/ingest"
	"github.com/AnSingh1/DoorDetection/internal/postprocess"
	"github.com/AnSingh1/DoorDetection/internal/preprocess"
	"github.com/AnSingh1/DoorDetection/internal/render"
)

type Config struct {
	TargetClass     string
	BinaryThreshold uint8
	// SerializeDetector forces a single in-flight Detect call for model
	// backends that are not safe under concurrent invocation. Only the
	// inference call holds the slot; ingestion, preprocessing and
	// annotation still run in parallel around it.
	SerializeDetector bool
}

// Pipeline runs one document end to end. The detector is an injected,
// process-scoped capability; the pipeline holds no model state of its own.
type Pipeline struct {
	logger     *slog.Logger
	normalizer *ingest.Normalizer
	detector   detect.Detector
	cfg        Config
	detSlot    chan struct{}
}

func New(normalizer *ingest.Normalizer, detector detect.Detector, cfg Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TargetClass == "" {
		cfg.TargetClass = "door"
	}
	if cfg.BinaryThreshold == 0 {
		cfg.BinaryThreshold = preprocess.DefaultThreshold
	}
	p := &Pipeline{
		logger:     logger,
		normalizer: normalizer,
		detector:   detector,
		cfg:        cfg,
	}
	if cfg.SerializeDetector {
		p.detSlot = make(chan struct{}, 1)
	}
	return p
}

// ProcessDocument normalizes one uploaded document and runs the detection
// stages on every resulting frame, in page order. The document's frames
// share no state with any other document's run.
func (p *Pipeline) ProcessDocument(ctx context.Context, doc ingest.SourceDocument) ([]entity.DetectionResult, error) {
	frames, err := p.normalizer.Normalize(ctx, doc)
	if err != nil {
		p.logger.Error("pipeline.ingest.failed",
			"batch_id", common.BatchIDFromContext(ctx),
			"filename", doc.Filename,
			"err", err,
		)
		return nil, err
	}

	results := make([]entity.DetectionResult, 0, len(frames))
	for _, f := range frames {
		res, err := p.processFrame(ctx, f)
		if err != nil {
			p.logger.Error("pipeline.frame.failed",
				"batch_id", common.BatchIDFromContext(ctx),
				"frame", f.Name,
				"err", err,
			)
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (p *Pipeline) processFrame(ctx context.Context, f frame.Frame) (entity.DetectionResult, error) {
	start := time.Now()

	ready := preprocess.Binarize(f, p.cfg.BinaryThreshold)
	size := preprocess.InferenceSize(f.Width(), f.Height())

	dets, err := p.runDetector(ctx, ready, size)
	if err != nil {
		return entity.DetectionResult{}, err
	}

	boxes, err := postprocess.Filter(dets, p.cfg.TargetClass, f.Width(), f.Height())
	if err != nil {
		return entity.DetectionResult{}, err
	}

	annotated := annotate.Annotate(f, boxes)
	annotatedURL, err := annotated.DataURL()
	if err != nil {
		return entity.DetectionResult{}, err
	}
	originalURL, err := f.DataURL()
	if err != nil {
		return entity.DetectionResult{}, err
	}

	p.logger.Info("pipeline.frame.ok",
		"batch_id", common.BatchIDFromContext(ctx),
		"frame", f.Name,
		"inference_size", size,
		"boxes", len(boxes),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return entity.DetectionResult{
		Filename:       f.Name,
		AnnotatedImage: annotatedURL,
		OriginalImage:  originalURL,
		Overlay:        render.OverlaySVG(f.Width(), f.Height(), boxes),
		Boxes:          boxes,
	}, nil
}

// runDetector invokes the model capability, holding the exclusive slot for
// the duration of the inference call only.
func (p *Pipeline) runDetector(ctx context.Context, f frame.Frame, size int) ([]detect.Detection, error) {
	if p.detSlot != nil {
		select {
		case p.detSlot <- struct{}{}:
			defer func() { <-p.detSlot }()
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return p.detector.Detect(ctx, f, size)
}
