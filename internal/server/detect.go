package server

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AnSingh1/DoorDetection/constants"
	"github.com/AnSingh1/DoorDetection/internal/common"
	"github.com/AnSingh1/DoorDetection/internal/entity"
	"github.com/AnSingh1/DoorDetection/internal/ingest"
)

const maxUploadMemory = 64 << 20

// handleDetect accepts a multipart batch under field "files" and responds
// with one DetectionResult per frame across all documents, in upload order.
// A failing document is reported in "errors" without discarding its
// siblings' results.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid multipart form"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "No files provided"})
		return
	}

	batchID := uuid.New()

	// Screen extensions up front so obviously unsupported uploads never
	// occupy a pipeline worker.
	var rejected []entity.DocumentError
	docs := make([]ingest.SourceDocument, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		if ext := filepath.Ext(fh.Filename); !constants.IsAllowedExt(ext) {
			rejected = append(rejected, entity.DocumentError{
				Filename: fh.Filename,
				Code:     "UNSUPPORTED_FORMAT",
				Error:    fmt.Sprintf("unsupported extension %q for %s", constants.NormalizeExt(ext), fh.Filename),
			})
			continue
		}
		f, err := fh.Open()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "unreadable upload: " + fh.Filename})
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "unreadable upload: " + fh.Filename})
			return
		}
		docs = append(docs, ingest.SourceDocument{
			Filename:  fh.Filename,
			MediaType: fh.Header.Get("Content-Type"),
			Data:      data,
		})
	}

	s.logger.Info("batch received",
		zap.String("request_id", common.RequestIDFromContext(r.Context())),
		zap.String("batch_id", batchID.String()),
		zap.Int("documents", len(docs)),
		zap.Int("rejected", len(rejected)),
	)

	outcomes := s.pool.Run(r.Context(), batchID, docs)

	batch := entity.BatchResult{Images: []entity.DetectionResult{}}
	batch.Errors = append(batch.Errors, rejected...)
	inputErrors := len(rejected)
	for _, o := range outcomes {
		if o.Err != nil {
			if common.IsInputError(o.Err) {
				inputErrors++
			}
			batch.Errors = append(batch.Errors, entity.DocumentError{
				Filename: o.Filename,
				Code:     common.ErrorCode(o.Err),
				Error:    o.Err.Error(),
			})
			continue
		}
		batch.Images = append(batch.Images, o.Results...)
	}

	if len(batch.Images) == 0 && len(batch.Errors) > 0 {
		status := http.StatusInternalServerError
		if inputErrors == len(batch.Errors) {
			status = http.StatusUnprocessableEntity
		}
		s.logger.Warn("batch failed",
			zap.String("batch_id", batchID.String()),
			zap.Int("errors", len(batch.Errors)),
		)
		writeJSON(w, status, batch)
		return
	}

	writeJSON(w, http.StatusOK, batch)
}
