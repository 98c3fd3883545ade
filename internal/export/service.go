package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/AnSingh1/DoorDetection/internal/repository"
)

// Service is a tiny façade over the journal that produces XLSX bytes for
// operator reports.
type Service struct {
	journal *repository.Journal
	logger  *slog.Logger
}

func NewService(journal *repository.Journal, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{journal: journal, logger: logger}
}

// ExportJobsXLSX returns an XLSX workbook (as bytes) summarizing detection
// jobs in the given window.
// If only from is provided -> from..now (inclusive).
// If neither is provided   -> all jobs.
func (s *Service) ExportJobsXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	if from != nil && to == nil {
		now := time.Now().UTC()
		to = &now
	}

	jobs, err := s.journal.List(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Detections"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Started",
		"Filename",
		"Status",
		"Frames",
		"Doors Found",
		"Duration (ms)",
		"Error",
		"Batch",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, j := range jobs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, j.StartedAt.UTC().Format(time.RFC3339))
		write(2, j.Filename)
		write(3, string(j.Status))
		write(4, j.Frames)
		write(5, j.Boxes)
		write(6, j.DurationMS)
		write(7, truncate(j.Error, 140))
		write(8, j.BatchID.String())

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 22) // timestamp
	_ = f.SetColWidth(sheet, "B", "B", 40) // filename
	_ = f.SetColWidth(sheet, "C", "C", 10) // status
	_ = f.SetColWidth(sheet, "G", "G", 48) // error
	_ = f.SetColWidth(sheet, "H", "H", 38) // batch id

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(jobs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
