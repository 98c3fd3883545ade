package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/AnSingh1/DoorDetection/constants"
	"github.com/AnSingh1/DoorDetection/internal/common"
)

// JobRow is one journaled per-document pipeline run.
type JobRow struct {
	ID         uuid.UUID
	BatchID    uuid.UUID
	Filename   string
	Status     constants.JobStatus
	Frames     int
	Boxes      int
	DurationMS int64
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Journal persists per-document detection job outcomes. It is operator
// tooling only and never part of the client contract.
type Journal struct {
	db     *sql.DB
	logger *slog.Logger
}

const journalSchema = `
CREATE TABLE IF NOT EXISTS detection_job (
	id           TEXT PRIMARY KEY,
	batch_id     TEXT NOT NULL,
	filename     TEXT NOT NULL,
	status       TEXT NOT NULL,
	frames       INTEGER NOT NULL DEFAULT 0,
	boxes        INTEGER NOT NULL DEFAULT 0,
	duration_ms  INTEGER NOT NULL DEFAULT 0,
	error        TEXT NOT NULL DEFAULT '',
	started_at   TIMESTAMP NOT NULL,
	finished_at  TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_detection_job_started ON detection_job (started_at);
`

// OpenJournal opens (creating if needed) the sqlite journal at path.
// Use ":memory:" for tests.
func OpenJournal(ctx context.Context, path string, logger *slog.Logger) (*Journal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.WrapError(err, "opening journal db")
	}
	// modernc sqlite serializes writes; a single conn avoids table locks.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, journalSchema); err != nil {
		_ = db.Close()
		return nil, common.WrapError(err, "migrating journal db")
	}
	logger.Info("journal db ready", "path", path)
	return &Journal{db: db, logger: logger}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Start records a new RUNNING job for a document and returns its ID.
func (j *Journal) Start(ctx context.Context, batchID uuid.UUID, filename string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO detection_job (id, batch_id, filename, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		id.String(), batchID.String(), filename, string(constants.JobStatusRunning), time.Now().UTC())
	if err != nil {
		j.logger.Error("journal start failed", "filename", filename, "error", err)
		return uuid.Nil, common.WrapError(err, "journal start")
	}
	return id, nil
}

// Outcome carries the terminal state of a job.
type Outcome struct {
	Status       constants.JobStatus
	Frames       int
	Boxes        int
	Duration     time.Duration
	ErrorMessage string
}

// Finish records a job's terminal status.
func (j *Journal) Finish(ctx context.Context, jobID uuid.UUID, out Outcome) error {
	_, err := j.db.ExecContext(ctx,
		`UPDATE detection_job SET status = ?, frames = ?, boxes = ?, duration_ms = ?, error = ?, finished_at = ? WHERE id = ?`,
		string(out.Status), out.Frames, out.Boxes, out.Duration.Milliseconds(), out.ErrorMessage,
		time.Now().UTC(), jobID.String())
	if err != nil {
		j.logger.Error("journal finish failed", "job_id", jobID, "error", err)
		return common.WrapError(err, "journal finish")
	}
	return nil
}

// List returns jobs started within the window, newest first. Nil bounds are
// open-ended.
func (j *Journal) List(ctx context.Context, from, to *time.Time) ([]JobRow, error) {
	q := `SELECT id, batch_id, filename, status, frames, boxes, duration_ms, error, started_at, finished_at
	      FROM detection_job WHERE 1=1`
	var args []any
	if from != nil {
		q += ` AND started_at >= ?`
		args = append(args, from.UTC())
	}
	if to != nil {
		q += ` AND started_at <= ?`
		args = append(args, to.UTC())
	}
	q += ` ORDER BY started_at DESC`

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, common.WrapError(err, "journal list")
	}
	defer func() { _ = rows.Close() }()

	var out []JobRow
	for rows.Next() {
		var (
			r               jobScanRow
			idStr, batchStr string
			status          string
		)
		if err := rows.Scan(&idStr, &batchStr, &r.Filename, &status, &r.Frames, &r.Boxes,
			&r.DurationMS, &r.Error, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, common.WrapError(err, "journal scan")
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, common.WrapError(err, "journal id")
		}
		batchID, err := uuid.Parse(batchStr)
		if err != nil {
			return nil, common.WrapError(err, "journal batch id")
		}
		out = append(out, JobRow{
			ID:         id,
			BatchID:    batchID,
			Filename:   r.Filename,
			Status:     constants.JobStatus(status),
			Frames:     r.Frames,
			Boxes:      r.Boxes,
			DurationMS: r.DurationMS,
			Error:      r.Error,
			StartedAt:  r.StartedAt,
			FinishedAt: r.FinishedAt,
		})
	}
	return out, rows.Err()
}

type jobScanRow struct {
	Filename   string
	Frames     int
	Boxes      int
	DurationMS int64
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}
