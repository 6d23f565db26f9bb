package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/catalog-cards/constants"
	"github.com/joseph-ayodele/catalog-cards/internal/common"
	"github.com/joseph-ayodele/catalog-cards/internal/entity"
)

type ConversionRunRepository interface {
	Start(ctx context.Context, sourcePath, outputPath, language string) (*entity.ConversionRun, error)
	MarkExtracted(ctx context.Context, runID uuid.UUID, pageCount int) error
	FinishSuccess(ctx context.Context, runID uuid.UUID, strategy, provider string, productCount int) error
	FinishFailure(ctx context.Context, runID uuid.UUID, message string) error
	Get(ctx context.Context, runID uuid.UUID) (*entity.ConversionRun, error)
	List(ctx context.Context, limit int) ([]*entity.ConversionRun, error)
}

type conversionRunRepo struct {
	db  *DB
	log *slog.Logger
	now func() time.Time
}

func NewConversionRunRepository(db *DB, log *slog.Logger) ConversionRunRepository {
	if log == nil {
		log = slog.Default()
	}
	return &conversionRunRepo{db: db, log: log, now: time.Now}
}

// fixed width so text ordering matches time ordering
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func (r *conversionRunRepo) Start(ctx context.Context, sourcePath, outputPath, language string) (*entity.ConversionRun, error) {
	run := &entity.ConversionRun{
		ID:         uuid.New(),
		SourcePath: sourcePath,
		OutputPath: outputPath,
		Language:   language,
		Status:     string(constants.RunStatusRunning),
		StartedAt:  r.now().UTC(),
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO conversion_run (id, source_path, output_path, language, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		run.ID.String(), run.SourcePath, run.OutputPath, run.Language, run.Status, run.StartedAt.Format(timeLayout),
	)
	if err != nil {
		r.log.Error("conversion_run start failed", "source", sourcePath, "err", err)
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	r.log.Info("conversion_run started", "run_id", run.ID, "source", sourcePath)
	return run, nil
}

func (r *conversionRunRepo) MarkExtracted(ctx context.Context, runID uuid.UUID, pageCount int) error {
	return r.update(ctx, runID, `UPDATE conversion_run SET status = ?, page_count = ? WHERE id = ?`,
		string(constants.RunStatusExtracted), pageCount, runID.String())
}

func (r *conversionRunRepo) FinishSuccess(ctx context.Context, runID uuid.UUID, strategy, provider string, productCount int) error {
	err := r.update(ctx, runID, `
		UPDATE conversion_run
		SET status = ?, strategy = ?, provider = ?, product_count = ?, finished_at = ?
		WHERE id = ?`,
		string(constants.RunStatusOK), strategy, provider, productCount, r.now().UTC().Format(timeLayout), runID.String())
	if err == nil {
		r.log.Info("conversion_run finished (OK)", "run_id", runID, "strategy", strategy, "products", productCount)
	}
	return err
}

func (r *conversionRunRepo) FinishFailure(ctx context.Context, runID uuid.UUID, message string) error {
	err := r.update(ctx, runID, `
		UPDATE conversion_run SET status = ?, error_message = ?, finished_at = ? WHERE id = ?`,
		string(constants.RunStatusFailed), message, r.now().UTC().Format(timeLayout), runID.String())
	if err == nil {
		r.log.Warn("conversion_run finished (FAILED)", "run_id", runID, "error", message)
	}
	return err
}

func (r *conversionRunRepo) update(ctx context.Context, runID uuid.UUID, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		r.log.Error("conversion_run update failed", "run_id", runID, "err", err)
		return fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("conversion run %s: %w", runID, common.ErrNotFound)
	}
	return nil
}

const selectRun = `
	SELECT id, source_path, output_path, language, status, strategy, provider,
	       page_count, product_count, started_at, finished_at, error_message
	FROM conversion_run`

func (r *conversionRunRepo) Get(ctx context.Context, runID uuid.UUID) (*entity.ConversionRun, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(selectRun+` WHERE id = ?`), runID.String())
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("conversion run %s: %w", runID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return run, nil
}

// List returns the most recent runs first.
func (r *conversionRunRepo) List(ctx context.Context, limit int) ([]*entity.ConversionRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(selectRun+` ORDER BY started_at DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []*entity.ConversionRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*entity.ConversionRun, error) {
	var (
		run        entity.ConversionRun
		id         string
		startedAt  string
		finishedAt sql.NullString
		errMsg     sql.NullString
	)
	if err := s.Scan(&id, &run.SourcePath, &run.OutputPath, &run.Language, &run.Status,
		&run.Strategy, &run.Provider, &run.PageCount, &run.ProductCount,
		&startedAt, &finishedAt, &errMsg); err != nil {
		return nil, err
	}
	var err error
	if run.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if run.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		t, err := time.Parse(timeLayout, finishedAt.String)
		if err != nil {
			return nil, err
		}
		run.FinishedAt = &t
	}
	if errMsg.Valid {
		run.ErrorMessage = &errMsg.String
	}
	return &run, nil
}
