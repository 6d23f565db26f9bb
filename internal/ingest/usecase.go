package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/catalog-cards/internal/async"
)

// Usecase feeds PDFs to a converter, skipping files whose content was
// already converted during this process' lifetime.
type Usecase struct {
	Convert ConvertFunc
	Logger  *slog.Logger

	mu   sync.Mutex
	seen map[string]string // sha256 hex -> first path
}

func NewUsecase(convert ConvertFunc, logger *slog.Logger) *Usecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &Usecase{Convert: convert, Logger: logger, seen: map[string]string{}}
}

// IngestPath converts one file unless identical content was seen before.
func (u *Usecase) IngestPath(ctx context.Context, path string) (Result, error) {
	out := Result{Path: path}

	abs, err := filepath.Abs(path)
	if err != nil {
		return out, fmt.Errorf("abs path: %w", err)
	}
	out.Path = abs
	if !AllowedExt(filepath.Ext(abs)) {
		return out, fmt.Errorf("unsupported or missing extension: %q", filepath.Ext(abs))
	}

	sum, err := hashFile(abs)
	if err != nil {
		return out, fmt.Errorf("hash: %w", err)
	}
	out.HashHex = sum

	u.mu.Lock()
	first, dup := u.seen[sum]
	if !dup {
		u.seen[sum] = abs
	}
	u.mu.Unlock()
	if dup {
		u.Logger.Info("ingest.dedup", "path", abs, "same_as", first)
		out.Deduplicated = true
		return out, nil
	}

	if err := u.Convert(ctx, abs); err != nil {
		// allow a retry once the file is fixed
		u.mu.Lock()
		delete(u.seen, sum)
		u.mu.Unlock()
		return out, err
	}
	return out, nil
}

// IngestDirectory walks root and ingests every allowed file. Per-file
// failures are recorded and the walk continues.
func (u *Usecase) IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]Result, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root_path is required")
	}

	var results []Result
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, Result{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		res, err := u.IngestPath(ctx, path)
		if err != nil {
			res.Err = err.Error()
			results = append(results, res)
			stats.Failed++
			return nil
		}
		results = append(results, res)
		stats.Succeeded++
		if res.Deduplicated {
			stats.Deduplicated++
		}
		return nil
	})
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	return results, stats, nil
}

// Watch queues existing files under roots and then every new or rewritten
// PDF until ctx is cancelled. The queue's workers are expected to call
// IngestPath.
func (u *Usecase) Watch(ctx context.Context, roots []string, debounce time.Duration, q async.Queue) error {
	events, errs, err := StartWatcher(ctx, WatchConfig{
		Roots:       roots,
		InitialScan: true,
		Debounce:    debounce,
		Logger:      u.Logger,
	})
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-events:
			if !ok {
				return nil
			}
			job := async.Job{Path: path, SubmittedAt: time.Now(), TraceID: uuid.NewString()}
			if err := q.Enqueue(ctx, job); err != nil {
				if errors.Is(err, async.ErrQueueClosed) || ctx.Err() != nil {
					return nil
				}
				u.Logger.Error("ingest.enqueue.failed", "path", path, "error", err)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			u.Logger.Warn("ingest.watch.error", "error", err)
		}
	}
}
