package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/catalog-cards/internal/async"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
	fail  map[string]bool
}

func (r *recorder) convert(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, filepath.Base(path))
	if r.fail[filepath.Base(path)] {
		return errors.New("broken pdf")
	}
	return nil
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIngestDirectory(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "a.pdf"), "%PDF-a")
	write(t, filepath.Join(root, "copy-of-a.PDF"), "%PDF-a")
	write(t, filepath.Join(root, "sub", "b.pdf"), "%PDF-b")
	write(t, filepath.Join(root, "broken.pdf"), "%PDF-broken")
	write(t, filepath.Join(root, "notes.txt"), "ignore me")
	write(t, filepath.Join(root, ".cache", "c.pdf"), "%PDF-c")

	rec := &recorder{fail: map[string]bool{"broken.pdf": true}}
	u := NewUsecase(rec.convert, nil)

	results, stats, err := u.IngestDirectory(context.Background(), root, true)
	require.NoError(t, err)

	assert.Equal(t, uint32(4), stats.Matched)
	assert.Equal(t, uint32(3), stats.Succeeded)
	assert.Equal(t, uint32(1), stats.Deduplicated)
	assert.Equal(t, uint32(1), stats.Failed)
	assert.Len(t, results, 4)
	assert.ElementsMatch(t, []string{"a.pdf", "b.pdf", "broken.pdf"}, rec.seen())

	for _, r := range results {
		assert.Len(t, r.HashHex, 64)
	}
}

func TestIngestPathRetriesAfterFailure(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "broken.pdf")
	write(t, path, "%PDF")

	rec := &recorder{fail: map[string]bool{"broken.pdf": true}}
	u := NewUsecase(rec.convert, nil)

	_, err := u.IngestPath(context.Background(), path)
	require.Error(t, err)
	_, err = u.IngestPath(context.Background(), path)
	require.Error(t, err)
	assert.Len(t, rec.seen(), 2)

	_, err = u.IngestPath(context.Background(), filepath.Join(root, "notes.txt"))
	assert.ErrorContains(t, err, "unsupported")
}

func TestWatcherEmitsExistingAndNewFiles(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "existing.pdf"), "%PDF-1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{root}, InitialScan: true, Debounce: 50 * time.Millisecond})
	require.NoError(t, err)

	next := func() string {
		select {
		case p := <-events:
			return filepath.Base(p)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for watcher event")
			return ""
		}
	}

	assert.Equal(t, "existing.pdf", next())

	write(t, filepath.Join(root, "skip.txt"), "x")
	write(t, filepath.Join(root, "new.pdf"), "%PDF-2")
	assert.Equal(t, "new.pdf", next())

	cancel()
	for range events {
	}
}

func TestStartWatcherRequiresRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{})
	assert.Error(t, err)
}

func TestWatchFeedsQueue(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "first.pdf"), "%PDF-1")

	rec := &recorder{}
	u := NewUsecase(rec.convert, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q := async.NewProcessorQueue(ctx, func(ctx context.Context, path string) error {
		_, err := u.IngestPath(ctx, path)
		return err
	}, nil)

	done := make(chan error, 1)
	go func() { done <- u.Watch(ctx, []string{root}, 20*time.Millisecond, q) }()

	require.Eventually(t, func() bool { return len(rec.seen()) == 1 }, 5*time.Second, 10*time.Millisecond)

	write(t, filepath.Join(root, "second.pdf"), "%PDF-2")
	require.Eventually(t, func() bool { return len(rec.seen()) == 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	q.Shutdown(context.Background())
	assert.ElementsMatch(t, []string{"first.pdf", "second.pdf"}, rec.seen())
}
