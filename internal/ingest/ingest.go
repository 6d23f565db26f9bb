package ingest

import "context"

// ConvertFunc converts a single PDF.
type ConvertFunc func(ctx context.Context, path string) error

// Result is the per-file ingest outcome.
type Result struct {
	Path         string
	HashHex      string
	Deduplicated bool
	Err          string
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}
