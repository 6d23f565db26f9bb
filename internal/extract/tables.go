package extract

import (
	"strings"

	"github.com/joseph-ayodele/catalog-cards/internal/entity"
)

const (
	// Horizontal gap, in points, that separates two table cells.
	defaultCellGap = 12.0
	minTableRows   = 2
	minTableCols   = 2
)

// cells splits a row into gap-separated cells. Runs closer than a space
// width are glued, runs further apart than a space but closer than cellGap
// are joined with a single space.
func cells(row Row, cellGap float64) []string {
	var out []string
	var cur strings.Builder
	var end float64
	for i, r := range row.Runs {
		if i > 0 {
			gap := r.X - end
			switch {
			case gap >= cellGap:
				out = append(out, strings.TrimSpace(cur.String()))
				cur.Reset()
			case gap > spaceWidth(r) && !strings.HasSuffix(cur.String(), " ") && !strings.HasPrefix(r.S, " "):
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(r.S)
		if e := r.X + r.W; e > end || i == 0 {
			end = e
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" || len(out) > 0 {
		out = append(out, s)
	}
	return out
}

func spaceWidth(r TextRun) float64 {
	if r.FontSize > 0 {
		return r.FontSize * 0.25
	}
	return 2
}

// detectTables groups consecutive multi-cell rows into grids. Ragged rows are
// kept as they are; nothing is normalized.
func detectTables(rows []Row, cellGap float64) []entity.Table {
	if cellGap <= 0 {
		cellGap = defaultCellGap
	}
	var tables []entity.Table
	var run entity.Table
	flush := func() {
		if len(run) >= minTableRows {
			tables = append(tables, run)
		}
		run = nil
	}
	for _, row := range rows {
		c := cells(row, cellGap)
		if len(c) >= minTableCols {
			run = append(run, c)
			continue
		}
		flush()
	}
	flush()
	return tables
}

// rowsText rebuilds plain text from rows, cells separated by three spaces.
func rowsText(rows []Row, cellGap float64) string {
	if cellGap <= 0 {
		cellGap = defaultCellGap
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, strings.Join(cells(row, cellGap), "   "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
