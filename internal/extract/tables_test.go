package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/catalog-cards/internal/entity"
)

func glyphs(x, y float64, s string) []TextRun {
	runs := make([]TextRun, 0, len(s))
	for i, r := range s {
		runs = append(runs, TextRun{X: x + float64(i)*5, Y: y, W: 5, FontSize: 10, S: string(r)})
	}
	return runs
}

func TestCellsMergesGlyphs(t *testing.T) {
	row := Row{Y: 700}
	row.Runs = append(row.Runs, glyphs(50, 700, "Model")...)
	row.Runs = append(row.Runs, glyphs(200, 700, "Price")...)
	assert.Equal(t, []string{"Model", "Price"}, cells(row, defaultCellGap))
}

func TestCellsInsertsWordSpaces(t *testing.T) {
	row := Row{Y: 700}
	row.Runs = append(row.Runs, glyphs(50, 700, "Flow")...)
	row.Runs = append(row.Runs, glyphs(50+4*5+5, 700, "rate")...)
	assert.Equal(t, []string{"Flow rate"}, cells(row, defaultCellGap))
}

func TestDetectTablesRaggedRuns(t *testing.T) {
	mk := func(y float64, cols ...string) Row {
		r := Row{Y: y}
		for i, c := range cols {
			r.Runs = append(r.Runs, TextRun{X: 50 + float64(i)*120, W: float64(len(c)) * 5, FontSize: 10, S: c})
		}
		return r
	}
	rows := []Row{
		mk(750, "Catalog 2024"),
		mk(700, "Model", "Flow", "Head"),
		mk(686, "P-10", "12"),
		mk(672, "P-20", "18", "40"),
		mk(600, "Footer text"),
		mk(500, "lonely", "row"),
	}
	tables := detectTables(rows, 0)
	require.Len(t, tables, 1)
	assert.Equal(t, entity.Table{
		{"Model", "Flow", "Head"},
		{"P-10", "12"},
		{"P-20", "18", "40"},
	}, tables[0])
}

func TestRowsText(t *testing.T) {
	rows := []Row{
		{Y: 700, Runs: glyphs(50, 700, "Pumps")},
		{Y: 680, Runs: append(glyphs(50, 680, "A"), glyphs(150, 680, "B")...)},
	}
	assert.Equal(t, "Pumps\nA   B", rowsText(rows, 0))
	assert.Equal(t, "", rowsText(nil, 0))
}

func TestParseBBoxLayoutMultiline(t *testing.T) {
	xhtml := `<!DOCTYPE html><html><head><title></title></head><body><doc><page width="612.000000" height="792.000000"><flow>
<block xMin="56.8" yMin="71.2" xMax="300.1" yMax="110.4">
<line xMin="56.8" yMin="71.2" xMax="300.1" yMax="85"><word>Series</word><word>X</word></line>
<line xMin="56.8" yMin="90" xMax="200" yMax="110.4"><word>Pumps</word></line>
</block>
<block xMin="56.8" yMin="400" xMax="90" yMax="410"><line><word>A100</word></line></block>
</flow></page></doc></body></html>`
	blocks, err := parseBBoxLayout(xhtml)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "Series X\nPumps", blocks[0].Text)
	assert.Equal(t, 56.8, blocks[0].X0)
	assert.Equal(t, 110.4, blocks[0].Y1)
	assert.Equal(t, "A100", blocks[1].Text)
}

func TestCountBlocks(t *testing.T) {
	text, images, err := countBlocks(`<div id="page0"><p>One</p><p> </p><p>Two</p><img src="data:image/png;base64,AA=="></div>`)
	require.NoError(t, err)
	assert.Equal(t, 2, text)
	assert.Equal(t, 1, images)
}
