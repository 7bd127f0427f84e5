package render

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"csvreport/internal/dataset"
)

// EligibleDistinctMax is the distinct-value cutoff above which a
// categorical column is excluded from frequency charting.
const EligibleDistinctMax = 20

const (
	maxNumericPlots     = 9
	numericPerRow       = 3
	maxCategoricalPlots = 6
	categoricalPerRow   = 2
	topValueLimit       = 10
	histogramBins       = 10
)

var (
	histBarColor = drawing.Color{R: 69, G: 117, B: 180, A: 255}
	catBarColor  = drawing.Color{R: 94, G: 158, B: 110, A: 255}
)

// NumericDistributions renders one histogram per numeric column, capped
// at the first maxNumericPlots columns in column order, composited into a
// three-per-row grid. Columns whose values all fail to parse are skipped.
func NumericDistributions(t *dataset.Table) ([]byte, error) {
	indices := t.NumericColumnIndices()
	if len(indices) > maxNumericPlots {
		indices = indices[:maxNumericPlots]
	}

	const tileW, tileH = 300, 220
	tiles := []image.Image{}
	for _, colIdx := range indices {
		values := t.Float64s(colIdx)
		if len(values) == 0 {
			continue
		}
		tile, err := histogramTile(t.Headers[colIdx], values, tileW, tileH)
		if err != nil {
			return nil, err
		}
		tiles = append(tiles, tile)
	}

	return composeGrid(tiles, numericPerRow, tileW, tileH)
}

// CategoricalDistributions renders a top-value frequency chart per
// eligible categorical column (fewer than eligibleDistinctMax distinct
// values), capped at the first maxCategoricalPlots eligible columns, two
// per row. Each chart shows at most topValueLimit values by descending
// frequency.
func CategoricalDistributions(t *dataset.Table) ([]byte, error) {
	const tileW, tileH = 440, 250
	tiles := []image.Image{}
	for _, colIdx := range t.CategoricalColumnIndices() {
		if len(tiles) >= maxCategoricalPlots {
			break
		}
		col := t.Columns[colIdx]
		if col.Distinct == 0 || col.Distinct >= EligibleDistinctMax {
			continue
		}

		counts := topValues(t.ValueCounts(colIdx))
		tile, err := frequencyTile(t.Headers[colIdx], counts, tileW, tileH)
		if err != nil {
			return nil, err
		}
		tiles = append(tiles, tile)
	}

	return composeGrid(tiles, categoricalPerRow, tileW, tileH)
}

func histogramTile(name string, values []float64, width, height int) (image.Image, error) {
	bars := histogramBars(values, histogramBins)
	bc := chart.BarChart{
		Title:        truncate(name, 24),
		TitleStyle:   chart.Style{FontSize: 9},
		Width:        width,
		Height:       height,
		BarWidth:     fitBarWidth(width, len(bars)),
		BarSpacing:   4,
		UseBaseValue: true,
		BaseValue:    0,
		XAxis:        chart.Style{FontSize: 7},
		YAxis:        chart.YAxis{Style: chart.Style{FontSize: 7}},
		Bars:         bars,
	}
	return renderBarChart(bc)
}

func frequencyTile(name string, counts []dataset.ValueCount, width, height int) (image.Image, error) {
	style := chart.Style{FillColor: catBarColor, StrokeColor: catBarColor}
	bars := make([]chart.Value, len(counts))
	for i, vc := range counts {
		bars[i] = chart.Value{
			Value: float64(vc.Count),
			Label: truncate(vc.Value, 8),
			Style: style,
		}
	}

	bc := chart.BarChart{
		Title:        truncate(name, 32),
		TitleStyle:   chart.Style{FontSize: 9},
		Width:        width,
		Height:       height,
		BarWidth:     fitBarWidth(width, len(bars)),
		BarSpacing:   6,
		UseBaseValue: true,
		BaseValue:    0,
		XAxis:        chart.Style{FontSize: 7},
		YAxis:        chart.YAxis{Style: chart.Style{FontSize: 7}},
		Bars:         bars,
	}
	return renderBarChart(bc)
}

func renderBarChart(bc chart.BarChart) (image.Image, error) {
	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

// histogramBars buckets values into equal-width bins labeled by their
// lower edge. A constant column collapses into a single bar.
func histogramBars(values []float64, binCount int) []chart.Value {
	style := chart.Style{FillColor: histBarColor, StrokeColor: histBarColor}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	if minV == maxV {
		return []chart.Value{{
			Value: float64(len(values)),
			Label: formatEdge(minV),
			Style: style,
		}}
	}

	binWidth := (maxV - minV) / float64(binCount)
	counts := make([]int, binCount)
	for _, v := range values {
		bin := int((v - minV) / binWidth)
		if bin >= binCount {
			bin = binCount - 1
		}
		counts[bin]++
	}

	bars := make([]chart.Value, binCount)
	for i, c := range counts {
		bars[i] = chart.Value{
			Value: float64(c),
			Label: formatEdge(minV + float64(i)*binWidth),
			Style: style,
		}
	}
	return bars
}

// topValues caps a frequency list at the per-chart value limit. The
// input is already ordered by descending count.
func topValues(counts []dataset.ValueCount) []dataset.ValueCount {
	if len(counts) > topValueLimit {
		return counts[:topValueLimit]
	}
	return counts
}

func formatEdge(v float64) string {
	return strconv.FormatFloat(v, 'g', 3, 64)
}

func fitBarWidth(tileWidth, barCount int) int {
	if barCount == 0 {
		return 1
	}
	w := (tileWidth-90)/barCount - 6
	if w < 4 {
		w = 4
	}
	if w > 46 {
		w = 46
	}
	return w
}

// composeGrid lays tiles row by row into a fixed-width grid. Grid cells
// beyond the last tile stay blank.
func composeGrid(tiles []image.Image, perRow, tileW, tileH int) ([]byte, error) {
	if len(tiles) == 0 {
		return nil, errors.New("no tiles to compose")
	}
	rows := (len(tiles) + perRow - 1) / perRow
	cols := perRow
	if len(tiles) < perRow {
		cols = len(tiles)
	}

	s := NewSurface(cols*tileW, rows*tileH)
	for i, tile := range tiles {
		s.DrawImage((i%perRow)*tileW, (i/perRow)*tileH, tile)
	}
	return s.EncodePNG()
}
