package render

import (
	"errors"
	"image/color"
	"math"
	"strconv"

	"csvreport/internal/stats"
)

var (
	positiveColor = color.RGBA{R: 178, G: 24, B: 43, A: 255}
	negativeColor = color.RGBA{R: 33, G: 102, B: 172, A: 255}
	nanCellColor  = color.RGBA{R: 210, G: 210, B: 210, A: 255}
)

// CorrelationHeatmap renders the matrix as an annotated grid: one cell
// per column pair, colored by sign and strength, with the coefficient
// printed when the cell is large enough to hold it.
func CorrelationHeatmap(m *stats.CorrMatrix) ([]byte, error) {
	n := len(m.Columns)
	if n < 2 {
		return nil, errors.New("correlation heatmap: need at least 2 numeric columns")
	}

	const (
		plotSize = 560
		left     = 110
		top      = 36
	)
	width := left + plotSize + 20
	height := top + plotSize + 40

	s := NewSurface(width, height)
	s.Text(left, 20, labelColor, "Correlation Matrix")

	cell := plotSize / n
	if cell < 1 {
		cell = 1
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x0 := left + j*cell
			y0 := top + i*cell
			r := m.Values[i][j]
			s.FillRect(x0, y0, x0+cell-1, y0+cell-1, heatColor(r))

			if cell >= 30 && !math.IsNaN(r) {
				text := strconv.FormatFloat(math.Round(r*100)/100, 'f', 2, 64)
				tx := x0 + (cell-s.TextWidth(text))/2
				ty := y0 + cell/2 + 4
				s.Text(tx, ty, annotationColor(r), text)
			}
		}

		// Row label on the left, column label underneath the grid.
		rowLabel := truncate(m.Columns[i], 14)
		s.Text(left-6-s.TextWidth(rowLabel), top+i*cell+cell/2+4, labelColor, rowLabel)
		colLabel := truncate(m.Columns[i], cell/7)
		if colLabel != "" {
			s.Text(left+i*cell+2, top+n*cell+16, labelColor, colLabel)
		}
	}

	return s.EncodePNG()
}

// heatColor maps a coefficient in [-1, 1] onto a white-to-red (positive)
// or white-to-blue (negative) ramp. NaN cells are gray.
func heatColor(r float64) color.Color {
	if math.IsNaN(r) {
		return nanCellColor
	}
	if r > 1 {
		r = 1
	}
	if r < -1 {
		r = -1
	}

	base := positiveColor
	mag := r
	if r < 0 {
		base = negativeColor
		mag = -r
	}
	lerp := func(from uint8, to uint8) uint8 {
		return uint8(float64(from) + (float64(to)-float64(from))*mag)
	}
	return color.RGBA{
		R: lerp(255, base.R),
		G: lerp(255, base.G),
		B: lerp(255, base.B),
		A: 255,
	}
}

// annotationColor keeps coefficient text readable on saturated cells.
func annotationColor(r float64) color.Color {
	if math.Abs(r) > 0.6 {
		return color.White
	}
	return labelColor
}
