package render

import (
	"errors"
	"image/color"

	"csvreport/internal/dataset"
)

var (
	missingCellColor = color.RGBA{R: 68, G: 1, B: 84, A: 255}
	presentCellColor = color.RGBA{R: 233, G: 233, B: 238, A: 255}
	labelColor       = color.RGBA{R: 40, G: 40, B: 40, A: 255}
)

// MissingnessMatrix renders a row-by-column grid where missing cells are
// drawn dark. Rows are mapped proportionally onto the plot height, so
// large tables compress into bands.
func MissingnessMatrix(t *dataset.Table) ([]byte, error) {
	nRows, nCols := t.NumRows(), t.NumColumns()
	if nRows == 0 || nCols == 0 {
		return nil, errors.New("missingness matrix: empty table")
	}

	const (
		width   = 900
		height  = 480
		top     = 36
		left    = 40
		plotW   = width - left - 20
		plotH   = 380
		labelY0 = top + plotH + 18
	)

	s := NewSurface(width, height)
	s.Text(left, 20, labelColor, "Missing Values by Cell")

	colX := func(c int) int { return left + c*plotW/nCols }
	rowY := func(r int) int { return top + r*plotH/nRows }

	for c := 0; c < nCols; c++ {
		x0, x1 := colX(c), colX(c+1)
		if x1 <= x0 {
			x1 = x0 + 1
		}
		// Base fill for the column, then overlay missing bands.
		s.FillRect(x0, top, x1-1, top+plotH, presentCellColor)

		for r, row := range t.Rows {
			if !dataset.IsMissing(row[c]) {
				continue
			}
			y0, y1 := rowY(r), rowY(r+1)
			if y1 <= y0 {
				y1 = y0 + 1
			}
			s.FillRect(x0, y0, x1-1, y1, missingCellColor)
		}

		label := truncate(t.Headers[c], (x1-x0)/7)
		if label != "" {
			s.Text(x0, labelY0, labelColor, label)
		}
	}

	return s.EncodePNG()
}
