package stats

import (
	"math"
	"strconv"
	"strings"

	"csvreport/internal/dataset"
)

// CorrMatrix is a symmetric Pearson correlation matrix across numeric
// columns. Values[i][j] is the coefficient between Columns[i] and
// Columns[j]; pairs with no overlapping complete rows are NaN.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64
}

// CorrelationMatrix computes pairwise Pearson correlations among the
// numeric columns, using rows where both values are present and parseable.
func CorrelationMatrix(t *dataset.Table) *CorrMatrix {
	indices := t.NumericColumnIndices()

	m := &CorrMatrix{
		Columns: make([]string, len(indices)),
		Values:  make([][]float64, len(indices)),
	}
	for i, colIdx := range indices {
		m.Columns[i] = t.Headers[colIdx]
		m.Values[i] = make([]float64, len(indices))
	}

	for i := range indices {
		m.Values[i][i] = 1
		for j := i + 1; j < len(indices); j++ {
			x, y := pairwiseComplete(t, indices[i], indices[j])
			r := pearson(x, y)
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

// pairwiseComplete extracts value pairs from rows where both columns hold
// a parseable number.
func pairwiseComplete(t *dataset.Table, colA, colB int) ([]float64, []float64) {
	var x, y []float64
	for _, row := range t.Rows {
		a, b := row[colA], row[colB]
		if dataset.IsMissing(a) || dataset.IsMissing(b) {
			continue
		}
		va, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
		vb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
		if errA != nil || errB != nil {
			continue
		}
		x = append(x, va)
		y = append(y, vb)
	}
	return x, y
}

func pearson(x, y []float64) float64 {
	n := float64(len(x))
	if n == 0 {
		return math.NaN()
	}

	sumX, sumY, sumXY, sumX2, sumY2 := 0.0, 0.0, 0.0, 0.0, 0.0
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
		sumY2 += y[i] * y[i]
	}

	num := n*sumXY - sumX*sumY
	den := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if den == 0 {
		return math.NaN()
	}
	return num / den
}
