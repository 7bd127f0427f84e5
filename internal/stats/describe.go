package stats

import (
	"math"
	"sort"

	"csvreport/internal/dataset"
)

// NumericSummary holds descriptive statistics for one numeric column.
type NumericSummary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// CategoricalSummary holds descriptive statistics for one non-numeric
// column.
type CategoricalSummary struct {
	Column string
	Count  int
	Unique int
	Top    string
	Freq   int
}

// DescribeNumeric computes count, mean, std, min, quartiles and max for
// every numeric column, in column order. Columns whose values all fail to
// parse yield a zero-count summary.
func DescribeNumeric(t *dataset.Table) []NumericSummary {
	summaries := []NumericSummary{}
	for _, colIdx := range t.NumericColumnIndices() {
		values := t.Float64s(colIdx)
		s := NumericSummary{Column: t.Headers[colIdx], Count: len(values)}
		if len(values) > 0 {
			sorted := append([]float64(nil), values...)
			sort.Float64s(sorted)

			s.Min = sorted[0]
			s.Max = sorted[len(sorted)-1]
			s.Q1 = quantile(sorted, 0.25)
			s.Median = quantile(sorted, 0.5)
			s.Q3 = quantile(sorted, 0.75)

			sum := 0.0
			for _, v := range values {
				sum += v
			}
			s.Mean = sum / float64(len(values))

			if len(values) > 1 {
				sqDiff := 0.0
				for _, v := range values {
					d := v - s.Mean
					sqDiff += d * d
				}
				// Sample standard deviation (n-1 denominator).
				s.Std = math.Sqrt(sqDiff / float64(len(values)-1))
			}
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// quantile interpolates linearly between closest ranks, on an already
// sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// DescribeCategorical computes count, unique, top value and its frequency
// for every non-numeric column, in column order.
func DescribeCategorical(t *dataset.Table) []CategoricalSummary {
	summaries := []CategoricalSummary{}
	for _, colIdx := range t.CategoricalColumnIndices() {
		counts := t.ValueCounts(colIdx)
		s := CategoricalSummary{
			Column: t.Headers[colIdx],
			Count:  t.NumRows() - t.Columns[colIdx].Missing,
			Unique: len(counts),
		}
		if len(counts) > 0 {
			s.Top = counts[0].Value
			s.Freq = counts[0].Count
		}
		summaries = append(summaries, s)
	}
	return summaries
}
