package dataset

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind tags the inferred type of a column. Every downstream statistic and
// chart switches on this tag instead of re-inspecting cell contents.
type Kind int

const (
	KindNumeric Kind = iota
	KindCategorical
	KindDatetime
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindDatetime:
		return "datetime"
	default:
		return "categorical"
	}
}

// Column holds the classification result for one column.
type Column struct {
	Name     string
	Kind     Kind
	Missing  int
	Distinct int
}

// Table is an immutable in-memory dataset: a header row plus data rows,
// classified once at construction. All rows have exactly len(Headers)
// fields.
type Table struct {
	Headers []string
	Rows    [][]string
	Columns []Column
}

// Values treated as missing cells, matching common CSV null markers.
var missingMarkers = map[string]bool{
	"":     true,
	"null": true,
	"NULL": true,
	"None": true,
	"NaN":  true,
	"nan":  true,
	"na":   true,
	"NA":   true,
	"N/A":  true,
}

// IsMissing reports whether a cell value counts as a missing value.
func IsMissing(val string) bool {
	return missingMarkers[val]
}

// NewTable builds a Table from a header and data rows. Rows shorter than
// the header are padded with empty cells; longer rows are truncated.
// Classification runs once here; the table is immutable afterwards.
func NewTable(headers []string, rows [][]string) *Table {
	width := len(headers)
	normalized := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) == width {
			normalized[i] = row
			continue
		}
		fixed := make([]string, width)
		copy(fixed, row)
		normalized[i] = fixed
	}

	t := &Table{Headers: headers, Rows: normalized}
	t.classify()
	return t
}

const typeSampleSize = 20

// classify assigns a Kind to every column and records missing/distinct
// counts. Numeric wins if the first typeSampleSize non-missing values all
// parse as floats; datetime if the first few parse as dates; everything
// else is categorical.
func (t *Table) classify() {
	t.Columns = make([]Column, len(t.Headers))
	for colIdx, name := range t.Headers {
		col := Column{Name: name, Kind: KindCategorical}

		distinct := make(map[string]bool)
		sampled := 0
		numeric := true
		sawValue := false
		for _, row := range t.Rows {
			val := row[colIdx]
			if IsMissing(val) {
				col.Missing++
				continue
			}
			distinct[val] = true
			if sampled < typeSampleSize {
				sampled++
				sawValue = true
				if numeric {
					if _, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err != nil {
						numeric = false
					}
				}
			}
		}
		col.Distinct = len(distinct)

		if sawValue && numeric {
			col.Kind = KindNumeric
		} else if t.isDateColumn(colIdx) {
			col.Kind = KindDatetime
		}
		t.Columns[colIdx] = col
	}
}

var dateFormats = []string{
	time.RFC3339, "2006-01-02", "02/01/2006", "01/02/2006",
	"2006/01/02", "Jan 2, 2006", "January 2, 2006",
}

func (t *Table) isDateColumn(colIdx int) bool {
	checked := 0
	for _, row := range t.Rows {
		if checked >= 5 {
			break
		}
		val := row[colIdx]
		if IsMissing(val) {
			continue
		}
		checked++
		for _, format := range dateFormats {
			if _, err := time.Parse(format, val); err == nil {
				return true
			}
		}
	}
	return false
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.Headers) }

// TotalMissing returns the count of missing cells across the whole table.
func (t *Table) TotalMissing() int {
	total := 0
	for _, col := range t.Columns {
		total += col.Missing
	}
	return total
}

// NumericColumnIndices returns indices of numeric columns in column order.
func (t *Table) NumericColumnIndices() []int {
	var indices []int
	for i, col := range t.Columns {
		if col.Kind == KindNumeric {
			indices = append(indices, i)
		}
	}
	return indices
}

// CategoricalColumnIndices returns indices of non-numeric columns in
// column order. Datetime columns count as categorical for descriptive
// statistics, same as string columns.
func (t *Table) CategoricalColumnIndices() []int {
	var indices []int
	for i, col := range t.Columns {
		if col.Kind != KindNumeric {
			indices = append(indices, i)
		}
	}
	return indices
}

// Float64s returns the parsed non-missing values of a column. Values that
// fail to parse are skipped.
func (t *Table) Float64s(colIdx int) []float64 {
	values := []float64{}
	for _, row := range t.Rows {
		val := row[colIdx]
		if IsMissing(val) {
			continue
		}
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			values = append(values, parsed)
		}
	}
	return values
}

// DuplicateRowCount returns the number of rows that exactly repeat an
// earlier row. The first occurrence is not counted.
func (t *Table) DuplicateRowCount() int {
	seen := make(map[string]bool, len(t.Rows))
	duplicates := 0
	for _, row := range t.Rows {
		key := strings.Join(row, "\x1f")
		if seen[key] {
			duplicates++
		} else {
			seen[key] = true
		}
	}
	return duplicates
}

// ValueCounts returns the distinct non-missing values of a column with
// their frequencies, ordered by descending count. Ties keep first-seen
// order.
func (t *Table) ValueCounts(colIdx int) []ValueCount {
	counts := make(map[string]int)
	order := []string{}
	for _, row := range t.Rows {
		val := row[colIdx]
		if IsMissing(val) {
			continue
		}
		if counts[val] == 0 {
			order = append(order, val)
		}
		counts[val]++
	}

	result := make([]ValueCount, len(order))
	for i, val := range order {
		result[i] = ValueCount{Value: val, Count: counts[val]}
	}
	// Stable sort keeps first-seen order for equal counts.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}

// ValueCount pairs a distinct cell value with its frequency.
type ValueCount struct {
	Value string
	Count int
}
