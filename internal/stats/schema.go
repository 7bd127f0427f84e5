package stats

import (
	"fmt"
	"strings"

	"csvreport/internal/dataset"
)

// SchemaInfo formats a human-readable column/type/null summary for the
// table, in the spirit of a dataframe info dump.
func SchemaInfo(t *dataset.Table) string {
	var b strings.Builder

	b.WriteString("<class 'dataset.Table'>\n")
	fmt.Fprintf(&b, "RangeIndex: %d entries\n", t.NumRows())
	fmt.Fprintf(&b, "Data columns (total %d columns):\n", t.NumColumns())

	nameWidth := len("Column")
	for _, col := range t.Columns {
		if len(col.Name) > nameWidth {
			nameWidth = len(col.Name)
		}
	}

	fmt.Fprintf(&b, " #   %-*s  %-14s  %s\n", nameWidth, "Column", "Non-Null Count", "Dtype")
	fmt.Fprintf(&b, "---  %s  %s  %s\n",
		strings.Repeat("-", nameWidth), strings.Repeat("-", 14), strings.Repeat("-", 11))

	typeCounts := map[string]int{}
	for i, col := range t.Columns {
		nonNull := t.NumRows() - col.Missing
		fmt.Fprintf(&b, "%3d  %-*s  %-14s  %s\n",
			i, nameWidth, col.Name, fmt.Sprintf("%d non-null", nonNull), col.Kind.String())
		typeCounts[col.Kind.String()]++
	}

	parts := []string{}
	for _, kind := range []string{"numeric", "categorical", "datetime"} {
		if n := typeCounts[kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s(%d)", kind, n))
		}
	}
	fmt.Fprintf(&b, "dtypes: %s\n", strings.Join(parts, ", "))
	fmt.Fprintf(&b, "memory usage: %s\n", formatBytes(approxMemoryUsage(t)))

	return b.String()
}

// approxMemoryUsage is the byte length of all cell and header text.
func approxMemoryUsage(t *dataset.Table) int {
	total := 0
	for _, h := range t.Headers {
		total += len(h)
	}
	for _, row := range t.Rows {
		for _, cell := range row {
			total += len(cell)
		}
	}
	return total
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
