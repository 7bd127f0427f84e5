package stats

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
)

// Placeholder messages substituted when a describe table would be empty.
const (
	NoNumericPlaceholder     = "<p>No numeric columns.</p>"
	NoCategoricalPlaceholder = "<p>No categorical columns.</p>"
)

const tableOpenTag = `<table border="0" class="dataframe table table-striped table-bordered">`

// NumericStatsHTML renders numeric summaries as an HTML table with one
// column per dataset column and one row per statistic, values rounded to
// two decimal places. Returns the placeholder when there are no numeric
// columns.
func NumericStatsHTML(summaries []NumericSummary) string {
	if len(summaries) == 0 {
		return NoNumericPlaceholder
	}

	statNames := []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}
	rows := make([][]string, len(statNames))
	for i := range rows {
		rows[i] = make([]string, len(summaries))
	}
	for j, s := range summaries {
		rows[0][j] = strconv.Itoa(s.Count)
		for i, v := range []float64{s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max} {
			rows[i+1][j] = strconv.FormatFloat(round2(v), 'f', 2, 64)
		}
	}

	headers := make([]string, len(summaries))
	for j, s := range summaries {
		headers[j] = s.Column
	}
	return renderTable(headers, statNames, rows)
}

// CategoricalStatsHTML renders categorical summaries as an HTML table
// with one column per dataset column and count/unique/top/freq rows.
// Returns the placeholder when there are no categorical columns.
func CategoricalStatsHTML(summaries []CategoricalSummary) string {
	if len(summaries) == 0 {
		return NoCategoricalPlaceholder
	}

	statNames := []string{"count", "unique", "top", "freq"}
	rows := make([][]string, len(statNames))
	for i := range rows {
		rows[i] = make([]string, len(summaries))
	}
	for j, s := range summaries {
		rows[0][j] = strconv.Itoa(s.Count)
		rows[1][j] = strconv.Itoa(s.Unique)
		rows[2][j] = s.Top
		rows[3][j] = strconv.Itoa(s.Freq)
	}

	headers := make([]string, len(summaries))
	for j, s := range summaries {
		headers[j] = s.Column
	}
	return renderTable(headers, statNames, rows)
}

// renderTable builds a dataframe-style HTML table: an empty corner cell,
// column headers, and one labeled row per statistic.
func renderTable(headers, rowLabels []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(tableOpenTag)
	b.WriteString("\n<thead>\n<tr><th></th>")
	for _, h := range headers {
		fmt.Fprintf(&b, "<th>%s</th>", html.EscapeString(h))
	}
	b.WriteString("</tr>\n</thead>\n<tbody>\n")
	for i, label := range rowLabels {
		fmt.Fprintf(&b, "<tr><th>%s</th>", html.EscapeString(label))
		for _, cell := range rows[i] {
			fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(cell))
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>")
	return b.String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
