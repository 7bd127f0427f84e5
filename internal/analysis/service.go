package analysis

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"csvreport/internal/dataset"
	"csvreport/internal/models"
	"csvreport/internal/render"
	"csvreport/internal/stats"
)

// ReportService turns uploaded bytes into a full Report: shape counts,
// descriptive statistics tables, schema info and diagnostic charts. It
// holds no per-request state; every call builds its own table.
type ReportService struct {
	log *zap.SugaredLogger
}

func NewReportService(log *zap.SugaredLogger) *ReportService {
	return &ReportService{log: log}
}

// Generate parses raw delimited-text bytes and produces a Report. A parse
// failure returns a *dataset.ParseError; other failures abort the whole
// report. Individual chart failures never do — they are logged and the
// chart key is omitted.
func (s *ReportService) Generate(filename string, data []byte) (models.Report, error) {
	table, err := dataset.ParseCSV(bytes.NewReader(data))
	if err != nil {
		return models.Report{}, err
	}
	return s.build(filename, table)
}

// GenerateFromRecords produces a Report from already-decoded records,
// e.g. a database table preview.
func (s *ReportService) GenerateFromRecords(name string, headers []string, rows [][]string) (models.Report, error) {
	if len(headers) == 0 {
		return models.Report{}, fmt.Errorf("no columns in source %q", name)
	}
	return s.build(name, dataset.NewTable(headers, rows))
}

func (s *ReportService) build(name string, table *dataset.Table) (models.Report, error) {
	report := models.Report{
		ReportID:         uuid.NewString(),
		Filename:         name,
		NumRows:          table.NumRows(),
		NumColumns:       table.NumColumns(),
		ColumnInfo:       stats.SchemaInfo(table),
		NumDuplicates:    table.DuplicateRowCount(),
		NumericStats:     stats.NumericStatsHTML(stats.DescribeNumeric(table)),
		CategoricalStats: stats.CategoricalStatsHTML(stats.DescribeCategorical(table)),
		Charts:           map[string]string{},
	}

	s.renderCharts(name, table, report.Charts)
	return report, nil
}

// renderCharts runs every applicable chart in isolation. Applicability
// rules: missingness needs at least one missing cell, correlation needs
// two numeric columns, distribution grids need at least one (eligible)
// column. A failed chart is logged and left out of the map.
func (s *ReportService) renderCharts(name string, table *dataset.Table, charts map[string]string) {
	numericCount := len(table.NumericColumnIndices())

	if table.TotalMissing() > 0 {
		s.addChart(charts, models.ChartMissingValues, name, func() ([]byte, error) {
			return render.MissingnessMatrix(table)
		})
	}

	if numericCount >= 2 {
		s.addChart(charts, models.ChartCorrelation, name, func() ([]byte, error) {
			return render.CorrelationHeatmap(stats.CorrelationMatrix(table))
		})
	}

	if numericCount >= 1 {
		s.addChart(charts, models.ChartNumericDistributions, name, func() ([]byte, error) {
			return render.NumericDistributions(table)
		})
	}

	if hasEligibleCategorical(table) {
		s.addChart(charts, models.ChartCategoricalDistributions, name, func() ([]byte, error) {
			return render.CategoricalDistributions(table)
		})
	}
}

func (s *ReportService) addChart(charts map[string]string, key, name string, renderFn func() ([]byte, error)) {
	png, err := renderFn()
	if err != nil {
		s.log.Warnw("chart render failed", "chart", key, "file", name, "error", err)
		return
	}
	charts[key] = render.DataURI(png)
}

func hasEligibleCategorical(table *dataset.Table) bool {
	for _, colIdx := range table.CategoricalColumnIndices() {
		col := table.Columns[colIdx]
		if col.Distinct > 0 && col.Distinct < render.EligibleDistinctMax {
			return true
		}
	}
	return false
}
