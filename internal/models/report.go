package models

// Chart identifiers used as keys in Report.Charts. A missing key means
// the chart was not applicable for the uploaded table, or its rendering
// failed and was skipped.
const (
	ChartMissingValues            = "missing_values"
	ChartCorrelation              = "correlation"
	ChartNumericDistributions     = "numeric_distributions"
	ChartCategoricalDistributions = "categorical_distributions"
)

// Report is the full analysis result for one uploaded table.
type Report struct {
	ReportID         string            `json:"report_id"`
	Filename         string            `json:"filename"`
	NumRows          int               `json:"num_rows"`
	NumColumns       int               `json:"num_columns"`
	ColumnInfo       string            `json:"column_info"`
	NumDuplicates    int               `json:"num_duplicates"`
	NumericStats     string            `json:"numeric_stats"`
	CategoricalStats string            `json:"categorical_stats"`
	Charts           map[string]string `json:"charts"`
}

// ErrorResponse carries a user-facing failure message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ConnectRequest holds database connection details for /api/db/connect.
type ConnectRequest struct {
	Type     string `json:"type"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

// AnalyzeTableRequest selects a table to analyze via /api/db/analyze.
type AnalyzeTableRequest struct {
	TableName string `json:"table_name"`
	Limit     int    `json:"limit,omitempty"`
}

// TablesResponse lists tables available on the connected database.
type TablesResponse struct {
	Tables []string `json:"tables"`
}
