package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"csvreport/internal/analysis"
	"csvreport/internal/dataset"
	"csvreport/internal/models"
	"csvreport/internal/service"
)

// User-facing error messages for pre-processing upload failures.
const (
	msgMissingFile   = "No file part in the request"
	msgEmptyFilename = "No file selected"
	msgInvalidFormat = "Invalid file format. Please upload a .csv or .tsv file"
	msgFileTooLarge  = "File is too large"
)

type Handler struct {
	Reports        *analysis.ReportService
	Log            *zap.SugaredLogger
	MaxUploadBytes int64
	DBPreviewRows  int

	mu        sync.RWMutex
	currentDB service.DataSource // active DB connection, nil until /api/db/connect
}

func NewHandler(reports *analysis.ReportService, log *zap.SugaredLogger, maxUploadBytes int64, dbPreviewRows int) *Handler {
	return &Handler{
		Reports:        reports,
		Log:            log,
		MaxUploadBytes: maxUploadBytes,
		DBPreviewRows:  dbPreviewRows,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/health", h.HealthCheck)
	r.Post("/upload", h.Upload)

	// DB Routes
	r.Post("/api/db/connect", h.ConnectDB)
	r.Get("/api/db/tables", h.ListTables)
	r.Post("/api/db/analyze", h.AnalyzeTable)
}

// ============================================================================
// Health / Index
// ============================================================================

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// Index serves the static upload form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexPage))
}

// ============================================================================
// Upload
// ============================================================================

// Upload accepts a single CSV file field and responds with a full Report,
// or a JSON error field. Pre-processing failures (missing part, empty
// filename, wrong extension) and parse/processing failures all land in
// the error field rather than a bare HTTP fault.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, msgFileTooLarge)
			return
		}
		writeError(w, msgMissingFile)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		// A browser submitting an empty file input sends a part named
		// "file" with filename=""; the multipart parser files it under
		// form values rather than files.
		if r.MultipartForm != nil {
			if _, ok := r.MultipartForm.Value["file"]; ok {
				writeError(w, msgEmptyFilename)
				return
			}
		}
		writeError(w, msgMissingFile)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, msgEmptyFilename)
		return
	}

	name := strings.ToLower(header.Filename)
	if !strings.HasSuffix(name, ".csv") && !strings.HasSuffix(name, ".tsv") {
		writeError(w, msgInvalidFormat)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, fmt.Sprintf("Error reading file: %v", err))
		return
	}

	report, err := h.Reports.Generate(header.Filename, data)
	if err != nil {
		var parseErr *dataset.ParseError
		if errors.As(err, &parseErr) {
			writeError(w, fmt.Sprintf("Could not parse file: %v", parseErr.Err))
		} else {
			writeError(w, fmt.Sprintf("Error processing file: %v", err))
		}
		return
	}

	h.Log.Infow("report generated",
		"file", header.Filename, "rows", report.NumRows, "columns", report.NumColumns)
	writeJSON(w, report)
}

// ============================================================================
// Database
// ============================================================================

// ConnectDB establishes a database connection for table analysis.
func (h *Handler) ConnectDB(w http.ResponseWriter, r *http.Request) {
	var req models.ConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	// Currently only Postgres supported
	if req.Type != "postgres" {
		http.Error(w, "Only postgres is supported currently", http.StatusBadRequest)
		return
	}

	ds := &service.PostgresDataSource{}
	err := ds.Connect(service.DataSourceConfig{
		Host:     req.Host,
		Port:     req.Port,
		User:     req.User,
		Password: req.Password,
		DBName:   req.DBName,
		SSLMode:  req.SSLMode,
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to connect: %v", err), http.StatusInternalServerError)
		return
	}

	if prev := h.setDataSource(ds); prev != nil {
		prev.Close()
	}

	writeJSON(w, map[string]string{"status": "connected"})
}

// setDataSource swaps the active connection and returns the previous one.
func (h *Handler) setDataSource(ds service.DataSource) service.DataSource {
	h.mu.Lock()
	defer h.mu.Unlock()
	prev := h.currentDB
	h.currentDB = ds
	return prev
}

func (h *Handler) dataSource() service.DataSource {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.currentDB
}

// ListTables returns tables from the connected DB.
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	db := h.dataSource()
	if db == nil {
		http.Error(w, "No database connection", http.StatusBadRequest)
		return
	}

	tables, err := db.ListTables()
	if err != nil {
		http.Error(w, fmt.Sprintf("Error listing tables: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, models.TablesResponse{Tables: tables})
}

// AnalyzeTable previews rows from a table and runs the same report
// pipeline as an upload.
func (h *Handler) AnalyzeTable(w http.ResponseWriter, r *http.Request) {
	db := h.dataSource()
	if db == nil {
		http.Error(w, "No database connection", http.StatusBadRequest)
		return
	}

	var req models.AnalyzeTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	limit := req.Limit
	if limit <= 0 || limit > h.DBPreviewRows {
		limit = h.DBPreviewRows
	}

	columns, rows, err := db.PreviewData(req.TableName, limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error fetching data: %v", err), http.StatusInternalServerError)
		return
	}

	report, err := h.Reports.GenerateFromRecords(req.TableName, columns, rows)
	if err != nil {
		writeError(w, fmt.Sprintf("Error processing table: %v", err))
		return
	}

	writeJSON(w, report)
}

// ============================================================================
// Helpers
// ============================================================================

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, msg string) {
	writeJSON(w, models.ErrorResponse{Error: msg})
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>CSV Report</title></head>
<body>
<h1>Upload a CSV file</h1>
<form action="/upload" method="post" enctype="multipart/form-data">
  <input type="file" name="file" accept=".csv,.tsv">
  <button type="submit">Analyze</button>
</form>
</body>
</html>
`
