package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"csvreport/internal/analysis"
	"csvreport/internal/models"
	"csvreport/internal/service"
)

func newTestHandler() *Handler {
	log := zap.NewNop().Sugar()
	return NewHandler(analysis.NewReportService(log), log, 25<<20, 1000)
}

func newTestRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func postMultipart(t *testing.T, r http.Handler, fieldFile, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(fieldFile, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v (%s)", err, rec.Body.String())
	}
	return resp.Error
}

func TestUploadReturnsReport(t *testing.T) {
	router := newTestRouter(newTestHandler())
	rec := postMultipart(t, router, "file", "sample.csv", "a,b\n1,x\n2,y\n")

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var report models.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.NumRows != 2 || report.NumColumns != 2 {
		t.Fatalf("unexpected shape: %d x %d", report.NumRows, report.NumColumns)
	}
	if report.Filename != "sample.csv" {
		t.Fatalf("unexpected filename: %q", report.Filename)
	}
	if !strings.Contains(report.NumericStats, "<table") {
		t.Fatalf("expected numeric stats table: %s", report.NumericStats)
	}
	if _, ok := report.Charts[models.ChartMissingValues]; ok {
		t.Fatal("missingness chart must be absent for complete table")
	}
}

func TestUploadMissingFilePart(t *testing.T) {
	router := newTestRouter(newTestHandler())

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("other", "value")
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := decodeError(t, rec); got != msgMissingFile {
		t.Fatalf("expected %q, got %q", msgMissingFile, got)
	}
}

func TestUploadEmptyFilename(t *testing.T) {
	router := newTestRouter(newTestHandler())

	// A browser submits an empty file input as a part with filename="".
	body := "--BOUNDARY\r\n" +
		"Content-Disposition: form-data; name=\"file\"; filename=\"\"\r\n" +
		"Content-Type: application/octet-stream\r\n" +
		"\r\n" +
		"\r\n" +
		"--BOUNDARY--\r\n"

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(body))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=BOUNDARY")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := decodeError(t, rec); got != msgEmptyFilename {
		t.Fatalf("expected %q, got %q", msgEmptyFilename, got)
	}
}

func TestUploadInvalidExtension(t *testing.T) {
	router := newTestRouter(newTestHandler())
	rec := postMultipart(t, router, "file", "notes.txt", "hello")

	if got := decodeError(t, rec); got != msgInvalidFormat {
		t.Fatalf("expected %q, got %q", msgInvalidFormat, got)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := raw["num_rows"]; ok {
		t.Fatal("error response must not carry statistics fields")
	}
}

func TestUploadAcceptsTabSeparated(t *testing.T) {
	router := newTestRouter(newTestHandler())
	rec := postMultipart(t, router, "file", "data.tsv", "a\tb\n1\tx\n2\ty\n")

	var report models.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.NumRows != 2 || report.NumColumns != 2 {
		t.Fatalf("unexpected shape: %d x %d", report.NumRows, report.NumColumns)
	}
}

func TestUploadTooLarge(t *testing.T) {
	log := zap.NewNop().Sugar()
	h := NewHandler(analysis.NewReportService(log), log, 64, 1000)
	router := newTestRouter(h)

	content := strings.Repeat("a,b\n1,2\n", 100)
	rec := postMultipart(t, router, "file", "big.csv", content)

	if got := decodeError(t, rec); got != msgFileTooLarge {
		t.Fatalf("expected %q, got %q", msgFileTooLarge, got)
	}
}

func TestUploadUnparseableFile(t *testing.T) {
	router := newTestRouter(newTestHandler())
	rec := postMultipart(t, router, "file", "empty.csv", "")

	got := decodeError(t, rec)
	if !strings.HasPrefix(got, "Could not parse file") {
		t.Fatalf("expected parse error message, got %q", got)
	}
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(newTestHandler())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("unexpected health response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestIndexServesForm(t *testing.T) {
	router := newTestRouter(newTestHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "multipart/form-data") {
		t.Fatalf("expected upload form, got: %s", rec.Body.String())
	}
}

// fakeDataSource feeds canned rows into the report pipeline.
type fakeDataSource struct{}

func (fakeDataSource) Connect(service.DataSourceConfig) error { return nil }
func (fakeDataSource) Close() error                           { return nil }
func (fakeDataSource) ListTables() ([]string, error)          { return []string{"events"}, nil }
func (fakeDataSource) PreviewData(string, int) ([]string, [][]string, error) {
	return []string{"count", "kind"}, [][]string{{"1", "click"}, {"2", "view"}}, nil
}

func TestAnalyzeTableWithConnection(t *testing.T) {
	h := newTestHandler()
	h.setDataSource(fakeDataSource{})
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/api/db/analyze",
		strings.NewReader(`{"table_name":"events"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d %s", rec.Code, rec.Body.String())
	}
	var report models.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Filename != "events" || report.NumRows != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestAnalyzeTableWithoutConnection(t *testing.T) {
	router := newTestRouter(newTestHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/db/analyze",
		strings.NewReader(`{"table_name":"events"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// Connection swaps and table reads may arrive on concurrent requests;
// run both at once so the race detector can check the shared handle.
func TestDataSourceConcurrentSwapAndRead(t *testing.T) {
	h := newTestHandler()
	h.setDataSource(fakeDataSource{})
	router := newTestRouter(h)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			h.setDataSource(fakeDataSource{})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			req := httptest.NewRequest(http.MethodGet, "/api/db/tables", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("unexpected status: %d", rec.Code)
				return
			}
		}
	}()
	wg.Wait()
}

func TestConnectDBRejectsUnsupportedType(t *testing.T) {
	router := newTestRouter(newTestHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/db/connect",
		strings.NewReader(`{"type":"mysql"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
