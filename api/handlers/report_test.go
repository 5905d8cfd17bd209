package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/models"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/pkg/logger"
)

// mockReportService implements report.ReportService for handler tests.
type mockReportService struct {
	databases []models.DbRef
	inferOut  *models.InferOut
	sqlOut    *models.GenSQLOut
	preview   *models.PreviewOut
	publish   *models.PublishOut
	err       error
}

func (m *mockReportService) ListDatabases(ctx context.Context) ([]models.DbRef, error) {
	return m.databases, m.err
}

func (m *mockReportService) Infer(ctx context.Context, db, text, title string) (*models.InferOut, error) {
	return m.inferOut, m.err
}

func (m *mockReportService) GenerateSQL(ctx context.Context, in models.GenSQLIn) (*models.GenSQLOut, error) {
	return m.sqlOut, m.err
}

func (m *mockReportService) Preview(ctx context.Context, in models.PreviewIn) (*models.PreviewOut, error) {
	return m.preview, m.err
}

func (m *mockReportService) Publish(ctx context.Context, in models.PublishIn) (*models.PublishOut, error) {
	return m.publish, m.err
}

func newTestRouter(svc *mockReportService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandlers(svc, logger.NewTestLogger())
	r := gin.New()
	r.GET("/report/databases", h.Report.ListDatabases)
	r.POST("/report/inferFromNaturalLanguage", h.Report.Infer)
	r.POST("/report/generateSQL", h.Report.GenerateSQL)
	r.POST("/report/preview", h.Report.Preview)
	r.POST("/report/publishReport", h.Report.Publish)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListDatabasesHandler(t *testing.T) {
	r := newTestRouter(&mockReportService{databases: []models.DbRef{{Name: "DemoDW"}}})

	w := doJSON(t, r, http.MethodGet, "/report/databases", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Databases []models.DbRef `json:"databases"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "DemoDW", resp.Databases[0].Name)
}

func TestInferHandler(t *testing.T) {
	r := newTestRouter(&mockReportService{inferOut: &models.InferOut{
		Spec: map[string]any{"title": "T"},
	}})

	w := doJSON(t, r, http.MethodPost, "/report/inferFromNaturalLanguage", map[string]string{
		"db":   "DemoDW",
		"text": "total sales by month",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"T"`)
}

func TestInferHandlerAcceptsLegacyFieldNames(t *testing.T) {
	r := newTestRouter(&mockReportService{inferOut: &models.InferOut{
		Spec: map[string]any{"title": "T"},
	}})

	w := doJSON(t, r, http.MethodPost, "/report/inferFromNaturalLanguage", map[string]string{
		"databaseName": "DemoDW",
		"request":      "total sales by month",
	})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInferHandlerRejectsMissingFields(t *testing.T) {
	r := newTestRouter(&mockReportService{})

	w := doJSON(t, r, http.MethodPost, "/report/inferFromNaturalLanguage", map[string]string{
		"db": "DemoDW",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var envelope models.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "invalid_request", envelope.Error.Code)
}

func TestGenerateSQLHandlerServiceError(t *testing.T) {
	r := newTestRouter(&mockReportService{
		err: models.NewServiceError("At least one mapped column is required", "invalid_mapping", http.StatusBadRequest),
	})

	w := doJSON(t, r, http.MethodPost, "/report/generateSQL", models.GenSQLIn{
		DB:      "DemoDW",
		Mapping: []models.Mapping{{Term: "x"}},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var envelope models.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "invalid_mapping", envelope.Error.Code)
	assert.Equal(t, "At least one mapped column is required", envelope.Error.Message)
}

func TestPreviewHandlerUnknownErrorBecomesInternal(t *testing.T) {
	r := newTestRouter(&mockReportService{err: errors.New("driver exploded")})

	w := doJSON(t, r, http.MethodPost, "/report/preview", models.PreviewIn{
		DB:  "DemoDW",
		SQL: "SELECT 1",
	})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var envelope models.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "internal_error", envelope.Error.Code)
	assert.NotContains(t, envelope.Error.Message, "driver exploded")
}

func TestPublishHandler(t *testing.T) {
	r := newTestRouter(&mockReportService{publish: &models.PublishOut{
		Path:         "/AutoReports/R1",
		RenderURLPDF: "http://ssrs.local/ReportServer?/AutoReports/R1&rs%3AFormat=PDF",
	}})

	w := doJSON(t, r, http.MethodPost, "/report/publishReport", models.PublishIn{
		Report:  models.ReportTarget{Title: "R1"},
		Columns: []models.ColumnDef{{Name: "Region"}},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var out models.PublishOut
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "/AutoReports/R1", out.Path)
}
