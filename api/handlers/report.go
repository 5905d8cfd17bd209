package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/models"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/service/report"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/pkg/logger"
)

type ReportHandler struct {
	service report.ReportService
	logger  logger.Logger
}

// InferRequest is the body of POST /report/inferFromNaturalLanguage.
// Older callers send databaseName/request instead of db/text.
type InferRequest struct {
	DB           string `json:"db"`
	DatabaseName string `json:"databaseName"`
	Text         string `json:"text"`
	Request      string `json:"request"`
	Title        string `json:"title"`
}

func (r *InferRequest) normalize() {
	if r.DB == "" {
		r.DB = r.DatabaseName
	}
	if r.Text == "" {
		r.Text = r.Request
	}
}

func NewReportHandler(service report.ReportService, logger logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// ListDatabases returns the databases available for reporting.
func (h *ReportHandler) ListDatabases(c *gin.Context) {
	databases, err := h.service.ListDatabases(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"databases": databases})
}

// Infer parses free text into a report spec with a suggested mapping.
func (h *ReportHandler) Infer(c *gin.Context) {
	var req InferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request body", err)
		return
	}
	req.normalize()
	if req.DB == "" || req.Text == "" {
		h.badRequest(c, "db and text are required", nil)
		return
	}

	out, err := h.service.Infer(c.Request.Context(), req.DB, req.Text, req.Title)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GenerateSQL synthesizes the query for a confirmed mapping.
func (h *ReportHandler) GenerateSQL(c *gin.Context) {
	var req models.GenSQLIn
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request body", err)
		return
	}

	out, err := h.service.GenerateSQL(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Preview executes the query with a row cap.
func (h *ReportHandler) Preview(c *gin.Context) {
	var req models.PreviewIn
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request body", err)
		return
	}

	out, err := h.service.Preview(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Publish uploads the report definition to the report server.
func (h *ReportHandler) Publish(c *gin.Context) {
	var req models.PublishIn
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request body", err)
		return
	}

	out, err := h.service.Publish(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) badRequest(c *gin.Context, message string, err error) {
	h.logger.Warn(message,
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)
	c.JSON(http.StatusBadRequest, models.FormatError(message, "invalid_request"))
}

// handleError maps service errors onto the uniform error envelope,
// keeping the caller-facing message from the service and the stack
// detail in the log only.
func (h *ReportHandler) handleError(c *gin.Context, err error) {
	var svcErr *models.ServiceError
	if errors.As(err, &svcErr) {
		h.logger.Error(svcErr.Message,
			logger.String("path", c.Request.URL.Path),
			logger.String("code", svcErr.Code),
		)
		c.JSON(svcErr.StatusCode, models.FormatError(svcErr.Message, svcErr.Code))
		return
	}

	h.logger.Error("unhandled service error",
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)
	c.JSON(http.StatusInternalServerError, models.FormatError("Internal server error", "internal_error"))
}
