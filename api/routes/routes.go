package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MoSmadi/SSRS-Report-Generator-BE/api/handlers"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/api/middleware"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/pkg/logger"
)

// SetupRoutes wires middleware and the versioned report API.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, apiKey string, log logger.Logger) {
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.Use(middleware.APIKey(apiKey))

	report := v1.Group("/report")
	{
		report.GET("/customerDatabases", h.Report.ListDatabases)
		report.POST("/inferFromNaturalLanguage", h.Report.Infer)
		report.POST("/generateSQL", h.Report.GenerateSQL)
		report.POST("/preview", h.Report.Preview)
		report.POST("/publishReport", h.Report.Publish)
	}
}
