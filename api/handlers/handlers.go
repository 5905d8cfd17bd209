package handlers

import (
	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/service/report"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/pkg/logger"
)

type Handlers struct {
	Report *ReportHandler
}

func NewHandlers(
	reportService report.ReportService,
	logger logger.Logger,
) *Handlers {
	return &Handlers{
		Report: NewReportHandler(reportService, logger),
	}
}
