package report

import (
	"context"

	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/models"
)

// ReportService drives the natural-language-to-published-report pipeline.
type ReportService interface {
	ListDatabases(ctx context.Context) ([]models.DbRef, error)
	Infer(ctx context.Context, db, text, title string) (*models.InferOut, error)
	GenerateSQL(ctx context.Context, in models.GenSQLIn) (*models.GenSQLOut, error)
	Preview(ctx context.Context, in models.PreviewIn) (*models.PreviewOut, error)
	Publish(ctx context.Context, in models.PublishIn) (*models.PublishOut, error)
}
