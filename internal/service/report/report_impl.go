package report

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/MoSmadi/SSRS-Report-Generator-BE/config"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/catalog"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/intent"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/llm"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/mapping"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/models"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/rdl"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/sqlgen"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/ssrs"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/utils/validator"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/pkg/logger"
)

const mainDataSourceName = "MainDataSource"

// Service wires the pipeline stages together. All collaborators are
// injected at construction; nothing here reaches for globals.
type Service struct {
	parser    *intent.Parser
	mapper    *mapping.Mapper
	catalog   *catalog.Catalog
	publisher *ssrs.Client
	validator *validator.ReportValidator
	profile   *config.ReportProfile
	logger    logger.Logger
	now       func() time.Time
}

// NewService builds the pipeline service.
func NewService(
	parser *intent.Parser,
	mapper *mapping.Mapper,
	cat *catalog.Catalog,
	publisher *ssrs.Client,
	profile *config.ReportProfile,
	log logger.Logger,
) *Service {
	if profile == nil {
		profile = config.DefaultProfile()
	}
	return &Service{
		parser:    parser,
		mapper:    mapper,
		catalog:   cat,
		publisher: publisher,
		validator: validator.NewReportValidator(log, nil),
		profile:   profile,
		logger:    log,
		now:       time.Now,
	}
}

// GetService assembles a fully configured service from the process
// configuration.
func GetService(log logger.Logger) *Service {
	profile := config.GetReportProfile()
	chat := llm.NewClient(config.GetOpenAIConfig())
	return NewService(
		intent.NewParser(profile, chat, log),
		mapping.NewMapper(chat, log),
		catalog.New(config.GetSQLServerConfig(), log),
		ssrs.NewClient(config.GetSSRSConfig(), log),
		profile,
		log,
	)
}

// ListDatabases returns the customer databases visible to the service.
func (s *Service) ListDatabases(ctx context.Context) ([]models.DbRef, error) {
	databases, err := s.catalog.ListDatabases(ctx)
	if err != nil {
		s.logger.Error("failed to list databases", logger.Error(err))
		return nil, models.NewServiceError(
			"Unable to list databases: "+summarize(err),
			"catalog_error",
			http.StatusBadGateway,
		)
	}
	return databases, nil
}

// Infer parses the request text, maps its terms against the database
// schema and reports coverage. A catalog failure downgrades to the demo
// schema so the caller still gets a mapping to refine.
func (s *Service) Infer(ctx context.Context, db, text, title string) (*models.InferOut, error) {
	spec := s.parser.Parse(ctx, text, title)

	columns, err := s.catalog.ListColumns(ctx, db)
	if err != nil {
		s.logger.Warn("failed to load columns, using demo schema",
			logger.String("db", db),
			logger.Error(err),
		)
		columns = catalog.DemoColumns()
	}

	suggested := s.mapper.MapTerms(ctx, spec, columns)
	insights := mapping.ComputeInsights(spec, suggested, columns)
	s.attachSamples(ctx, db, suggested, columns)

	s.logger.Info("inferred intent",
		logger.String("db", db),
		logger.String("title", spec.Title),
		logger.Int("coveragePercent", insights.CoveragePercent),
	)
	return &models.InferOut{
		Spec:             intent.SpecPayload(spec),
		SuggestedMapping: suggested,
		AvailableColumns: columns,
		SchemaInsights:   insights,
	}, nil
}

// attachSamples fills in sample values for each mapped column so callers
// can sanity-check a suggestion before confirming it. Best effort: a
// lookup failure leaves the column without samples.
func (s *Service) attachSamples(ctx context.Context, db string, suggested []models.MappingItem, columns []models.ColumnMetadata) {
	mapped := make(map[string]bool, len(suggested))
	for _, item := range suggested {
		if item.Column != "" {
			mapped[item.Column] = true
		}
	}
	for i := range columns {
		if !mapped[columns[i].QualifiedName()] {
			continue
		}
		samples, err := s.catalog.SampleValues(ctx, db, columns[i].DottedName(), 3)
		if err != nil {
			s.logger.Debug("sample lookup failed",
				logger.String("column", columns[i].DottedName()),
				logger.Error(err),
			)
			continue
		}
		columns[i].SampleValues = samples
	}
}

// GenerateSQL synthesizes the SELECT statement for a confirmed mapping
// and validates its output shape.
func (s *Service) GenerateSQL(ctx context.Context, in models.GenSQLIn) (*models.GenSQLOut, error) {
	valid := make([]models.Mapping, 0, len(in.Mapping))
	for _, m := range in.Mapping {
		if m.Column != "" {
			valid = append(valid, m)
		}
	}
	if len(valid) == 0 {
		return nil, models.NewServiceError(
			"At least one mapped column is required",
			"invalid_mapping",
			http.StatusBadRequest,
		)
	}

	spec := sqlgen.SpecFromPayload(in.Spec)
	now := s.now()
	for i, f := range spec.Filters {
		spec.Filters[i].Value = sqlgen.ResolveRelativeValue(f.Value, now)
	}

	sqlText, params := sqlgen.Build(spec, valid, s.profile.DefaultTable)

	columns, err := s.catalog.ValidateShape(ctx, sqlText)
	if err != nil {
		s.logger.Warn("result shape validation unavailable", logger.Error(err))
		columns = columnsFromMapping(valid, spec.Grain)
	}

	s.logger.Debug("generated sql",
		logger.String("db", in.DB),
		logger.String("sql", sqlText),
	)
	return &models.GenSQLOut{SQL: sqlText, Params: params, Columns: columns}, nil
}

// columnsFromMapping derives output column definitions from the mapping
// alone, used when the database cannot describe the result set.
func columnsFromMapping(mapping []models.Mapping, grain models.Grain) []models.ColumnDef {
	var defs []models.ColumnDef
	timeSeen := false
	for _, m := range mapping {
		switch m.Role {
		case models.RoleTime:
			if timeSeen {
				continue
			}
			timeSeen = true
			name := bareAlias(m.Column)
			if grain.IsBucketed() {
				name = strings.ToUpper(string(grain)[:1]) + string(grain)[1:] + "Bucket"
			}
			defs = append(defs, models.ColumnDef{
				Name:        name,
				Source:      m.Column,
				RdlType:     models.RdlDateTime,
				Role:        models.RoleTime,
				DisplayName: name,
			})
		case models.RoleMeasure, models.RoleMetric:
			name := bareAlias(m.Column)
			defs = append(defs, models.ColumnDef{
				Name:        name,
				Source:      m.Column,
				RdlType:     models.RdlFloat,
				Role:        models.RoleMeasure,
				DisplayName: name,
				Agg:         "SUM",
			})
		default:
			name := bareAlias(m.Column)
			defs = append(defs, models.ColumnDef{
				Name:        name,
				Source:      m.Column,
				RdlType:     models.RdlString,
				Role:        models.RoleDimension,
				DisplayName: name,
			})
		}
	}
	if len(defs) == 0 || !hasMeasure(defs) {
		defs = append(defs, models.ColumnDef{
			Name:        "RowCount",
			Source:      "COUNT(1)",
			RdlType:     models.RdlInteger,
			Role:        models.RoleMeasure,
			DisplayName: "RowCount",
			Agg:         "COUNT",
		})
	}
	return defs
}

func hasMeasure(defs []models.ColumnDef) bool {
	for _, d := range defs {
		if d.Role == models.RoleMeasure {
			return true
		}
	}
	return false
}

func bareAlias(column string) string {
	if idx := strings.LastIndex(column, "."); idx >= 0 {
		column = column[idx+1:]
	}
	return strings.Trim(column, "[]")
}

// Preview runs the statement with a row cap and returns a sample.
func (s *Service) Preview(ctx context.Context, in models.PreviewIn) (*models.PreviewOut, error) {
	rows, err := s.catalog.Preview(ctx, in.DB, in.SQL, in.Params, in.Limit)
	if err != nil {
		s.logger.Error("preview execution failed",
			logger.String("db", in.DB),
			logger.Error(err),
		)
		return nil, models.NewServiceError(
			"Preview query failed: "+summarize(err),
			"preview_error",
			http.StatusBadRequest,
		)
	}
	return &models.PreviewOut{Rows: rows, RowCount: len(rows)}, nil
}

// Publish renders the report definition, uploads it and binds the shared
// data source. The REST rebind and system-info lookup are best effort.
func (s *Service) Publish(ctx context.Context, in models.PublishIn) (*models.PublishOut, error) {
	if len(in.Columns) == 0 {
		return nil, models.NewServiceError(
			"At least one column is required",
			"invalid_columns",
			http.StatusBadRequest,
		)
	}
	if in.Report.Folder == "" {
		in.Report.Folder = s.publisher.DefaultFolder()
	}
	if in.Report.SharedDataSourcePath == "" {
		in.Report.SharedDataSourcePath = s.publisher.DefaultSharedDataSource()
	}
	if check := s.validator.ValidatePublish(in); !check.IsValid {
		return nil, models.NewServiceError(
			check.Errors[0].Message,
			check.Errors[0].Code,
			http.StatusBadRequest,
		)
	}

	datasetName := strings.ReplaceAll(in.Report.Title, " ", "")
	if datasetName == "" {
		datasetName = "Dataset"
	}

	sqlText := sqlgen.BuildPublishSQL(in.Columns, in.Filters, in.Sort, s.profile.DefaultTable)
	document, err := rdl.Build(rdl.Input{
		Namespace:            rdl.DefaultNamespace,
		DataSourceName:       mainDataSourceName,
		SharedDataSourcePath: in.Report.SharedDataSourcePath,
		DatasetName:          datasetName,
		SQL:                  sqlText,
		Parameters:           in.Parameters,
		Fields:               in.Columns,
		Chart:                in.Chart,
	})
	if err != nil {
		return nil, models.NewServiceError(
			"Invalid report definition: "+summarize(err),
			"invalid_report",
			http.StatusBadRequest,
		)
	}

	upload, err := s.publisher.UploadRDL(ctx, in.Report.Folder, in.Report.Title, document)
	if err != nil {
		s.logger.Error("report upload failed", logger.Error(err))
		return nil, models.NewServiceError(
			"Failed to publish report: "+summarize(err),
			"ssrs_upload_failed",
			http.StatusBadGateway,
		)
	}
	if err := s.publisher.SetSharedDataSource(ctx, upload.Path, mainDataSourceName, in.Report.SharedDataSourcePath); err != nil {
		s.logger.Error("data source binding failed", logger.Error(err))
		return nil, models.NewServiceError(
			"Failed to publish report: "+summarize(err),
			"ssrs_upload_failed",
			http.StatusBadGateway,
		)
	}
	if ok := s.publisher.SetReportDataSources(ctx, upload.Path, []ssrs.DataSourceRef{{
		ID:           mainDataSourceName,
		Name:         mainDataSourceName,
		DataSourceID: in.Report.SharedDataSourcePath,
	}}); !ok {
		s.logger.Warn("rest data source rebind skipped", logger.String("path", upload.Path))
	}

	defaults := make(map[string]string, len(in.Parameters))
	for _, param := range in.Parameters {
		defaults[strings.TrimPrefix(param.Name, "@")] = param.Default
	}

	out := &models.PublishOut{
		Path:          upload.Path,
		RenderURLPDF:  s.publisher.RenderURL(upload.Path, defaults),
		DatasetFields: in.Columns,
	}
	if info := s.publisher.SystemInfo(ctx); info != nil {
		out.Server = info
	} else {
		out.Server = map[string]any{"status": "unknown"}
	}
	return out, nil
}

// summarize keeps error text short and single-line for API responses.
func summarize(err error) string {
	if err == nil {
		return ""
	}
	detail := strings.TrimSpace(err.Error())
	if idx := strings.IndexAny(detail, "\r\n"); idx >= 0 {
		detail = detail[:idx]
	}
	if len(detail) > 200 {
		detail = detail[:200]
	}
	return detail
}
