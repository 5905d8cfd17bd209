package models

// DbRef names a customer database.
type DbRef struct {
	Name string `json:"name"`
}

// ReportTarget identifies where a published report lands on the server.
type ReportTarget struct {
	Title                string `json:"title"`
	Folder               string `json:"folder"`
	SharedDataSourcePath string `json:"shared_data_source_path"`
}

// InferOut is the response of POST /report/inferFromNaturalLanguage. Spec
// is the API-facing payload shape (grain nulled out when "none", default
// sort attached), not the raw IntentSpec.
type InferOut struct {
	Spec             map[string]any   `json:"spec"`
	SuggestedMapping []MappingItem    `json:"suggestedMapping"`
	AvailableColumns []ColumnMetadata `json:"availableColumns"`
	SchemaInsights   SchemaInsights   `json:"schemaInsights"`
}

// GenSQLIn is the request of POST /report/generateSQL.
type GenSQLIn struct {
	DB      string         `json:"db" binding:"required"`
	Mapping []Mapping      `json:"mapping" binding:"required"`
	Spec    map[string]any `json:"spec"`
}

// GenSQLOut returns the synthesized SQL together with its parameters and
// the validated output shape.
type GenSQLOut struct {
	SQL     string      `json:"sql"`
	Params  []SQLParam  `json:"params"`
	Columns []ColumnDef `json:"columns,omitempty"`
}

// PreviewIn is the request of POST /report/preview.
type PreviewIn struct {
	DB     string            `json:"db" binding:"required"`
	SQL    string            `json:"sql" binding:"required"`
	Params map[string]string `json:"params"`
	Limit  int               `json:"limit"`
}

// PreviewOut carries a bounded sample of query results.
type PreviewOut struct {
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
}

// PublishIn is the request of POST /report/publishReport.
type PublishIn struct {
	DB         DbRef       `json:"db"`
	Report     ReportTarget `json:"report" binding:"required"`
	Mapping    []Mapping   `json:"mapping"`
	Columns    []ColumnDef `json:"columns" binding:"required"`
	Parameters []ParamDef  `json:"parameters"`
	Filters    []FilterDef `json:"filters"`
	Sort       []SortDef   `json:"sort"`
	Chart      *ChartSpec  `json:"chart"`
}

// PublishOut reports the published catalog path and render link.
type PublishOut struct {
	Path          string         `json:"path"`
	RenderURLPDF  string         `json:"render_url_pdf"`
	Server        map[string]any `json:"server,omitempty"`
	DatasetFields []ColumnDef    `json:"dataset_fields"`
}
