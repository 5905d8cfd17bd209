package models

// Role classifies a mapped column inside the SQL synthesizer.
type Role string

const (
	RoleMeasure   Role = "measure"
	RoleDimension Role = "dimension"
	RoleTime      Role = "time"
	// RoleMetric is the pre-normalization name the mapper emits for
	// measures; the synthesizer treats it as RoleMeasure.
	RoleMetric Role = "metric"
)

// MappingItem is the mapper's suggestion for a single spec term. Column is
// empty whenever Confidence fell below the acceptance threshold.
type MappingItem struct {
	Term       string  `json:"term"`
	Role       Role    `json:"role"`
	Column     string  `json:"column,omitempty"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason,omitempty"`
	Grain      Grain   `json:"grain,omitempty"`
}

// Mapping is the caller-confirmed term to column association consumed by
// the SQL synthesizer.
type Mapping struct {
	Term   string `json:"term"`
	Column string `json:"column"`
	Role   Role   `json:"role"`
	Grain  Grain  `json:"grain,omitempty"`
}

// ColumnDef describes one output column of the generated query, carrying
// everything the RDL builder needs to declare and render a dataset field.
type ColumnDef struct {
	Name           string   `json:"name"`
	Source         string   `json:"source"`
	SystemTypeName string   `json:"system_type_name,omitempty"`
	RdlType        RdlType  `json:"rdlType"`
	Role           Role     `json:"role"`
	DisplayName    string   `json:"display_name"`
	Description    string   `json:"description,omitempty"`
	Agg            string   `json:"agg,omitempty"`
	Format         string   `json:"format,omitempty"`
	Samples        []string `json:"samples,omitempty"`
}

// ParamDef describes one report parameter bound to a query parameter.
type ParamDef struct {
	Name    string  `json:"name"`
	RdlType RdlType `json:"rdlType"`
	Default string  `json:"default,omitempty"`
	Prompt  string  `json:"prompt,omitempty"`
}

// FilterDef is a WHERE-clause entry supplied at publish time.
type FilterDef struct {
	Field string `json:"field"`
	Op    string `json:"op"`
	Param string `json:"param"`
}

// SortDef is an ORDER BY entry supplied at publish time.
type SortDef struct {
	Field string `json:"field"`
	Dir   string `json:"dir"`
}

// ChartSpec binds a rendered chart to dataset fields.
type ChartSpec struct {
	Type     string   `json:"type"`
	Category string   `json:"category"`
	Series   []string `json:"series,omitempty"`
	Values   []string `json:"values"`
}

// SQLParam is a synthesized named query parameter.
type SQLParam struct {
	Name    string  `json:"name"`
	RdlType RdlType `json:"rdlType"`
	Value   string  `json:"value,omitempty"`
}

// MissingFieldSuggestion lists the closest candidate columns for a term
// the mapper could not resolve.
type MissingFieldSuggestion struct {
	Name        string   `json:"name"`
	Suggestions []string `json:"suggestions"`
}

// SchemaInsights summarizes how well the spec terms covered the schema.
type SchemaInsights struct {
	CoveragePercent int                      `json:"coveragePercent"`
	MatchedFields   []string                 `json:"matchedFields"`
	MissingFields   []MissingFieldSuggestion `json:"missingFields"`
}
