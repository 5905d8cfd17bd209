package sqlgen

import (
	"fmt"
	"strings"

	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/models"
)

// timeGrainTemplates are the T-SQL bucket expressions, keyed by grain.
// Each truncates {col} to the first instant of its period.
var timeGrainTemplates = map[models.Grain]string{
	models.GrainDay:     "CAST({col} AS DATE)",
	models.GrainWeek:    "DATEADD(day, -DATEPART(weekday, {col}) + 1, CAST({col} AS DATE))",
	models.GrainMonth:   "DATEFROMPARTS(YEAR({col}), MONTH({col}), 1)",
	models.GrainQuarter: "DATEFROMPARTS(YEAR({col}), ((DATEPART(quarter, {col})-1)*3)+1, 1)",
	models.GrainYear:    "DATEFROMPARTS(YEAR({col}), 1, 1)",
}

// SpecFilter is one WHERE entry of a generate-SQL spec.
type SpecFilter struct {
	Field string
	Op    string
	Value string
	Param string
}

// Spec is the typed slice of the request spec the synthesizer consumes.
type Spec struct {
	Grain   models.Grain
	From    string
	Filters []SpecFilter
	Sort    []models.SortDef
}

// SpecFromPayload extracts the synthesizer's inputs from the API-facing
// spec document, accepting both "op" and "operator" filter spellings.
func SpecFromPayload(payload map[string]any) Spec {
	spec := Spec{Grain: models.GrainNone}
	if payload == nil {
		return spec
	}
	if g, ok := payload["grain"].(string); ok && g != "" {
		spec.Grain = models.Grain(g)
	}
	if from, ok := payload["from"].(string); ok {
		spec.From = from
	}
	if rawFilters, ok := payload["filters"].([]any); ok {
		for _, raw := range rawFilters {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			f := SpecFilter{
				Field: stringAt(entry, "field"),
				Op:    stringAt(entry, "op"),
				Value: stringAt(entry, "value"),
				Param: stringAt(entry, "param"),
			}
			if f.Op == "" {
				f.Op = stringAt(entry, "operator")
			}
			spec.Filters = append(spec.Filters, f)
		}
	}
	if rawSort, ok := payload["sort"].([]any); ok {
		for _, raw := range rawSort {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			spec.Sort = append(spec.Sort, models.SortDef{
				Field: stringAt(entry, "field"),
				Dir:   stringAt(entry, "dir"),
			})
		}
	}
	return spec
}

func stringAt(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// Build deterministically emits a SELECT statement for the mapped columns.
// Mapping entries must already be filtered to those with a resolved
// column; defaultTable is used when no mapping carries a dotted qualifier.
func Build(spec Spec, mapping []models.Mapping, defaultTable string) (string, []models.SQLParam) {
	var dims, measures []string
	timeColumn := ""
	for _, m := range mapping {
		switch m.Role {
		case models.RoleDimension:
			dims = append(dims, m.Column)
		case models.RoleMeasure, models.RoleMetric:
			measures = append(measures, m.Column)
		case models.RoleTime:
			if timeColumn == "" {
				timeColumn = m.Column
			}
		}
	}

	var selectParts, groupParts []string

	bucketExpr, bucketAlias := timeBucket(timeColumn, spec.Grain)
	if bucketAlias != "" {
		selectParts = append(selectParts, fmt.Sprintf("%s AS [%s]", bucketExpr, bucketAlias))
		groupParts = append(groupParts, bucketExpr)
	} else if timeColumn != "" {
		selectParts = append(selectParts, fmt.Sprintf("%s AS [%s]", timeColumn, bareName(timeColumn)))
		groupParts = append(groupParts, timeColumn)
	}

	for _, dim := range dims {
		selectParts = append(selectParts, fmt.Sprintf("%s AS [%s]", dim, bareName(dim)))
		groupParts = append(groupParts, dim)
	}

	if len(measures) > 0 {
		for _, measure := range measures {
			selectParts = append(selectParts, fmt.Sprintf("SUM(%s) AS [%s]", measure, bareName(measure)))
		}
	} else {
		selectParts = append(selectParts, "COUNT(1) AS [RowCount]")
	}

	var whereClauses []string
	var params []models.SQLParam
	for _, f := range spec.Filters {
		field := f.Field
		if field == "" {
			field = "1"
		}
		op := f.Op
		if op == "" {
			op = "="
		}
		rawName := f.Param
		if rawName == "" {
			rawName = field
		}
		paramName := "@" + strings.ReplaceAll(rawName, ".", "")
		whereClauses = append(whereClauses, fmt.Sprintf("%s %s %s", field, op, paramName))
		params = append(params, models.SQLParam{
			Name:    paramName,
			RdlType: InferParamType(field),
			Value:   f.Value,
		})
	}

	fromTable := spec.From
	if fromTable == "" {
		fromTable = resolveFromTable(mapping, defaultTable)
	}

	lines := []string{"SELECT"}
	if len(selectParts) > 0 {
		lines = append(lines, "    "+strings.Join(selectParts, ",\n    "))
	} else {
		lines = append(lines, "    1")
	}
	lines = append(lines, "FROM "+fromTable)
	if len(whereClauses) > 0 {
		lines = append(lines, "WHERE "+strings.Join(whereClauses, " AND "))
	}
	if len(groupParts) > 0 {
		lines = append(lines, "GROUP BY "+strings.Join(groupParts, ", "))
	}
	if len(spec.Sort) > 0 {
		var fragments []string
		for _, item := range spec.Sort {
			dir := strings.ToUpper(item.Dir)
			if dir == "" {
				dir = "ASC"
			}
			fragments = append(fragments, fmt.Sprintf("%s %s", item.Field, dir))
		}
		lines = append(lines, "ORDER BY "+strings.Join(fragments, ", "))
	}

	return strings.Join(lines, "\n"), params
}

// timeBucket returns the grain expression and its alias, or empty alias
// when no bucketing applies.
func timeBucket(column string, grain models.Grain) (string, string) {
	if column == "" || !grain.IsBucketed() {
		return column, ""
	}
	template, ok := timeGrainTemplates[grain]
	if !ok {
		return column, ""
	}
	expr := strings.ReplaceAll(template, "{col}", column)
	alias := strings.ToUpper(string(grain)[:1]) + string(grain)[1:] + "Bucket"
	return expr, alias
}

// bareName strips the qualifier, returning the trailing column name
// without brackets.
func bareName(column string) string {
	idx := strings.LastIndexAny(column, ".")
	name := column
	if idx >= 0 {
		name = column[idx+1:]
	}
	return strings.Trim(name, "[]")
}

func resolveFromTable(mapping []models.Mapping, defaultTable string) string {
	for _, m := range mapping {
		if idx := strings.LastIndex(m.Column, "."); idx >= 0 {
			return m.Column[:idx]
		}
	}
	return defaultTable
}

// InferParamType guesses the scalar type of a parameter from its field
// name.
func InferParamType(fieldName string) models.RdlType {
	lowered := strings.ToLower(fieldName)
	if strings.Contains(lowered, "date") || strings.Contains(lowered, "time") {
		return models.RdlDateTime
	}
	for _, token := range []string{"amount", "qty", "count"} {
		if strings.Contains(lowered, token) {
			return models.RdlFloat
		}
	}
	return models.RdlString
}

// BuildPublishSQL emits the flat publish-time SELECT from confirmed column
// definitions.
func BuildPublishSQL(columns []models.ColumnDef, filters []models.FilterDef, sort []models.SortDef, defaultTable string) string {
	if len(columns) == 0 {
		return "SELECT 1 AS Placeholder"
	}

	var selectParts []string
	table := ""
	for _, column := range columns {
		if column.Source == "" {
			continue
		}
		selectParts = append(selectParts, fmt.Sprintf("%s AS [%s]", column.Source, column.Name))
		if table == "" {
			if idx := strings.LastIndex(column.Source, "."); idx >= 0 {
				table = column.Source[:idx]
			}
		}
	}
	selectClause := "1 AS Placeholder"
	if len(selectParts) > 0 {
		selectClause = strings.Join(selectParts, ", ")
	}
	if table == "" {
		table = defaultTable
	}

	lines := []string{"SELECT", "    " + selectClause, "FROM " + table}
	if len(filters) > 0 {
		var clauses []string
		for _, flt := range filters {
			clauses = append(clauses, fmt.Sprintf("%s %s @%s", flt.Field, flt.Op, flt.Param))
		}
		lines = append(lines, "WHERE "+strings.Join(clauses, " AND "))
	}
	if len(sort) > 0 {
		var fragments []string
		for _, item := range sort {
			fragments = append(fragments, fmt.Sprintf("%s %s", item.Field, strings.ToUpper(item.Dir)))
		}
		lines = append(lines, "ORDER BY "+strings.Join(fragments, ", "))
	}
	return strings.Join(lines, "\n")
}
