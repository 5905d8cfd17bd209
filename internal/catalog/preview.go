package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/sqlgen"
)

const (
	previewTimeout  = 30 * time.Second
	previewMaxLimit = 500
)

// ClampPreviewLimit bounds a requested preview row limit to 1..500,
// defaulting to 100.
func ClampPreviewLimit(limit int) int {
	if limit <= 0 {
		limit = 100
	}
	if limit > previewMaxLimit {
		limit = previewMaxLimit
	}
	return limit
}

// Preview executes the statement wrapped in a TOP-limited derived table
// and returns the rows as generic maps. Parameters are bound through
// NVARCHAR declarations so the inner statement can reference them by name.
func (c *Catalog) Preview(ctx context.Context, database, sqlText string, params map[string]string, limit int) ([]map[string]any, error) {
	limit = ClampPreviewLimit(limit)
	if !c.Configured() {
		return []map[string]any{{"message": "Preview unavailable in this environment"}}, nil
	}

	// Deterministic parameter order for positional binding.
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var declares []string
	var values []any
	for i, key := range keys {
		paramName := key
		if !strings.HasPrefix(paramName, "@") {
			paramName = "@" + paramName
		}
		declares = append(declares, fmt.Sprintf("DECLARE %s NVARCHAR(4000) = @p%d;", paramName, i+1))
		values = append(values, params[key])
	}

	// A trailing ORDER BY is illegal inside a derived table.
	baseSQL, _ := sqlgen.SplitOrderBy(sqlText)
	limited := fmt.Sprintf("SELECT TOP %d * FROM (\n%s\n) AS src", limit, baseSQL)
	statement := strings.Join(append(declares, limited), "\n")

	ctx, cancel := context.WithTimeout(ctx, previewTimeout)
	defer cancel()

	db, err := c.open(ctx, database)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, statement, values...)
	if err != nil {
		return nil, fmt.Errorf("catalog: preview query: %w", err)
	}
	defer rows.Close()

	colNames, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("catalog: preview columns: %w", err)
	}

	var result []map[string]any
	for rows.Next() && len(result) < limit {
		raw := make([]any, len(colNames))
		ptrs := make([]any, len(colNames))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("catalog: scan preview row: %w", err)
		}
		row := make(map[string]any, len(colNames))
		for i, name := range colNames {
			if b, ok := raw[i].([]byte); ok {
				row[name] = string(b)
			} else {
				row[name] = raw[i]
			}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
