// Package catalog reads SQL Server metadata used by the mapping pipeline:
// database lists, column descriptors, result-set shapes and sample values.
//
// When no connection settings are present the catalog serves a small demo
// schema instead, which keeps the whole pipeline usable in development.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/MoSmadi/SSRS-Report-Generator-BE/config"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/models"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/pkg/logger"
)

const queryTimeout = 10 * time.Second

// Catalog looks up schema metadata for customer databases.
type Catalog struct {
	cfg    *config.SQLServerConfig
	logger logger.Logger
}

// New builds a catalog over the given SQL Server settings.
func New(cfg *config.SQLServerConfig, log logger.Logger) *Catalog {
	return &Catalog{cfg: cfg, logger: log}
}

// Configured reports whether a real server is reachable by configuration.
func (c *Catalog) Configured() bool {
	return c.cfg.Configured()
}

func (c *Catalog) open(ctx context.Context, database string) (*sql.DB, error) {
	db, err := sql.Open("sqlserver", c.cfg.DSN(database))
	if err != nil {
		return nil, fmt.Errorf("catalog: open connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("catalog: ping: %w", err)
	}
	return db, nil
}

// ListDatabases returns the user databases on the server, skipping the
// four system databases.
func (c *Catalog) ListDatabases(ctx context.Context) ([]models.DbRef, error) {
	if !c.Configured() {
		return []models.DbRef{{Name: "DemoDW"}}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	db, err := c.open(ctx, "")
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT name FROM sys.databases WHERE database_id > 4 ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("catalog: list databases: %w", err)
	}
	defer rows.Close()

	var refs []models.DbRef
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("catalog: scan database name: %w", err)
		}
		refs = append(refs, models.DbRef{Name: name})
	}
	return refs, rows.Err()
}

// ListColumns returns the column descriptors of every table in database.
// The ORDER BY keeps catalog order stable across calls, which the mapper's
// tie-breaking depends on.
func (c *Catalog) ListColumns(ctx context.Context, database string) ([]models.ColumnMetadata, error) {
	if !c.Configured() {
		return DemoColumns(), nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	db, err := c.open(ctx, database)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	const query = "SELECT TABLE_SCHEMA, TABLE_NAME, COLUMN_NAME, DATA_TYPE " +
		"FROM INFORMATION_SCHEMA.COLUMNS " +
		"ORDER BY TABLE_SCHEMA, TABLE_NAME, ORDINAL_POSITION"
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("catalog: list columns: %w", err)
	}
	defer rows.Close()

	var columns []models.ColumnMetadata
	for rows.Next() {
		var schema, table, column, dataType string
		if err := rows.Scan(&schema, &table, &column, &dataType); err != nil {
			return nil, fmt.Errorf("catalog: scan column row: %w", err)
		}
		columns = append(columns, NewColumnMetadata(schema, table, column, dataType))
	}
	return columns, rows.Err()
}

// NewColumnMetadata derives the full descriptor, including type flags and
// the two canonical names, from the raw catalog row.
func NewColumnMetadata(schema, table, column, dataType string) models.ColumnMetadata {
	return models.ColumnMetadata{
		Schema:        schema,
		Table:         table,
		Column:        column,
		DataType:      dataType,
		IsNumeric:     IsNumericType(dataType),
		IsDateLike:    IsDateLikeType(dataType),
		Name:          fmt.Sprintf("%s.%s.%s", schema, table, column),
		BracketedName: fmt.Sprintf("[%s].[%s].[%s]", schema, table, column),
	}
}

// ValidateShape runs sp_describe_first_result_set over the statement and
// returns seed column definitions for its output shape.
func (c *Catalog) ValidateShape(ctx context.Context, sqlText string) ([]models.ColumnDef, error) {
	if !c.Configured() {
		return demoShape(), nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	db, err := c.open(ctx, "")
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "EXEC sp_describe_first_result_set @tsql = @p1", sqlText)
	if err != nil {
		return nil, fmt.Errorf("catalog: describe result set: %w", err)
	}
	defer rows.Close()

	colNames, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("catalog: result set columns: %w", err)
	}
	nameIdx, typeIdx := -1, -1
	for i, name := range colNames {
		switch name {
		case "name":
			nameIdx = i
		case "system_type_name":
			typeIdx = i
		}
	}
	if nameIdx < 0 || typeIdx < 0 {
		return nil, fmt.Errorf("catalog: unexpected describe output shape")
	}

	var defs []models.ColumnDef
	for rows.Next() {
		values := make([]any, len(colNames))
		ptrs := make([]any, len(colNames))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("catalog: scan describe row: %w", err)
		}
		name := asString(values[nameIdx])
		if name == "" {
			continue
		}
		systemType := asString(values[typeIdx])
		defs = append(defs, models.ColumnDef{
			Name:           name,
			SystemTypeName: systemType,
			RdlType:        RdlTypeFor(systemType),
			DisplayName:    name,
		})
	}
	return defs, rows.Err()
}

// SampleValues fetches up to limit non-null values of a dotted
// schema.table.column reference.
func (c *Catalog) SampleValues(ctx context.Context, database, column string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 5
	}
	if !c.Configured() {
		if strings.Contains(column, "Region") {
			return []string{"North", "South"}, nil
		}
		return []string{"1000", "2000"}, nil
	}

	parts := strings.Split(column, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("catalog: column %q is not schema.table.column", column)
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	db, err := c.open(ctx, database)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := fmt.Sprintf("SELECT TOP %d [%s] FROM [%s].[%s] WHERE [%s] IS NOT NULL",
		limit, parts[2], parts[0], parts[1], parts[2])
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("catalog: sample values: %w", err)
	}
	defer rows.Close()

	var samples []string
	for rows.Next() {
		var value any
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("catalog: scan sample: %w", err)
		}
		samples = append(samples, asString(value))
	}
	return samples, rows.Err()
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// DemoColumns is the built-in schema served without a configured server.
func DemoColumns() []models.ColumnMetadata {
	return []models.ColumnMetadata{
		NewColumnMetadata("dbo", "FactSales", "OrderDate", "datetime"),
		NewColumnMetadata("dbo", "FactSales", "Region", "varchar"),
		NewColumnMetadata("dbo", "FactSales", "SalesAmount", "decimal"),
	}
}

func demoShape() []models.ColumnDef {
	return []models.ColumnDef{
		{Name: "OrderDate", SystemTypeName: "datetime", RdlType: models.RdlDateTime, DisplayName: "OrderDate"},
		{Name: "Region", SystemTypeName: "nvarchar", RdlType: models.RdlString, DisplayName: "Region"},
		{Name: "SalesAmount", SystemTypeName: "money", RdlType: models.RdlFloat, DisplayName: "SalesAmount"},
	}
}
