package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/models"
)

func TestRdlTypeFor(t *testing.T) {
	tests := []struct {
		sqlType string
		want    models.RdlType
	}{
		{"varchar", models.RdlString},
		{"nvarchar(50)", models.RdlString},
		{"text", models.RdlString},
		{"xml", models.RdlString},
		{"date", models.RdlDateTime},
		{"datetime2", models.RdlDateTime},
		{"smalldatetime", models.RdlDateTime},
		{"time", models.RdlDateTime},
		{"int", models.RdlFloat},
		{"bigint", models.RdlFloat},
		{"decimal(18,2)", models.RdlFloat},
		{"money", models.RdlFloat},
		{"float", models.RdlFloat},
		{"real", models.RdlFloat},
		{"bit", models.RdlBoolean},
		{"uniqueidentifier", models.RdlString},
		{"", models.RdlString},
	}
	for _, tt := range tests {
		t.Run(tt.sqlType, func(t *testing.T) {
			assert.Equal(t, tt.want, RdlTypeFor(tt.sqlType))
		})
	}
}

func TestIsNumericType(t *testing.T) {
	assert.True(t, IsNumericType("decimal(10,2)"))
	assert.True(t, IsNumericType("INT"))
	assert.True(t, IsNumericType("money"))
	assert.False(t, IsNumericType("varchar"))
	assert.False(t, IsNumericType("datetime"))
}

func TestIsDateLikeType(t *testing.T) {
	assert.True(t, IsDateLikeType("datetime"))
	assert.True(t, IsDateLikeType("DATE"))
	assert.True(t, IsDateLikeType("time"))
	assert.False(t, IsDateLikeType("varchar"))
	assert.False(t, IsDateLikeType("int"))
}

func TestNewColumnMetadata(t *testing.T) {
	col := NewColumnMetadata("dbo", "FactSales", "SalesAmount", "decimal(18,2)")

	assert.True(t, col.IsNumeric)
	assert.False(t, col.IsDateLike)
	assert.Equal(t, "[dbo].[FactSales].[SalesAmount]", col.QualifiedName())
	assert.Equal(t, "dbo.FactSales.SalesAmount", col.DottedName())
}

func TestClampPreviewLimit(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"default", 0, 100},
		{"negative", -5, 100},
		{"in range", 42, 42},
		{"at cap", 500, 500},
		{"over cap", 10000, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampPreviewLimit(tt.in))
		})
	}
}

func TestDemoColumns(t *testing.T) {
	columns := DemoColumns()

	assert.Len(t, columns, 3)
	assert.True(t, columns[0].IsDateLike)
	assert.False(t, columns[1].IsNumeric)
	assert.True(t, columns[2].IsNumeric)
}
