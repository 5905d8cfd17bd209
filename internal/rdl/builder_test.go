package rdl

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/models"
)

func minimalInput() Input {
	return Input{
		DataSourceName:       "MainDataSource",
		SharedDataSourcePath: "/_Shared/MainDS",
		DatasetName:          "SalesByMonth",
		SQL:                  "SELECT Region, SUM(SalesAmount) AS SalesAmount FROM dbo.FactSales GROUP BY Region",
		Fields: []models.ColumnDef{
			{Name: "Region", RdlType: models.RdlString, DisplayName: "Region"},
			{Name: "SalesAmount", RdlType: models.RdlFloat, DisplayName: "Sales"},
		},
	}
}

// wellFormed walks the document with a decoder so any unbalanced or badly
// escaped output fails the test.
func wellFormed(t *testing.T, document []byte) {
	t.Helper()
	decoder := xml.NewDecoder(bytes.NewReader(document))
	for {
		_, err := decoder.Token()
		if err == io.EOF {
			return
		}
		require.NoError(t, err)
	}
}

func TestBuildMinimalDocument(t *testing.T) {
	document, err := Build(minimalInput())
	require.NoError(t, err)
	wellFormed(t, document)

	text := string(document)
	assert.True(t, strings.HasPrefix(text, xml.Header))
	assert.Contains(t, text, `xmlns="`+DefaultNamespace+`"`)
	assert.Contains(t, text, `xmlns:rd="`+designerNamespace+`"`)
	assert.Contains(t, text, "<DataSourceReference>/_Shared/MainDS</DataSourceReference>")
	assert.Contains(t, text, `<DataSource Name="MainDataSource">`)
	assert.Contains(t, text, `<DataSet Name="SalesByMonth">`)
	assert.Contains(t, text, "<CommandType>Text</CommandType>")
	assert.Contains(t, text, "<rd:TypeName>String</rd:TypeName>")
	assert.Contains(t, text, "<rd:TypeName>Float</rd:TypeName>")
	assert.Contains(t, text, "<rd:ReportID>")
	assert.NotContains(t, text, "<QueryParameters>")
	assert.NotContains(t, text, "<ReportParameters>")
	assert.NotContains(t, text, "<Chart")
}

func TestBuildEscapesSQL(t *testing.T) {
	in := minimalInput()
	in.SQL = "SELECT a FROM t WHERE a < 5 AND b > 'x & y'"

	document, err := Build(in)
	require.NoError(t, err)
	wellFormed(t, document)

	assert.Contains(t, string(document), "a &lt; 5")
	assert.NotContains(t, string(document), "a < 5")
}

func TestBuildDeclaresParameters(t *testing.T) {
	in := minimalInput()
	in.Parameters = []models.ParamDef{
		{Name: "@date", RdlType: models.RdlDateTime},
		{Name: "Region", RdlType: models.RdlString, Prompt: "Pick a region"},
	}

	document, err := Build(in)
	require.NoError(t, err)
	wellFormed(t, document)

	text := string(document)
	assert.Contains(t, text, `<QueryParameter Name="@date">`)
	assert.Contains(t, text, "<Value>=Parameters!date.Value</Value>")
	assert.Contains(t, text, `<ReportParameter Name="date">`)
	assert.Contains(t, text, "<DataType>DateTime</DataType>")
	assert.Contains(t, text, "<Prompt>Pick a region</Prompt>")
	// Prompt falls back to the bare parameter name.
	assert.Contains(t, text, "<Prompt>date</Prompt>")
}

func TestBuildTablixBindsFieldsInOrder(t *testing.T) {
	document, err := Build(minimalInput())
	require.NoError(t, err)

	text := string(document)
	assert.Contains(t, text, "<Value>Region</Value>")
	assert.Contains(t, text, "<Value>Sales</Value>")
	assert.Contains(t, text, "<Value>=Fields!Region.Value</Value>")
	assert.Contains(t, text, "<Value>=Fields!SalesAmount.Value</Value>")
	assert.Less(t,
		strings.Index(text, "=Fields!Region.Value"),
		strings.Index(text, "=Fields!SalesAmount.Value"))
	assert.Contains(t, text, "<FontWeight>Bold</FontWeight>")
}

func TestBuildChart(t *testing.T) {
	in := minimalInput()
	in.Chart = &models.ChartSpec{
		Type:     "line",
		Category: "Region",
		Values:   []string{"SalesAmount"},
	}

	document, err := Build(in)
	require.NoError(t, err)
	wellFormed(t, document)

	text := string(document)
	assert.Contains(t, text, `<Chart Name="MainChart">`)
	assert.Contains(t, text, "<ChartType>Line</ChartType>")
	assert.Contains(t, text, "<Label>=Fields!Region.Value</Label>")
	assert.Contains(t, text, "<Value>=Fields!SalesAmount.Value</Value>")
}

func TestBuildChartRejectsUndeclaredFields(t *testing.T) {
	tests := []struct {
		name  string
		chart *models.ChartSpec
	}{
		{"unknown category", &models.ChartSpec{Type: "line", Category: "Nope", Values: []string{"SalesAmount"}}},
		{"unknown value", &models.ChartSpec{Type: "line", Category: "Region", Values: []string{"Nope"}}},
		{"missing category", &models.ChartSpec{Type: "line", Values: []string{"SalesAmount"}}},
		{"missing values", &models.ChartSpec{Type: "line", Category: "Region"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := minimalInput()
			in.Chart = tt.chart
			_, err := Build(in)
			assert.Error(t, err)
		})
	}
}

func TestBuildValidatesRequiredInputs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"missing dataset name", func(in *Input) { in.DatasetName = "" }},
		{"missing data source name", func(in *Input) { in.DataSourceName = "" }},
		{"no fields", func(in *Input) { in.Fields = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := minimalInput()
			tt.mutate(&in)
			_, err := Build(in)
			assert.Error(t, err)
		})
	}
}

func TestBuildUniqueReportIDs(t *testing.T) {
	first, err := Build(minimalInput())
	require.NoError(t, err)
	second, err := Build(minimalInput())
	require.NoError(t, err)

	assert.NotEqual(t, string(first), string(second))
}
