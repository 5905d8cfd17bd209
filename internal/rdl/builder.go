// Package rdl renders SSRS report-definition documents. The document is
// assembled as a typed XML tree so every user-supplied string is escaped
// by the encoder and the emitted structure stays testable.
package rdl

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/models"
)

// DefaultNamespace is the 2016 report-definition schema namespace.
const DefaultNamespace = "http://schemas.microsoft.com/sqlserver/reporting/2016/01/reportdefinition"

const designerNamespace = "http://schemas.microsoft.com/SQLServer/reporting/reportdesigner"

// Input carries everything the builder needs for one document.
type Input struct {
	Namespace            string
	DataSourceName       string
	SharedDataSourcePath string
	DatasetName          string
	SQL                  string
	Parameters           []models.ParamDef
	Fields               []models.ColumnDef
	Chart                *models.ChartSpec
}

// Build renders the report definition. It fails when required inputs are
// missing or when the chart references a field absent from the dataset
// field list.
func Build(in Input) ([]byte, error) {
	if in.DatasetName == "" {
		return nil, fmt.Errorf("rdl: dataset name is required")
	}
	if in.DataSourceName == "" {
		return nil, fmt.Errorf("rdl: data source name is required")
	}
	if len(in.Fields) == 0 {
		return nil, fmt.Errorf("rdl: at least one dataset field is required")
	}
	namespace := in.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	declared := make(map[string]bool, len(in.Fields))
	fields := make([]fieldXML, 0, len(in.Fields))
	for _, f := range in.Fields {
		declared[f.Name] = true
		fields = append(fields, fieldXML{
			Name:      f.Name,
			DataField: f.Name,
			TypeName:  string(f.RdlType),
		})
	}

	chart, err := buildChart(in, declared)
	if err != nil {
		return nil, err
	}

	doc := reportXML{
		Xmlns:       namespace,
		XmlnsRD:     designerNamespace,
		AutoRefresh: 0,
		DataSources: dataSourcesXML{
			DataSource: dataSourceXML{
				Name:      in.DataSourceName,
				Reference: in.SharedDataSourcePath,
			},
		},
		DataSets: dataSetsXML{
			DataSet: dataSetXML{
				Name: in.DatasetName,
				Query: queryXML{
					DataSourceName:  in.DataSourceName,
					CommandType:     "Text",
					CommandText:     in.SQL,
					QueryParameters: buildQueryParams(in.Parameters),
				},
				Fields: fields,
			},
		},
		ReportParameters: buildReportParams(in.Parameters),
		Body: bodyXML{
			ReportItems: reportItemsXML{
				Tablix: buildTablix(in.DatasetName, in.Fields),
				Chart:  chart,
			},
			Height: "4in",
		},
		Width:    "8in",
		Page:     pageXML{PageHeight: "11in", PageWidth: "8.5in"},
		ReportID: uuid.NewString(),
	}

	rendered, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("rdl: marshal document: %w", err)
	}
	return append([]byte(xml.Header), rendered...), nil
}

func buildQueryParams(params []models.ParamDef) *queryParamsXML {
	if len(params) == 0 {
		return nil
	}
	out := &queryParamsXML{}
	for _, p := range params {
		bare := strings.TrimPrefix(p.Name, "@")
		out.Parameters = append(out.Parameters, queryParamXML{
			Name:  p.Name,
			Value: fmt.Sprintf("=Parameters!%s.Value", bare),
		})
	}
	return out
}

func buildReportParams(params []models.ParamDef) *reportParamsXML {
	if len(params) == 0 {
		return nil
	}
	out := &reportParamsXML{}
	for _, p := range params {
		prompt := p.Prompt
		if prompt == "" {
			prompt = strings.TrimPrefix(p.Name, "@")
		}
		out.Parameters = append(out.Parameters, reportParamXML{
			Name:     strings.TrimPrefix(p.Name, "@"),
			DataType: string(p.RdlType),
			Prompt:   prompt,
			Hidden:   false,
		})
	}
	return out
}

// buildTablix declares one column per field and two rows: the header with
// display names, and the detail row bound to each field by name. Field
// order follows the caller-supplied list, which fixes the column order.
func buildTablix(datasetName string, fields []models.ColumnDef) tablixXML {
	columns := make([]tablixColumnXML, 0, len(fields))
	headerCells := make([]tablixCellXML, 0, len(fields))
	detailCells := make([]tablixCellXML, 0, len(fields))
	columnMembers := make([]tablixMemberXML, 0, len(fields))

	for i, f := range fields {
		columns = append(columns, tablixColumnXML{Width: "1in"})
		columnMembers = append(columnMembers, tablixMemberXML{})

		display := f.DisplayName
		if display == "" {
			display = f.Name
		}
		headerCells = append(headerCells, tablixCellXML{
			Contents: cellContentsXML{
				Textbox: textboxXML{
					Name:  fmt.Sprintf("Header%d", i+1),
					Value: display,
					Style: &textStyleXML{FontWeight: "Bold"},
				},
			},
		})
		detailCells = append(detailCells, tablixCellXML{
			Contents: cellContentsXML{
				Textbox: textboxXML{
					Name:  fmt.Sprintf("Detail%d", i+1),
					Value: fmt.Sprintf("=Fields!%s.Value", f.Name),
				},
			},
		})
	}

	return tablixXML{
		Name: "MainTable",
		TablixBody: tablixBodyXML{
			Columns: columns,
			Rows: []tablixRowXML{
				{Height: "0.25in", Cells: headerCells},
				{Height: "0.25in", Cells: detailCells},
			},
		},
		DataSetName:     datasetName,
		ColumnHierarchy: tablixHierarchyXML{Members: columnMembers},
		RowHierarchy: tablixHierarchyXML{
			Members: []tablixMemberXML{
				{KeepWithGroup: "After"},
				{Group: &tablixGroupXML{Name: "Details"}},
			},
		},
	}
}

func buildChart(in Input, declared map[string]bool) (*chartXML, error) {
	spec := in.Chart
	if spec == nil {
		return nil, nil
	}
	if spec.Category == "" || len(spec.Values) == 0 {
		return nil, fmt.Errorf("rdl: chart requires a category and at least one value field")
	}
	if !declared[spec.Category] {
		return nil, fmt.Errorf("rdl: chart category %q is not a dataset field", spec.Category)
	}
	for _, value := range spec.Values {
		if !declared[value] {
			return nil, fmt.Errorf("rdl: chart value %q is not a dataset field", value)
		}
	}

	seriesLabels := spec.Series
	if len(seriesLabels) == 0 {
		seriesLabels = []string{"Series"}
	}
	seriesMembers := make([]chartMemberXML, 0, len(seriesLabels))
	for _, label := range seriesLabels {
		seriesMembers = append(seriesMembers, chartMemberXML{Label: label})
	}

	series := make([]chartSeriesXML, 0, len(spec.Values))
	for _, value := range spec.Values {
		series = append(series, chartSeriesXML{
			DataPoints: []chartDataPointXML{{
				Values: []chartDataValueXML{{
					Value: fmt.Sprintf("=Fields!%s.Value", value),
				}},
			}},
		})
	}

	chartType := spec.Type
	if chartType != "" {
		chartType = strings.ToUpper(chartType[:1]) + chartType[1:]
	}

	return &chartXML{
		Name: "MainChart",
		CategoryHierarchy: chartHierarchyXML{
			Members: []chartMemberXML{{
				Label: fmt.Sprintf("=Fields!%s.Value", spec.Category),
			}},
		},
		SeriesHierarchy: chartHierarchyXML{Members: seriesMembers},
		ChartData:       chartDataXML{Series: series},
		DataSetName:     in.DatasetName,
		ChartType:       chartType,
	}, nil
}
