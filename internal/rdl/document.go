package rdl

import "encoding/xml"

// XML document model for an SSRS report definition. Prefixed names are
// written literally into the element names so the marshaller emits the
// rd: designer namespace the way report servers expect it.

type reportXML struct {
	XMLName          xml.Name          `xml:"Report"`
	Xmlns            string            `xml:"xmlns,attr"`
	XmlnsRD          string            `xml:"xmlns:rd,attr"`
	AutoRefresh      int               `xml:"AutoRefresh"`
	DataSources      dataSourcesXML    `xml:"DataSources"`
	DataSets         dataSetsXML       `xml:"DataSets"`
	ReportParameters *reportParamsXML  `xml:"ReportParameters,omitempty"`
	Body             bodyXML           `xml:"Body"`
	Width            string            `xml:"Width"`
	Page             pageXML           `xml:"Page"`
	ReportID         string            `xml:"rd:ReportID"`
}

type dataSourcesXML struct {
	DataSource dataSourceXML `xml:"DataSource"`
}

type dataSourceXML struct {
	Name      string `xml:"Name,attr"`
	Reference string `xml:"DataSourceReference"`
}

type dataSetsXML struct {
	DataSet dataSetXML `xml:"DataSet"`
}

type dataSetXML struct {
	Name   string     `xml:"Name,attr"`
	Query  queryXML   `xml:"Query"`
	Fields []fieldXML `xml:"Fields>Field"`
}

type queryXML struct {
	DataSourceName  string           `xml:"DataSourceName"`
	CommandType     string           `xml:"CommandType"`
	CommandText     string           `xml:"CommandText"`
	QueryParameters *queryParamsXML  `xml:"QueryParameters,omitempty"`
}

type queryParamsXML struct {
	Parameters []queryParamXML `xml:"QueryParameter"`
}

type queryParamXML struct {
	Name  string `xml:"Name,attr"`
	Value string `xml:"Value"`
}

type fieldXML struct {
	Name      string `xml:"Name,attr"`
	DataField string `xml:"DataField"`
	TypeName  string `xml:"rd:TypeName"`
}

type reportParamsXML struct {
	Parameters []reportParamXML `xml:"ReportParameter"`
}

type reportParamXML struct {
	Name     string `xml:"Name,attr"`
	DataType string `xml:"DataType"`
	Prompt   string `xml:"Prompt"`
	Hidden   bool   `xml:"Hidden"`
}

type bodyXML struct {
	ReportItems reportItemsXML `xml:"ReportItems"`
	Height      string         `xml:"Height"`
}

type reportItemsXML struct {
	Tablix tablixXML `xml:"Tablix"`
	Chart  *chartXML `xml:"Chart,omitempty"`
}

type pageXML struct {
	PageHeight string `xml:"PageHeight"`
	PageWidth  string `xml:"PageWidth"`
}

// Tablix: a two-row table with a header row and one detail row per field.

type tablixXML struct {
	Name               string             `xml:"Name,attr"`
	TablixBody         tablixBodyXML      `xml:"TablixBody"`
	DataSetName        string             `xml:"DataSetName"`
	ColumnHierarchy    tablixHierarchyXML `xml:"TablixColumnHierarchy"`
	RowHierarchy       tablixHierarchyXML `xml:"TablixRowHierarchy"`
}

type tablixBodyXML struct {
	Columns []tablixColumnXML `xml:"TablixColumns>TablixColumn"`
	Rows    []tablixRowXML    `xml:"TablixRows>TablixRow"`
}

type tablixColumnXML struct {
	Width string `xml:"Width"`
}

type tablixRowXML struct {
	Height string          `xml:"Height"`
	Cells  []tablixCellXML `xml:"TablixCells>TablixCell"`
}

type tablixCellXML struct {
	Contents cellContentsXML `xml:"CellContents"`
}

type cellContentsXML struct {
	Textbox textboxXML `xml:"Textbox"`
}

type textboxXML struct {
	Name  string       `xml:"Name,attr"`
	Value string       `xml:"Value"`
	Style *textStyleXML `xml:"Style,omitempty"`
}

type textStyleXML struct {
	FontWeight string `xml:"FontWeight,omitempty"`
}

type tablixHierarchyXML struct {
	Members []tablixMemberXML `xml:"TablixMembers>TablixMember"`
}

type tablixMemberXML struct {
	KeepWithGroup string           `xml:"KeepWithGroup,omitempty"`
	Group         *tablixGroupXML  `xml:"Group,omitempty"`
}

type tablixGroupXML struct {
	Name string `xml:"Name,attr"`
}

// Chart: one category grouping with one series per bound value field.

type chartXML struct {
	Name              string              `xml:"Name,attr"`
	CategoryHierarchy chartHierarchyXML   `xml:"ChartCategoryHierarchy"`
	SeriesHierarchy   chartHierarchyXML   `xml:"ChartSeriesHierarchy"`
	ChartData         chartDataXML        `xml:"ChartData"`
	DataSetName       string              `xml:"DataSetName"`
	ChartType         string              `xml:"ChartType"`
}

type chartHierarchyXML struct {
	Members []chartMemberXML `xml:"ChartMembers>ChartMember"`
}

type chartMemberXML struct {
	Label string `xml:"Label"`
}

type chartDataXML struct {
	Series []chartSeriesXML `xml:"ChartSeriesCollection>ChartSeries"`
}

type chartSeriesXML struct {
	DataPoints []chartDataPointXML `xml:"DataPoints>DataPoint"`
}

type chartDataPointXML struct {
	Values []chartDataValueXML `xml:"DataValues>DataValue"`
}

type chartDataValueXML struct {
	Value string `xml:"Value"`
}
