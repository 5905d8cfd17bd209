package models

import "fmt"

// RdlType is the scalar type SSRS understands for dataset fields and
// report parameters.
type RdlType string

const (
	RdlString   RdlType = "String"
	RdlInteger  RdlType = "Integer"
	RdlFloat    RdlType = "Float"
	RdlDateTime RdlType = "DateTime"
	RdlBoolean  RdlType = "Boolean"
)

// ColumnMetadata describes one column of a customer database as seen by the
// schema catalog. Instances are produced fresh per catalog query and never
// mutated afterwards.
type ColumnMetadata struct {
	Schema       string   `json:"schema"`
	Table        string   `json:"table"`
	Column       string   `json:"column"`
	DataType     string   `json:"dataType"`
	IsNumeric    bool     `json:"isNumeric"`
	IsDateLike   bool     `json:"isDateLike"`
	SampleValues []string `json:"sampleValues,omitempty"`
	Name         string   `json:"name,omitempty"`
	BracketedName string  `json:"bracketedName,omitempty"`
}

// QualifiedName returns the bracket-delimited identifier that uniquely
// names this column within a catalog snapshot.
func (c ColumnMetadata) QualifiedName() string {
	if c.BracketedName != "" {
		return c.BracketedName
	}
	if len(c.Name) > 0 && c.Name[0] == '[' {
		return c.Name
	}
	return fmt.Sprintf("[%s].[%s].[%s]", c.Schema, c.Table, c.Column)
}

// DottedName returns the plain schema.table.column form.
func (c ColumnMetadata) DottedName() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("%s.%s.%s", c.Schema, c.Table, c.Column)
}
