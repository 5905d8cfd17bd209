package models

// Grain is the time-bucketing granularity used to group a date column.
type Grain string

const (
	GrainDay     Grain = "day"
	GrainWeek    Grain = "week"
	GrainMonth   Grain = "month"
	GrainQuarter Grain = "quarter"
	GrainYear    Grain = "year"
	GrainNone    Grain = "none"
)

// Grains lists the bucketable granularities in detection order.
var Grains = []Grain{GrainDay, GrainWeek, GrainMonth, GrainQuarter, GrainYear}

// IsBucketed reports whether the grain selects an actual time bucket.
func (g Grain) IsBucketed() bool {
	switch g {
	case GrainDay, GrainWeek, GrainMonth, GrainQuarter, GrainYear:
		return true
	}
	return false
}

// IntentFilter is a single WHERE-style constraint extracted from the
// request text. Value may hold a symbolic relative range such as
// "last_month_3" that must be resolved before it reaches SQL.
type IntentFilter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// ChartIntent is the chart hint inferred from the request text.
type ChartIntent struct {
	Type   string   `json:"type"`
	X      string   `json:"x"`
	Y      string   `json:"y"`
	Series []string `json:"series,omitempty"`
}

// IntentSpec is the structured reporting spec produced by the intent
// parser. Metrics is never empty and Title always has a fallback; the
// spec is read-only once built.
type IntentSpec struct {
	Title      string         `json:"title"`
	Metrics    []string       `json:"metrics"`
	Dimensions []string       `json:"dimensions"`
	Filters    []IntentFilter `json:"filters"`
	Grain      Grain          `json:"grain"`
	Chart      *ChartIntent   `json:"chart,omitempty"`
}
