package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MoSmadi/SSRS-Report-Generator-BE/config"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/llm"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/models"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/pkg/logger"
)

// mockChatter implements Chatter for testing.
type mockChatter struct {
	configured bool
	response   string
	err        error
	calls      int
}

func (m *mockChatter) Configured() bool { return m.configured }

func (m *mockChatter) Chat(ctx context.Context, messages []llm.Message, jsonMode bool) (string, error) {
	m.calls++
	return m.response, m.err
}

func newRulesParser(t *testing.T) *Parser {
	t.Helper()
	return NewParser(config.DefaultProfile(), nil, logger.NewTestLogger())
}

func TestParseRulesMetricsAndGrain(t *testing.T) {
	p := newRulesParser(t)

	spec := p.ParseRules("total sales by month and region", "Sales Report")

	assert.Equal(t, "Sales Report", spec.Title)
	assert.Equal(t, []string{"sales"}, spec.Metrics)
	assert.Equal(t, []string{"region"}, spec.Dimensions)
	assert.Equal(t, models.GrainMonth, spec.Grain)
	require.NotNil(t, spec.Chart)
	assert.Equal(t, "line", spec.Chart.Type)
	assert.Equal(t, "month", spec.Chart.X)
	assert.Equal(t, "sales", spec.Chart.Y)
	assert.Equal(t, []string{"region"}, spec.Chart.Series)
}

func TestParseRulesGrainDetection(t *testing.T) {
	p := newRulesParser(t)

	tests := []struct {
		name string
		text string
		want models.Grain
	}{
		{"per day", "revenue per day", models.GrainDay},
		{"by week", "orders by week", models.GrainWeek},
		{"monthly adjective", "monthly revenue", models.GrainMonth},
		{"by quarter", "profit by quarter", models.GrainQuarter},
		{"per year", "sales per year", models.GrainYear},
		{"no grain", "sales by region", models.GrainNone},
		{"earlier grain wins", "per day and by month", models.GrainDay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := p.ParseRules(tt.text, "t")
			assert.Equal(t, tt.want, spec.Grain)
		})
	}
}

func TestParseRulesDefaultsToCountMetric(t *testing.T) {
	p := newRulesParser(t)

	spec := p.ParseRules("something with no known vocabulary", "t")

	assert.Equal(t, []string{"count"}, spec.Metrics)
	assert.Empty(t, spec.Dimensions)
}

func TestParseRulesDateRangeFilter(t *testing.T) {
	p := newRulesParser(t)

	spec := p.ParseRules("sales from 2024-01-01 to 2024-06-30", "t")

	require.Len(t, spec.Filters, 2)
	assert.Equal(t, models.IntentFilter{Field: "date", Operator: ">=", Value: "2024-01-01"}, spec.Filters[0])
	assert.Equal(t, models.IntentFilter{Field: "date", Operator: "<=", Value: "2024-06-30"}, spec.Filters[1])
}

func TestParseRulesRelativeRangeFilter(t *testing.T) {
	p := newRulesParser(t)

	spec := p.ParseRules("revenue for the last 3 months", "t")

	require.Len(t, spec.Filters, 1)
	assert.Equal(t, "date", spec.Filters[0].Field)
	assert.Equal(t, ">=", spec.Filters[0].Operator)
	assert.Equal(t, "last_month_3", spec.Filters[0].Value)
}

func TestParseRulesRegionListFilter(t *testing.T) {
	p := newRulesParser(t)

	spec := p.ParseRules("orders in France and Germany", "t")

	require.Len(t, spec.Filters, 1)
	assert.Equal(t, "region", spec.Filters[0].Field)
	assert.Equal(t, "in", spec.Filters[0].Operator)
	assert.Equal(t, "France,Germany", spec.Filters[0].Value)
}

func TestParseUsesDefaultTitle(t *testing.T) {
	p := newRulesParser(t)

	spec := p.Parse(context.Background(), "sales by region", "  ")

	assert.Equal(t, "Untitled Report", spec.Title)
}

func TestParsePrefersModelWhenConfigured(t *testing.T) {
	chat := &mockChatter{
		configured: true,
		response: "```json\n" +
			`{"title":"Model Title","metrics":["revenue"],"dimensions":["country"],"grain":"quarter"}` +
			"\n```",
	}
	p := NewParser(config.DefaultProfile(), chat, logger.NewTestLogger())

	spec := p.Parse(context.Background(), "quarterly revenue by country", "ignored")

	assert.Equal(t, 1, chat.calls)
	assert.Equal(t, "Model Title", spec.Title)
	assert.Equal(t, []string{"revenue"}, spec.Metrics)
	assert.Equal(t, []string{"country"}, spec.Dimensions)
	assert.Equal(t, models.GrainQuarter, spec.Grain)
}

func TestParseNormalizesModelOutput(t *testing.T) {
	chat := &mockChatter{
		configured: true,
		response:   `{"title":"","metrics":[],"grain":"fortnight"}`,
	}
	p := NewParser(config.DefaultProfile(), chat, logger.NewTestLogger())

	spec := p.Parse(context.Background(), "something", "Fallback Title")

	assert.Equal(t, "Fallback Title", spec.Title)
	assert.Equal(t, []string{"count"}, spec.Metrics)
	assert.Equal(t, models.GrainNone, spec.Grain)
}

func TestParseFallsBackToRulesOnModelError(t *testing.T) {
	chat := &mockChatter{configured: true, err: errors.New("boom")}
	log := logger.NewTestLogger()
	p := NewParser(config.DefaultProfile(), chat, log)

	spec := p.Parse(context.Background(), "total sales by month", "t")

	assert.Equal(t, []string{"sales"}, spec.Metrics)
	assert.Equal(t, models.GrainMonth, spec.Grain)

	entries := log.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, "WARN", entries[0].Level)
}

func TestParseFallsBackToRulesOnInvalidModelJSON(t *testing.T) {
	chat := &mockChatter{configured: true, response: "sorry, here is your report"}
	p := NewParser(config.DefaultProfile(), chat, logger.NewTestLogger())

	spec := p.Parse(context.Background(), "total sales by month", "t")

	assert.Equal(t, []string{"sales"}, spec.Metrics)
}

func TestSpecPayloadBucketedGrain(t *testing.T) {
	payload := SpecPayload(models.IntentSpec{
		Title:   "T",
		Metrics: []string{"sales"},
		Grain:   models.GrainMonth,
		Filters: []models.IntentFilter{{Field: "date", Operator: ">=", Value: "2024-01-01"}},
	})

	assert.Equal(t, "month", payload["grain"])

	sort, ok := payload["sort"].([]map[string]string)
	require.True(t, ok)
	require.Len(t, sort, 1)
	assert.Equal(t, "month", sort[0]["field"])
	assert.Equal(t, "asc", sort[0]["dir"])

	filters, ok := payload["filters"].([]map[string]string)
	require.True(t, ok)
	require.Len(t, filters, 1)
	assert.Equal(t, ">=", filters[0]["op"])
	assert.Equal(t, ">=", filters[0]["operator"])
}

func TestSpecPayloadNoGrainSortsByFirstMetric(t *testing.T) {
	payload := SpecPayload(models.IntentSpec{
		Title:   "T",
		Metrics: []string{"sales", "profit"},
		Grain:   models.GrainNone,
	})

	assert.Nil(t, payload["grain"])

	sort, ok := payload["sort"].([]map[string]string)
	require.True(t, ok)
	require.Len(t, sort, 1)
	assert.Equal(t, "sales", sort[0]["field"])
	assert.Equal(t, "desc", sort[0]["dir"])
}
