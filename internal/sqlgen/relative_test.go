package sqlgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveRelativeValue(t *testing.T) {
	now := time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		value string
		want  string
	}{
		{"last_day_7", "2024-06-08"},
		{"last_week_2", "2024-06-01"},
		{"last_month_3", "2024-03-15"},
		{"last_quarter_1", "2024-03-15"},
		{"last_year_1", "2023-06-15"},
		{"2024-01-01", "2024-01-01"},
		{"EMEA", "EMEA"},
		{"last_month_", "last_month_"},
		{"last_fortnight_2", "last_fortnight_2"},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveRelativeValue(tt.value, now))
		})
	}
}
