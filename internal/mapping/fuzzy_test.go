package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bracketed identifier", "[dbo].[FactSales].[SalesAmount]", "dbo factsales salesamount"},
		{"snake case", "order_date", "order date"},
		{"mixed punctuation", "Total Sales ($)", "total sales"},
		{"already clean", "region", "region"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize(tt.in))
		})
	}
}

func TestTokenSetScore(t *testing.T) {
	tests := []struct {
		name  string
		term  string
		label string
		want  float64
	}{
		{"exact token", "region", "dbo factsales region", 1.0},
		{"substring containment", "sales", "dbo factsales salesamount", 1.0},
		{"reverse containment", "salesamount", "dbo factsales sales", 1.0},
		{"partial coverage", "net sales", "dbo factsales salesamount", 0.5},
		{"no overlap", "customer", "dbo factsales orderdate", 0.0},
		{"short tokens need equality", "id", "grid", 0.0},
		{"empty term", "", "anything", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tokenSetScore(tt.term, tt.label), 0.001)
		})
	}
}
