package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()

	assert.Contains(t, p.MetricKeywords, "sales")
	assert.Contains(t, p.DimensionKeywords, "region")
	assert.Equal(t, "date", p.DateField)
	assert.Equal(t, "dbo.FactSales", p.DefaultTable)
	assert.Equal(t, "Untitled Report", p.DefaultTitle)
}

func TestMergeProfileKeepsDefaultsForMissingFields(t *testing.T) {
	merged := mergeProfile(&ReportProfile{
		DateField:    "OrderDate",
		DefaultTable: "dbo.FactOrders",
	})

	assert.Equal(t, "OrderDate", merged.DateField)
	assert.Equal(t, "dbo.FactOrders", merged.DefaultTable)
	assert.Equal(t, DefaultProfile().MetricKeywords, merged.MetricKeywords)
	assert.Equal(t, "Untitled Report", merged.DefaultTitle)
}

func TestMergeProfileOverridesVocabulary(t *testing.T) {
	merged := mergeProfile(&ReportProfile{
		MetricKeywords: []string{"premium", "claims"},
	})

	assert.Equal(t, []string{"premium", "claims"}, merged.MetricKeywords)
	assert.Equal(t, DefaultProfile().DimensionKeywords, merged.DimensionKeywords)
}
