package config

import (
	"log"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	profileOnce sync.Once
	profile     *ReportProfile
)

// ReportProfile is the deployment-specific vocabulary the intent parser
// and SQL synthesizer work with. Different customer schemas override the
// date field alias and fact table without code changes.
type ReportProfile struct {
	MetricKeywords    []string `yaml:"metricKeywords"`
	DimensionKeywords []string `yaml:"dimensionKeywords"`
	DateField         string   `yaml:"dateField"`
	DefaultTable      string   `yaml:"defaultTable"`
	DefaultTitle      string   `yaml:"defaultTitle"`
}

// DefaultProfile returns the built-in vocabulary used when no profile file
// is present.
func DefaultProfile() *ReportProfile {
	return &ReportProfile{
		MetricKeywords:    []string{"revenue", "sales", "amount", "profit", "count", "orders"},
		DimensionKeywords: []string{"region", "country", "product", "category", "channel", "segment", "customer"},
		DateField:         "date",
		DefaultTable:      "dbo.FactSales",
		DefaultTitle:      "Untitled Report",
	}
}

// GetReportProfile loads the profile from REPORT_PROFILE_PATH (yaml) once,
// filling any missing fields from the defaults.
func GetReportProfile() *ReportProfile {
	profileOnce.Do(func() {
		loadEnv()
		profile = DefaultProfile()
		path := getEnv("REPORT_PROFILE_PATH", "")
		if path == "" {
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Warning: report profile not readable at %s: %v", path, err)
			return
		}
		loaded := &ReportProfile{}
		if err := yaml.Unmarshal(data, loaded); err != nil {
			log.Printf("Warning: report profile at %s is not valid yaml: %v", path, err)
			return
		}
		profile = mergeProfile(loaded)
	})
	return profile
}

func mergeProfile(loaded *ReportProfile) *ReportProfile {
	merged := DefaultProfile()
	if len(loaded.MetricKeywords) > 0 {
		merged.MetricKeywords = loaded.MetricKeywords
	}
	if len(loaded.DimensionKeywords) > 0 {
		merged.DimensionKeywords = loaded.DimensionKeywords
	}
	if loaded.DateField != "" {
		merged.DateField = loaded.DateField
	}
	if loaded.DefaultTable != "" {
		merged.DefaultTable = loaded.DefaultTable
	}
	if loaded.DefaultTitle != "" {
		merged.DefaultTitle = loaded.DefaultTitle
	}
	return merged
}
