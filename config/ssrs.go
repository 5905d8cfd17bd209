package config

import "sync"

var (
	ssrsOnce   sync.Once
	ssrsConfig *SSRSConfig
)

// SSRSConfig holds the report-server endpoints and publish defaults.
type SSRSConfig struct {
	SoapEndpoint string
	RenderBase   string
	ReportFolder string
	SharedDSPath string
	User         string
	Password     string
}

func GetSSRSConfig() *SSRSConfig {
	ssrsOnce.Do(func() {
		loadEnv()
		ssrsConfig = &SSRSConfig{
			SoapEndpoint: getEnv("SSRS_SOAP_ENDPOINT", "http://your-ssrs/ReportServer/ReportService2010.asmx"),
			RenderBase:   getEnv("SSRS_RENDER_BASE", "http://your-ssrs/ReportServer"),
			ReportFolder: getEnv("SSRS_REPORT_FOLDER", "/AutoReports"),
			SharedDSPath: getEnv("SHARED_DS_PATH", "/_Shared/MainDS"),
			User:         getEnv("SSRS_USER", ""),
			Password:     getEnv("SSRS_PASSWORD", ""),
		}
	})
	return ssrsConfig
}
