package config

import "sync"

var (
	openaiOnce   sync.Once
	openaiConfig *OpenAIConfig
)

// OpenAIConfig holds the Azure OpenAI chat-completions settings. All three
// values must be present for the LLM paths to activate; otherwise the
// pipeline stays fully rule-based.
type OpenAIConfig struct {
	Endpoint   string
	Deployment string
	APIKey     string
	APIVersion string
}

func GetOpenAIConfig() *OpenAIConfig {
	openaiOnce.Do(func() {
		loadEnv()
		openaiConfig = &OpenAIConfig{
			Endpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
			Deployment: getEnv("AZURE_OPENAI_DEPLOYMENT", ""),
			APIKey:     getEnv("AZURE_OPENAI_API_KEY", ""),
			APIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2023-12-01-preview"),
		}
	})
	return openaiConfig
}

func (c *OpenAIConfig) Configured() bool {
	return c.Endpoint != "" && c.Deployment != "" && c.APIKey != ""
}
