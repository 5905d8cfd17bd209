package config

import "sync"

var (
	serverOnce   sync.Once
	serverConfig *ServerConfig
)

// ServerConfig holds the HTTP listener settings and the optional API key
// required from callers via the X-API-Key header.
type ServerConfig struct {
	Host     string
	Port     int
	APIKey   string
	LogLevel string
}

func GetServerConfig() *ServerConfig {
	serverOnce.Do(func() {
		loadEnv()
		serverConfig = &ServerConfig{
			Host:     getEnv("SERVER_HOST", "0.0.0.0"),
			Port:     getEnvInt("SERVER_PORT", 8000),
			APIKey:   getEnv("API_KEY", ""),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		}
	})
	return serverConfig
}
