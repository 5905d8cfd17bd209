package config

import (
	"fmt"
	"net/url"
	"sync"
)

var (
	sqlOnce   sync.Once
	sqlConfig *SQLServerConfig
)

// SQLServerConfig holds the connection settings for the customer SQL
// Server instance the catalog and preview run against.
type SQLServerConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	// ConnString, when set, wins over the discrete fields.
	ConnString string
}

func GetSQLServerConfig() *SQLServerConfig {
	sqlOnce.Do(func() {
		loadEnv()
		sqlConfig = &SQLServerConfig{
			Host:       getEnv("SQLSERVER_HOST", ""),
			Port:       getEnvInt("SQLSERVER_PORT", 1433),
			User:       getEnv("SQLSERVER_USER", ""),
			Password:   getEnv("SQLSERVER_PASSWORD", ""),
			ConnString: getEnv("SQLSERVER_CONN_STR", ""),
		}
	})
	return sqlConfig
}

// Configured reports whether enough settings exist to open a connection.
// When false, the catalog serves demo metadata instead of touching a server.
func (c *SQLServerConfig) Configured() bool {
	return c.ConnString != "" || (c.Host != "" && c.User != "")
}

// DSN builds a go-mssqldb connection URL for the given database. An empty
// database keeps the server default.
func (c *SQLServerConfig) DSN(database string) string {
	if c.ConnString != "" {
		if database == "" {
			return c.ConnString
		}
		return c.ConnString + "&database=" + url.QueryEscape(database)
	}
	u := &url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
	}
	q := url.Values{}
	q.Set("encrypt", "disable")
	if database != "" {
		q.Set("database", database)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
