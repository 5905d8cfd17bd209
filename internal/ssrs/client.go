// Package ssrs talks to the report server: SOAP (ReportService2010) for
// uploading definitions and binding shared data sources, and the v2.0
// REST API for the best-effort extras. No call here is retried.
package ssrs

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MoSmadi/SSRS-Report-Generator-BE/config"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/pkg/logger"
)

// UploadResult identifies the created catalog item.
type UploadResult struct {
	Path string `json:"path"`
	ID   string `json:"id"`
}

// Client is a thin report-server client.
type Client struct {
	cfg        *config.SSRSConfig
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient builds a client over the SSRS settings.
func NewClient(cfg *config.SSRSConfig, log logger.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: log,
	}
}

// DefaultFolder is the configured catalog folder for published reports.
func (c *Client) DefaultFolder() string {
	return c.cfg.ReportFolder
}

// DefaultSharedDataSource is the configured shared data source path.
func (c *Client) DefaultSharedDataSource() string {
	return c.cfg.SharedDSPath
}

func (c *Client) authorize(req *http.Request) {
	if c.cfg.User != "" {
		req.SetBasicAuth(c.cfg.User, c.cfg.Password)
	}
}

// RenderURL builds the PDF render link for a published item, carrying the
// given parameter defaults.
func (c *Client) RenderURL(itemPath string, defaults map[string]string) string {
	base := strings.TrimRight(c.cfg.RenderBase, "/")
	if !strings.HasPrefix(itemPath, "/") {
		itemPath = "/" + itemPath
	}

	query := url.Values{}
	query.Set("rs:Command", "Render")
	query.Set("rs:Format", "PDF")
	for key, value := range defaults {
		query.Set(key, value)
	}
	return base + "?" + escapePath(itemPath) + "&" + query.Encode()
}

// escapePath encodes an item path for the render URL, keeping slashes.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.QueryEscape(segment)
	}
	return strings.Join(segments, "/")
}
