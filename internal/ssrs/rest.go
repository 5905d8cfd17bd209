package ssrs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/MoSmadi/SSRS-Report-Generator-BE/pkg/logger"
)

func (c *Client) restBase() string {
	return strings.TrimRight(c.cfg.RenderBase, "/") + "/reports/api/v2.0"
}

// SystemInfo fetches the server's system information. Best effort: any
// failure returns nil without error.
func (c *Client) SystemInfo(ctx context.Context) map[string]any {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.restBase()+"/SystemInfo", nil)
	if err != nil {
		return nil
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var info map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil
	}
	return info
}

// DataSourceRef binds a report data source to a shared data source item.
type DataSourceRef struct {
	ID           string `json:"Id,omitempty"`
	Name         string `json:"Name"`
	DataSourceID string `json:"DataSourceId"`
}

// SetReportDataSources rebinds data sources through the REST API, trying
// both the id and path addressing forms. Returns true on the first URL
// that succeeds.
func (c *Client) SetReportDataSources(ctx context.Context, reportPathOrID string, refs []DataSourceRef) bool {
	payload, err := json.Marshal(map[string]any{"DataSources": refs})
	if err != nil {
		return false
	}

	candidates := []string{
		fmt.Sprintf("%s/Reports(%s)/DataSources", c.restBase(), reportPathOrID),
		fmt.Sprintf("%s/Reports(Path='%s')/DataSources", c.restBase(), url.PathEscape(reportPathOrID)),
	}
	for _, candidate := range candidates {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, candidate, bytes.NewReader(payload))
		if err != nil {
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		c.authorize(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			continue
		}
		resp.Body.Close()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return true
		}
		c.logger.Debug("rest data source rebind rejected",
			logger.String("url", candidate),
			logger.Int("status", resp.StatusCode),
		)
	}
	return false
}
