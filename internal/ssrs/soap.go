package ssrs

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
)

const reportServiceNS = "http://schemas.microsoft.com/sqlserver/reporting/2010/06/01/ReportServer"

type soapEnvelope struct {
	XMLName  xml.Name `xml:"soap:Envelope"`
	XmlnsSoap string  `xml:"xmlns:soap,attr"`
	XmlnsXSI  string  `xml:"xmlns:xsi,attr"`
	Body     soapBody `xml:"soap:Body"`
}

type soapBody struct {
	// Content's own XMLName decides the operation element.
	Content any
}

type createCatalogItemRequest struct {
	XMLName    xml.Name `xml:"CreateCatalogItem"`
	Xmlns      string   `xml:"xmlns,attr"`
	ItemType   string   `xml:"ItemType"`
	Name       string   `xml:"Name"`
	Parent     string   `xml:"Parent"`
	Overwrite  bool     `xml:"Overwrite"`
	Definition string   `xml:"Definition"`
}

type createCatalogItemResponse struct {
	Path string `xml:"Path"`
	ID   string `xml:"ID"`
}

type setItemDataSourcesRequest struct {
	XMLName     xml.Name             `xml:"SetItemDataSources"`
	Xmlns       string               `xml:"xmlns,attr"`
	ItemPath    string               `xml:"ItemPath"`
	DataSources []soapDataSourceXML  `xml:"DataSources>DataSource"`
}

type soapDataSourceXML struct {
	Name string            `xml:"Name"`
	Item dataSourceItemXML `xml:"DataSourceReference"`
}

type dataSourceItemXML struct {
	Reference string `xml:"Reference"`
}

// UploadRDL creates (or overwrites) a report under folder and returns its
// catalog path and id.
func (c *Client) UploadRDL(ctx context.Context, folder, name string, definition []byte) (UploadResult, error) {
	request := createCatalogItemRequest{
		Xmlns:      reportServiceNS,
		ItemType:   "Report",
		Name:       name,
		Parent:     folder,
		Overwrite:  true,
		Definition: base64.StdEncoding.EncodeToString(definition),
	}

	body, err := c.soapCall(ctx, "CreateCatalogItem", request)
	if err != nil {
		return UploadResult{}, fmt.Errorf("ssrs: upload report definition: %w", err)
	}

	var parsed struct {
		ItemInfo createCatalogItemResponse `xml:"Body>CreateCatalogItemResponse>ItemInfo"`
	}
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return UploadResult{}, fmt.Errorf("ssrs: parse upload response: %w", err)
	}
	if parsed.ItemInfo.Path == "" {
		return UploadResult{}, fmt.Errorf("ssrs: upload response carried no item path")
	}
	return UploadResult{Path: parsed.ItemInfo.Path, ID: parsed.ItemInfo.ID}, nil
}

// SetSharedDataSource points the named data source of an uploaded item at
// a shared data source path.
func (c *Client) SetSharedDataSource(ctx context.Context, itemPath, dataSourceName, sharedPath string) error {
	request := setItemDataSourcesRequest{
		Xmlns:    reportServiceNS,
		ItemPath: itemPath,
		DataSources: []soapDataSourceXML{{
			Name: dataSourceName,
			Item: dataSourceItemXML{Reference: sharedPath},
		}},
	}

	if _, err := c.soapCall(ctx, "SetItemDataSources", request); err != nil {
		return fmt.Errorf("ssrs: set shared data source: %w", err)
	}
	return nil
}

func (c *Client) soapCall(ctx context.Context, action string, content any) ([]byte, error) {
	envelope := soapEnvelope{
		XmlnsSoap: "http://schemas.xmlsoap.org/soap/envelope/",
		XmlnsXSI:  "http://www.w3.org/2001/XMLSchema-instance",
		Body:      soapBody{Content: content},
	}
	payload, err := xml.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	payload = append([]byte(xml.Header), payload...)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.SoapEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", fmt.Sprintf("%q", reportServiceNS+"/"+action))
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d: %.200s", resp.StatusCode, body)
	}
	return body, nil
}
