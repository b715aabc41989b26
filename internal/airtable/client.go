package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	apiKey     string
	baseID     string
	table      string
	httpClient *http.Client
}

// Record is a single Airtable row.
type Record struct {
	ID          string                     `json:"id,omitempty"`
	CreatedTime string                     `json:"createdTime,omitempty"`
	Fields      map[string]json.RawMessage `json:"fields,omitempty"`
	Deleted     bool                       `json:"deleted,omitempty"`
}

type recordsIn struct {
	Records  []recordIn `json:"records"`
	Typecast bool       `json:"typecast"`
}

type recordIn struct {
	ID     string         `json:"id,omitempty"`
	Fields map[string]any `json:"fields"`
}

type recordsOut struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// APIError is an error body returned by the Airtable API.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("airtable: status %d: %s: %s", e.StatusCode, e.Type, e.Message)
}

// NotFound reports whether the error means the record does not exist.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound || e.Type == "ROW_DOES_NOT_EXIST" || e.Type == "NOT_FOUND"
}

func NewClient(apiURL, apiKey, baseID, table string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(apiURL, "/"),
		apiKey:  apiKey,
		baseID:  baseID,
		table:   table,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) CreateRecord(ctx context.Context, fields map[string]any) (*Record, error) {
	body := recordsIn{Records: []recordIn{{Fields: fields}}, Typecast: true}

	var out recordsOut
	if err := c.do(ctx, http.MethodPost, c.tableURL(), body, &out); err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}
	if len(out.Records) == 0 {
		return nil, fmt.Errorf("failed to create record: empty response")
	}
	return &out.Records[0], nil
}

func (c *Client) GetRecord(ctx context.Context, id string) (*Record, error) {
	var out Record
	if err := c.do(ctx, http.MethodGet, c.tableURL()+"/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRecords follows pagination offsets until every record is read.
func (c *Client) ListRecords(ctx context.Context) ([]Record, error) {
	var records []Record
	offset := ""
	for {
		u := c.tableURL()
		if offset != "" {
			u += "?offset=" + url.QueryEscape(offset)
		}

		var page recordsOut
		if err := c.do(ctx, http.MethodGet, u, nil, &page); err != nil {
			return nil, fmt.Errorf("failed to list records: %w", err)
		}
		records = append(records, page.Records...)

		if page.Offset == "" {
			return records, nil
		}
		offset = page.Offset
	}
}

func (c *Client) UpdateRecord(ctx context.Context, id string, fields map[string]any) (*Record, error) {
	body := recordsIn{Records: []recordIn{{ID: id, Fields: fields}}, Typecast: true}

	var out recordsOut
	if err := c.do(ctx, http.MethodPatch, c.tableURL(), body, &out); err != nil {
		return nil, err
	}
	if len(out.Records) == 0 {
		return nil, fmt.Errorf("failed to update record: empty response")
	}
	return &out.Records[0], nil
}

func (c *Client) DeleteRecord(ctx context.Context, id string) error {
	u := c.tableURL() + "?records[]=" + url.QueryEscape(id)
	var out recordsOut
	return c.do(ctx, http.MethodDelete, u, nil, &out)
}

func (c *Client) tableURL() string {
	return c.baseURL + "/" + url.PathEscape(c.baseID) + "/" + url.PathEscape(c.table)
}

func (c *Client) do(ctx context.Context, method, u string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, body)
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}
	return nil
}

// parseAPIError accepts both error shapes Airtable uses:
// {"error": "NOT_FOUND"} and {"error": {"type": "...", "message": "..."}}.
func parseAPIError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status, Message: strings.TrimSpace(string(body))}

	var wrapper struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil || len(wrapper.Error) == 0 {
		return apiErr
	}

	var typ string
	if err := json.Unmarshal(wrapper.Error, &typ); err == nil {
		apiErr.Type = typ
		return apiErr
	}

	var detail struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(wrapper.Error, &detail); err == nil {
		apiErr.Type = detail.Type
		if detail.Message != "" {
			apiErr.Message = detail.Message
		}
	}
	return apiErr
}
