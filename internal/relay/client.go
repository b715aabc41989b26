package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	TriggerImageGeneration = "image_generation"
	TriggerImageEdit       = "image_edit"
	TriggerPDFGeneration   = "pdf_generation"
	TriggerSendProposal    = "send_proposal"
)

const errNotConfigured = "webhook URL not configured"

// Result is the outcome of one relay notification. Callers branch on Success;
// the relay body is kept opaque in Data.
type Result struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Notifier delivers the four lifecycle notifications to the automation relay.
// Each call makes at most one delivery attempt.
type Notifier interface {
	GenerateImages(ctx context.Context, payload ImageGenerationPayload) Result
	EditImage(ctx context.Context, payload ImageEditPayload) Result
	GeneratePDF(ctx context.Context, payload PDFGenerationPayload) Result
	SendProposal(ctx context.Context, payload SendProposalPayload) Result
}

type URLs struct {
	ImageGeneration string
	ImageEdit       string
	PDFGeneration   string
	SendProposal    string
}

type Client struct {
	urls       URLs
	httpClient *http.Client
}

func NewClient(urls URLs) *Client {
	return &Client{
		urls: urls,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) GenerateImages(ctx context.Context, payload ImageGenerationPayload) Result {
	return c.post(ctx, c.urls.ImageGeneration, payload)
}

func (c *Client) EditImage(ctx context.Context, payload ImageEditPayload) Result {
	return c.post(ctx, c.urls.ImageEdit, payload)
}

func (c *Client) GeneratePDF(ctx context.Context, payload PDFGenerationPayload) Result {
	return c.post(ctx, c.urls.PDFGeneration, payload)
}

func (c *Client) SendProposal(ctx context.Context, payload SendProposalPayload) Result {
	return c.post(ctx, c.urls.SendProposal, payload)
}

func (c *Client) post(ctx context.Context, url string, payload any) Result {
	if url == "" {
		return failure(errNotConfigured)
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return failure(fmt.Sprintf("failed to marshal payload: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return failure(fmt.Sprintf("failed to create request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failure(fmt.Sprintf("failed to execute request: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(fmt.Sprintf("failed to read response body: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failure(fmt.Sprintf("HTTP error! status: %d", resp.StatusCode))
	}

	return Result{Success: true, Data: opaque(body)}
}

// opaque keeps a JSON body as-is and quotes anything else as a JSON string.
func opaque(body []byte) json.RawMessage {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return quoted
}

func failure(reason string) Result {
	return Result{Success: false, Error: reason}
}
