// Package remote implements the bill store contract against a billed
// server over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/billed-app/billed-server/internal/bills"
	"github.com/billed-app/billed-server/internal/models"
)

const userHeader = "X-User-Email"

// Client is an HTTP bill store bound to one employee identity.
type Client struct {
	baseURL    string
	email      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the store at baseURL, acting as email.
func NewClient(baseURL, email string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		email:      email,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// ListBills fetches the employee's raw bill records.
func (c *Client) ListBills(ctx context.Context) ([]models.Bill, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/bills", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	var billList []models.Bill
	if err := c.do(req, &billList); err != nil {
		return nil, err
	}
	return billList, nil
}

// CreateFile uploads a receipt as multipart form data.
func (c *Client) CreateFile(ctx context.Context, receipt bills.Receipt) (models.FileRef, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	part, err := mw.CreateFormFile("file", receipt.Name)
	if err != nil {
		return models.FileRef{}, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(receipt.Content); err != nil {
		return models.FileRef{}, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return models.FileRef{}, fmt.Errorf("failed to build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/bills/files", body)
	if err != nil {
		return models.FileRef{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var ref models.FileRef
	if err := c.do(req, &ref); err != nil {
		return models.FileRef{}, err
	}
	return ref, nil
}

// UpdateBill persists the bill: POST when it has no id yet, PUT otherwise.
func (c *Client) UpdateBill(ctx context.Context, bill models.Bill) (models.Bill, error) {
	payload, err := json.Marshal(bill)
	if err != nil {
		return models.Bill{}, fmt.Errorf("failed to marshal bill: %w", err)
	}

	method, url := http.MethodPost, c.baseURL+"/api/bills"
	if bill.ID != 0 {
		method, url = http.MethodPut, fmt.Sprintf("%s/api/bills/%d", c.baseURL, bill.ID)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return models.Bill{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var stored models.Bill
	if err := c.do(req, &stored); err != nil {
		return models.Bill{}, err
	}
	return stored, nil
}

// do sends the request and decodes the JSON response into out. A non-2xx
// status becomes an "Erreur <code>" error, which callers surface verbatim.
func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set(userHeader, c.email)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach bill store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("Bill store request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("Erreur %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

var _ bills.Store = (*Client)(nil)
