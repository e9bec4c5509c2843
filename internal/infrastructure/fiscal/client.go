// Package fiscal implements the HTTP client for the external fiscal
// device gateway. The gateway owns the actual device protocol; this
// client only submits finished sale payloads and reads back the
// certificate.
package fiscal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/takudzwan/fiscalpos-api/internal/config"
	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
	"github.com/takudzwan/fiscalpos-api/internal/domain/repository"
)

// Client talks to the fiscal gateway over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a fiscal gateway client from configuration.
func NewClient(cfg *config.FiscalConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type submitLinePayload struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	DiscountPct float64 `json:"discount_pct"`
	VATRate     float64 `json:"vat_rate"`
	SubTotal    float64 `json:"sub_total"`
	TaxAmount   float64 `json:"tax_amount"`
	TotalPrice  float64 `json:"total_price"`
}

type submitSaleRequest struct {
	DeviceID     string              `json:"device_id"`
	Reference    string              `json:"reference"`
	IsCreditNote bool                `json:"is_credit_note"`
	Currency     string              `json:"currency"`
	SubTotal     float64             `json:"sub_total"`
	TaxAmount    float64             `json:"tax_amount"`
	TotalAmount  float64             `json:"total_amount"`
	Lines        []submitLinePayload `json:"lines"`
}

type submitSaleResponse struct {
	ReceiptID        string `json:"receipt_id"`
	VerificationCode string `json:"verification_code"`
	VerificationURL  string `json:"verification_url"`
	Error            string `json:"error,omitempty"`
}

// SubmitSale certifies an order on the given device. Negative-total
// orders are submitted as credit notes.
func (c *Client) SubmitSale(ctx context.Context, device *entity.Device, order *entity.Order) (*repository.FiscalReceipt, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("fiscal gateway is not configured")
	}
	if device == nil {
		return nil, fmt.Errorf("no fiscal device bound to session")
	}

	payload := submitSaleRequest{
		DeviceID:     device.FiscalDeviceID,
		Reference:    order.Reference,
		IsCreditNote: order.TotalAmount < 0,
		Currency:     order.Currency,
		SubTotal:     float64(order.SubTotal) / 100,
		TaxAmount:    float64(order.TaxAmount) / 100,
		TotalAmount:  float64(order.TotalAmount) / 100,
	}
	for _, line := range order.Lines {
		payload.Lines = append(payload.Lines, submitLinePayload{
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   float64(line.UnitPrice) / 100,
			DiscountPct: line.DiscountPct,
			VATRate:     line.VATRate,
			SubTotal:    float64(line.SubTotal) / 100,
			TaxAmount:   float64(line.TaxAmount) / 100,
			TotalPrice:  float64(line.TotalPrice) / 100,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode fiscal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/receipts", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build fiscal request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Debug("submitting sale to fiscal gateway",
		zap.String("reference", order.Reference),
		zap.String("device_id", device.FiscalDeviceID),
		zap.Bool("credit_note", payload.IsCreditNote),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fiscal gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read fiscal response: %w", err)
	}

	var result submitSaleResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("fiscal gateway returned malformed response (status %d)", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg := result.Error
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("fiscal gateway rejected submission: %s", msg)
	}

	if result.ReceiptID == "" {
		return nil, fmt.Errorf("fiscal gateway returned no receipt ID")
	}

	return &repository.FiscalReceipt{
		ReceiptID:        result.ReceiptID,
		VerificationCode: result.VerificationCode,
		VerificationURL:  result.VerificationURL,
	}, nil
}
