// Package vietqr generates transfer QR codes through the VietQR API.
package vietqr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fadhlanhapp/congno-backend/models"
	"github.com/fadhlanhapp/congno-backend/utils"
)

// DefaultBaseURL is the public VietQR API
const DefaultBaseURL = "https://api.vietqr.io/v2"

const successCode = "00"

// Client calls the VietQR generate endpoint.
type Client struct {
	baseURL    string
	clientID   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new VietQR client.
func NewClient(baseURL, clientID, apiKey string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		clientID:   strings.TrimSpace(clientID),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type generateResponse struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
	Data *struct {
		QRDataURL string `json:"qrDataURL"`
		QRCode    string `json:"qrCode"`
	} `json:"data"`
}

// Generate posts the payload to VietQR and returns the encoded code.
// Transport failures, non-2xx statuses and non-"00" result codes are UpstreamServiceErrors.
func (c *Client) Generate(ctx context.Context, payload models.PaymentPayload) (*models.QRResult, error) {
	if c.clientID == "" || c.apiKey == "" {
		return nil, utils.NewUpstreamServiceError(utils.ErrQRNotConfigured, "", nil)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-id", c.clientID)
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, utils.NewUpstreamServiceError(utils.ErrQRGeneration, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, utils.NewUpstreamServiceError(utils.ErrQRGeneration, "", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, utils.NewUpstreamServiceError(utils.ErrQRGeneration, string(raw),
			fmt.Errorf("vietqr returned status %d", resp.StatusCode))
	}

	var result generateResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, utils.NewUpstreamServiceError(utils.ErrQRGeneration, "", fmt.Errorf("failed to decode response: %w", err))
	}
	if result.Code != "" && result.Code != successCode {
		message := utils.FirstNonEmpty(result.Desc, utils.ErrQRGeneration)
		return nil, utils.NewUpstreamServiceError(message, "code "+result.Code,
			fmt.Errorf("vietqr returned code %s", result.Code))
	}

	qr := &models.QRResult{
		AccountName: payload.AccountName,
		AccountNo:   payload.AccountNumber,
		AcqID:       payload.BankCode,
		Amount:      payload.Amount,
		AddInfo:     payload.Memo,
	}
	if result.Data != nil {
		qr.QRDataURL = optional(result.Data.QRDataURL)
		qr.QRCode = optional(result.Data.QRCode)
	}
	return qr, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
