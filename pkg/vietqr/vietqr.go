// Package vietqr generates bank-transfer QR codes through the VietQR
// public API.
package vietqr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/KunN-21/Bus-ticket/config"
)

type Client struct {
	url         string
	accountNo   string
	accountName string
	bankID      int
	template    string
	httpClient  *http.Client
}

func NewClient(cfg *config.PaymentConfig) *Client {
	return &Client{
		url:         cfg.VietQRURL,
		accountNo:   cfg.AccountNo,
		accountName: cfg.AccountName,
		bankID:      cfg.BankID,
		template:    cfg.Template,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

type generateRequest struct {
	AccountNo   string  `json:"accountNo"`
	AccountName string  `json:"accountName"`
	AcqID       int     `json:"acqId"`
	Amount      float64 `json:"amount"`
	AddInfo     string  `json:"addInfo"`
	Template    string  `json:"template"`
}

type generateResponse struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
	Data struct {
		QRCode    string `json:"qrCode"`
		QRDataURL string `json:"qrDataURL"`
	} `json:"data"`
}

// Generate returns a data-URL image of the transfer QR. The transfer
// note carries the booking id so incoming payments can be matched.
func (c *Client) Generate(ctx context.Context, bookingID string, amount float64) (string, error) {
	payload := generateRequest{
		AccountNo:   c.accountNo,
		AccountName: c.accountName,
		AcqID:       c.bankID,
		Amount:      amount,
		AddInfo:     "VOOBUS " + bookingID,
		Template:    c.template,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal vietqr request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build vietqr request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("vietqr request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("vietqr returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode vietqr response: %w", err)
	}
	if out.Code != "00" {
		return "", fmt.Errorf("vietqr error %s: %s", out.Code, out.Desc)
	}
	if out.Data.QRDataURL == "" {
		return "", fmt.Errorf("vietqr response missing qr image")
	}
	return out.Data.QRDataURL, nil
}
