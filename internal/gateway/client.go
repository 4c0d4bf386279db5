package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	payEndpoint    = "/pg/v1/pay"
	statusEndpoint = "/pg/v1/status"

	codePaymentSuccess = "PAYMENT_SUCCESS"
)

type Config struct {
	MerchantID  string
	SaltKey     string
	SaltIndex   string
	BaseURL     string
	RedirectURL string
	CallbackURL string
}

// Client talks to the hosted-payment-page gateway. Every call is signed with
// the keyed checksum scheme the gateway mandates (see checksum.go).
type Client struct {
	cfg  Config
	http *resty.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(30 * time.Second),
	}
}

// NewTxnID generates a merchant transaction ID: time-seeded for human
// readability, random suffix for uniqueness.
func NewTxnID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return "T" + time.Now().Format("20060102150405") + strings.ToUpper(suffix)
}

type payRequest struct {
	MerchantID            string            `json:"merchantId"`
	MerchantTransactionID string            `json:"merchantTransactionId"`
	MerchantUserID        string            `json:"merchantUserId"`
	Amount                int64             `json:"amount"`
	RedirectURL           string            `json:"redirectUrl"`
	RedirectMode          string            `json:"redirectMode"`
	CallbackURL           string            `json:"callbackUrl"`
	PaymentInstrument     paymentInstrument `json:"paymentInstrument"`
}

type paymentInstrument struct {
	Type string `json:"type"`
}

type payResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Data    struct {
		InstrumentResponse struct {
			RedirectInfo struct {
				URL string `json:"url"`
			} `json:"redirectInfo"`
		} `json:"instrumentResponse"`
	} `json:"data"`
}

// StatusResult is the reconciled view of a gateway status poll.
type StatusResult struct {
	Success     bool
	Code        string
	State       string
	AmountPaise int64
}

// InitiatePayment submits a pay-page request and returns the hosted payment
// page URL the client must be redirected to.
func (c *Client) InitiatePayment(ctx context.Context, txnID string, amountPaise int64, merchantUserID string) (string, error) {
	if merchantUserID == "" {
		merchantUserID = "GUEST"
	}

	payload := payRequest{
		MerchantID:            c.cfg.MerchantID,
		MerchantTransactionID: txnID,
		MerchantUserID:        merchantUserID,
		Amount:                amountPaise,
		RedirectURL:           c.cfg.RedirectURL,
		RedirectMode:          "REDIRECT",
		CallbackURL:           c.cfg.CallbackURL,
		PaymentInstrument:     paymentInstrument{Type: "PAY_PAGE"},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode pay request: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-VERIFY", checksum(encoded+payEndpoint, c.cfg.SaltKey, c.cfg.SaltIndex)).
		SetBody(map[string]string{"request": encoded}).
		Post(payEndpoint)
	if err != nil {
		return "", fmt.Errorf("gateway pay request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("gateway pay request failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var parsed payResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", fmt.Errorf("parse pay response: %w", err)
	}

	redirectURL := parsed.Data.InstrumentResponse.RedirectInfo.URL
	if !parsed.Success || redirectURL == "" {
		return "", fmt.Errorf("gateway pay response missing redirect url (code %s)", parsed.Code)
	}

	return redirectURL, nil
}

type statusResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Data    struct {
		State  string `json:"state"`
		Amount int64  `json:"amount"`
	} `json:"data"`
}

// CheckStatus polls the gateway for the outcome of a transaction.
func (c *Client) CheckStatus(ctx context.Context, txnID string) (*StatusResult, error) {
	path := fmt.Sprintf("%s/%s/%s", statusEndpoint, c.cfg.MerchantID, txnID)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-VERIFY", checksum(path, c.cfg.SaltKey, c.cfg.SaltIndex)).
		SetHeader("X-MERCHANT-ID", c.cfg.MerchantID).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("gateway status request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("gateway status request failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var parsed statusResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("parse status response: %w", err)
	}

	return &StatusResult{
		Success:     parsed.Success && parsed.Code == codePaymentSuccess,
		Code:        parsed.Code,
		State:       parsed.Data.State,
		AmountPaise: parsed.Data.Amount,
	}, nil
}
