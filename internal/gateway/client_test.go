package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) Config {
	return Config{
		MerchantID:  "M123",
		SaltKey:     "test-salt",
		SaltIndex:   "1",
		BaseURL:     baseURL,
		RedirectURL: "https://store.example/payment/redirect",
		CallbackURL: "https://store.example/payment/callback",
	}
}

func TestChecksumFormat(t *testing.T) {
	sum := sha256.Sum256([]byte("payload/pg/v1/paytest-salt"))
	expected := hex.EncodeToString(sum[:]) + "###1"

	assert.Equal(t, expected, checksum("payload"+payEndpoint, "test-salt", "1"))
}

func TestInitiatePaymentReturnsRedirectURL(t *testing.T) {
	var gotVerify string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, payEndpoint, r.URL.Path)
		gotVerify = r.Header.Get("X-VERIFY")

		var body struct {
			Request string `json:"request"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		raw, err := base64.StdEncoding.DecodeString(body.Request)
		require.NoError(t, err)

		var payload payRequest
		require.NoError(t, json.Unmarshal(raw, &payload))
		assert.Equal(t, "M123", payload.MerchantID)
		assert.Equal(t, int64(49999), payload.Amount)
		assert.Equal(t, "PAY_PAGE", payload.PaymentInstrument.Type)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"code":"PAYMENT_INITIATED","data":{"instrumentResponse":{"redirectInfo":{"url":"https://pay.example/page/abc"}}}}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	url, err := client.InitiatePayment(context.Background(), "T20240101120000ABCDEF1234", 49999, "user-1")

	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/page/abc", url)
	assert.Contains(t, gotVerify, "###1")
}

func TestInitiatePaymentMissingRedirectFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"code":"PAYMENT_INITIATED","data":{}}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.InitiatePayment(context.Background(), "T1", 100, "")

	assert.Error(t, err)
}

func TestCheckStatusMapsSuccessCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, statusEndpoint+"/M123/T1", r.URL.Path)
		require.Equal(t, "M123", r.Header.Get("X-MERCHANT-ID"))
		require.NotEmpty(t, r.Header.Get("X-VERIFY"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"code":"PAYMENT_SUCCESS","data":{"state":"COMPLETED","amount":50000}}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	result, err := client.CheckStatus(context.Background(), "T1")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(50000), result.AmountPaise)
	assert.Equal(t, "COMPLETED", result.State)
}

func TestCheckStatusFailedPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"code":"PAYMENT_ERROR","data":{"state":"FAILED","amount":50000}}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	result, err := client.CheckStatus(context.Background(), "T1")

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "PAYMENT_ERROR", result.Code)
}

func TestMoneyConversion(t *testing.T) {
	assert.Equal(t, int64(49999), RupeesToPaise(499.99))
	assert.Equal(t, int64(10), RupeesToPaise(0.1))
	assert.Equal(t, 500.0, PaiseToRupees(50000))
	assert.Equal(t, 499.99, PaiseToRupees(49999))
}

func TestNewTxnIDShape(t *testing.T) {
	a := NewTxnID()
	b := NewTxnID()

	assert.True(t, len(a) > 15)
	assert.Equal(t, byte('T'), a[0])
	assert.NotEqual(t, a, b)
}
