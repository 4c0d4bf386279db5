package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookstore/internal/gateway"
)

type fakeGateway struct {
	initiateURL    string
	initiateErr    error
	statusResult   *gateway.StatusResult
	statusErr      error
	lastTxnID      string
	lastAmount     int64
	lastMerchantID string
}

func (f *fakeGateway) InitiatePayment(ctx context.Context, txnID string, amountPaise int64, merchantUserID string) (string, error) {
	f.lastTxnID = txnID
	f.lastAmount = amountPaise
	f.lastMerchantID = merchantUserID
	return f.initiateURL, f.initiateErr
}

func (f *fakeGateway) CheckStatus(ctx context.Context, txnID string) (*gateway.StatusResult, error) {
	f.lastTxnID = txnID
	return f.statusResult, f.statusErr
}

func postJSON(handler gin.HandlerFunc, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST(path, handler)

	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGeneratePaymentURL(t *testing.T) {
	gw := &fakeGateway{initiateURL: "https://pay.example/redirect"}

	w := postJSON(GeneratePaymentURL(gw, "secret"), "/pay", gin.H{"totalAmount": 499.5}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success               bool   `json:"success"`
		RedirectURL           string `json:"redirectUrl"`
		MerchantTransactionID string `json:"merchantTransactionId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "https://pay.example/redirect", resp.RedirectURL)
	assert.Equal(t, gw.lastTxnID, resp.MerchantTransactionID)
	assert.Equal(t, int64(49950), gw.lastAmount)
	assert.Equal(t, "GUEST", gw.lastMerchantID)
}

func TestGeneratePaymentURLWithToken(t *testing.T) {
	userID := primitive.NewObjectID()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID.Hex(),
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	gw := &fakeGateway{initiateURL: "https://pay.example/redirect"}
	w := postJSON(GeneratePaymentURL(gw, "secret"), "/pay", gin.H{"totalAmount": 100},
		map[string]string{"Authorization": "Bearer " + signed})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.Hex(), gw.lastMerchantID)
}

func TestGeneratePaymentURLRejectsInvalidAmount(t *testing.T) {
	gw := &fakeGateway{}
	w := postJSON(GeneratePaymentURL(gw, "secret"), "/pay", gin.H{"totalAmount": 0}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, gw.lastTxnID)
}

func TestGeneratePaymentURLGatewayDown(t *testing.T) {
	gw := &fakeGateway{initiateErr: errors.New("timeout")}
	w := postJSON(GeneratePaymentURL(gw, "secret"), "/pay", gin.H{"totalAmount": 100}, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCheckPaymentGatewayUnavailable(t *testing.T) {
	gw := &fakeGateway{statusErr: errors.New("timeout")}

	w := postJSON(CheckOrderPaymentStatus(nil, gw, "secret"), "/check",
		gin.H{"merchantTransactionId": "T123"}, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCheckPaymentFailedCreatesNothing(t *testing.T) {
	gw := &fakeGateway{statusResult: &gateway.StatusResult{Success: false, Code: "PAYMENT_ERROR"}}

	w := postJSON(CheckOrderPaymentStatus(nil, gw, "secret"), "/check",
		gin.H{"merchantTransactionId": "T123"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success       bool   `json:"success"`
		PaymentStatus string `json:"paymentStatus"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "failed", resp.PaymentStatus)
	assert.Equal(t, "T123", gw.lastTxnID)
}

func TestOptionalUserID(t *testing.T) {
	userID := primitive.NewObjectID()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID.Hex(),
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	got := optionalUserID("Bearer "+signed, "secret")
	require.NotNil(t, got)
	assert.Equal(t, userID, *got)

	assert.Nil(t, optionalUserID("", "secret"))
	assert.Nil(t, optionalUserID("Bearer garbage", "secret"))
	assert.Nil(t, optionalUserID("Bearer "+signed, "wrong-secret"))
}
