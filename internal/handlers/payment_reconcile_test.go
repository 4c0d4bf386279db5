package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"bookstore/internal/gateway"
)

func paidGateway() *fakeGateway {
	return &fakeGateway{statusResult: &gateway.StatusResult{
		Success:     true,
		Code:        "PAYMENT_SUCCESS",
		State:       "COMPLETED",
		AmountPaise: 49950,
	}}
}

func existingOrderDoc(txnID, orderNumber string) bson.D {
	return bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "orderNumber", Value: orderNumber},
		{Key: "txnId", Value: txnID},
		{Key: "status", Value: "pending"},
		{Key: "paymentStatus", Value: "paid"},
		{Key: "amount", Value: 499.5},
	}
}

func insertCommandCount(mt *mtest.T) int {
	count := 0
	for _, evt := range mt.GetAllStartedEvents() {
		if evt.CommandName == "insert" {
			count++
		}
	}
	return count
}

func decodeReconcileResponse(t *testing.T, body []byte) (bool, string) {
	t.Helper()
	var resp struct {
		Success bool `json:"success"`
		Order   struct {
			OrderNumber string `json:"orderNumber"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Success, resp.Order.OrderNumber
}

func TestReconcileReturnsExistingOrderForKnownTxn(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("known txn short-circuits before insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bookstore.orders", mtest.FirstBatch,
			existingOrderDoc("T123", "BK-20250301-101500-AAAA")))

		w := postJSON(CheckOrderPaymentStatus(mt.DB, paidGateway(), "secret"), "/check",
			gin.H{"merchantTransactionId": "T123"}, nil)
		require.Equal(mt.T, http.StatusOK, w.Code)

		success, orderNumber := decodeReconcileResponse(mt.T, w.Body.Bytes())
		assert.True(mt.T, success)
		assert.Equal(mt.T, "BK-20250301-101500-AAAA", orderNumber)
		assert.Zero(mt.T, insertCommandCount(mt), "reconcile of a recorded txn must not insert")
	})
}

func TestReconcileDuplicateInsertFallsBackToStoredOrder(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("racing insert loses and re-reads", func(mt *mtest.T) {
		bookID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "bookstore.orders", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, "bookstore.books", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: bookID},
				{Key: "name", Value: "Sahih al-Bukhari"},
				{Key: "price", Value: 950.0},
				{Key: "isActive", Value: true},
			}),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "E11000 duplicate key error",
			}),
			mtest.CreateCursorResponse(0, "bookstore.orders", mtest.FirstBatch,
				existingOrderDoc("T123", "BK-20250301-101500-AAAA")),
		)

		body := gin.H{
			"merchantTransactionId": "T123",
			"cartItems": []gin.H{
				{"bookId": bookID.Hex(), "quantity": 2, "language": "english"},
			},
			"guestInfo": gin.H{
				"name":  "Abdullah Khan",
				"email": "abdullah@example.com",
				"phone": "9876543210",
				"address": gin.H{
					"fullName": "Abdullah Khan",
					"phone":    "9876543210",
					"line1":    "12 MG Road",
					"city":     "Bengaluru",
					"state":    "Karnataka",
					"pincode":  "560001",
				},
			},
		}

		w := postJSON(CheckOrderPaymentStatus(mt.DB, paidGateway(), "secret"), "/check", body, nil)
		require.Equal(mt.T, http.StatusOK, w.Code)

		success, orderNumber := decodeReconcileResponse(mt.T, w.Body.Bytes())
		assert.True(mt.T, success)
		assert.Equal(mt.T, "BK-20250301-101500-AAAA", orderNumber,
			"losing racer must surface the stored order")
		assert.Equal(mt.T, 1, insertCommandCount(mt), "exactly one insert attempt")
	})
}
