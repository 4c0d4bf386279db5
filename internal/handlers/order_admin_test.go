package handlers

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookstore/internal/models"
)

func filterForQuery(t *testing.T, query string) (bson.M, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/orders/admin/all"+query, nil)
	return buildAdminOrderFilter(c)
}

func TestAdminOrderFilterDateOnlyToSpansWholeDay(t *testing.T) {
	filter, err := filterForQuery(t, "?from=2025-03-01&to=2025-03-01")
	if err != nil {
		t.Fatal(err)
	}

	created := filter["createdAt"].(bson.M)
	wantFrom := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2025, 3, 1, 23, 59, 59, 999999999, time.UTC)
	if got := created["$gte"].(time.Time); !got.Equal(wantFrom) {
		t.Errorf("$gte = %v, want %v", got, wantFrom)
	}
	if got := created["$lte"].(time.Time); !got.Equal(wantTo) {
		t.Errorf("$lte = %v, want %v", got, wantTo)
	}
}

func TestAdminOrderFilterTimestampToIsExact(t *testing.T) {
	filter, err := filterForQuery(t, "?to=2025-03-01T10%3A00%3A00Z")
	if err != nil {
		t.Fatal(err)
	}

	created := filter["createdAt"].(bson.M)
	want := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	if got := created["$lte"].(time.Time); !got.Equal(want) {
		t.Errorf("$lte = %v, want exact instant %v", got, want)
	}
}

func TestAdminOrderFilterRejectsBadInput(t *testing.T) {
	if _, err := filterForQuery(t, "?to=yesterday"); err == nil {
		t.Error("expected error for unparseable date")
	}
	if _, err := filterForQuery(t, "?status=processing"); err == nil {
		t.Error("expected error for status outside the accepted set")
	}
}

func TestCSVRowFor(t *testing.T) {
	order := models.Order{
		OrderNumber: "BK-20250301-101500-A1B2",
		Customer: models.OrderCustomer{
			Name:  "Abdullah Khan",
			Email: "abdullah@example.com",
			Phone: "9876543210",
		},
		Items: []models.OrderItem{
			{BookID: primitive.NewObjectID(), Name: "Riyadh us Saliheen", Price: 450, Quantity: 2, Language: "english"},
			{BookID: primitive.NewObjectID(), Name: "Tafseer Ibn Kathir", Price: 1200, Quantity: 1, Language: "urdu"},
		},
		Amount: 2100.5,
		Status: models.OrderStatusShipped,
		ShippingAddress: models.ShippingAddress{
			Line1:   "12 MG Road",
			City:    "Bengaluru",
			State:   "Karnataka",
			Pincode: "560001",
		},
		CreatedAt: time.Date(2025, 3, 1, 10, 15, 0, 0, time.UTC),
		Fulfillment: models.Fulfillment{
			TrackingNumber:   "TRK99",
			ShippingProvider: "Delhivery",
		},
	}

	want := []string{
		"BK-20250301-101500-A1B2",
		"Abdullah Khan",
		"abdullah@example.com",
		"9876543210",
		"Riyadh us Saliheen x2; Tafseer Ibn Kathir x1",
		"3",
		"2100.50",
		"shipped",
		"12 MG Road",
		"",
		"Bengaluru",
		"Karnataka",
		"560001",
		"2025-03-01 10:15:00",
		"TRK99",
		"Delhivery",
	}

	got := csvRowFor(order)
	if len(got) != len(csvHeader) {
		t.Fatalf("row has %d columns, header has %d", len(got), len(csvHeader))
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("csvRowFor = %v, want %v", got, want)
	}
}
