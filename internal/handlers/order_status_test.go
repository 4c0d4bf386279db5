package handlers

import (
	"testing"
	"time"

	"bookstore/internal/models"
)

func strPtr(s string) *string { return &s }

func TestNormalizeOrderStatus(t *testing.T) {
	cases := []struct {
		in    string
		want  string
		valid bool
	}{
		{"pending", models.OrderStatusPending, true},
		{"Shipped", models.OrderStatusShipped, true},
		{"DELIVERED", models.OrderStatusDelivered, true},
		{"RTO", models.OrderStatusRTO, true},
		{"rto", models.OrderStatusRTO, true},
		{" shipped ", models.OrderStatusShipped, true},
		{"processing", "", false},
		{"cancelled", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := normalizeOrderStatus(tc.in)
		if ok != tc.valid || got != tc.want {
			t.Errorf("normalizeOrderStatus(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.valid)
		}
	}
}

func TestApplyStatusUpdateStampsShippedOnce(t *testing.T) {
	order := models.Order{Status: models.OrderStatusPending}
	first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	notify := applyStatusUpdate(&order, models.OrderStatusShipped, fulfillmentUpdate{
		TrackingNumber:   strPtr("TRK1"),
		ShippingProvider: strPtr("Delhivery"),
	}, first)
	if !notify {
		t.Fatal("expected notification for shipped transition")
	}
	if order.Fulfillment.ShippedAt == nil || !order.Fulfillment.ShippedAt.Equal(first) {
		t.Fatalf("ShippedAt = %v, want %v", order.Fulfillment.ShippedAt, first)
	}

	applyStatusUpdate(&order, models.OrderStatusShipped, fulfillmentUpdate{
		Notes: strPtr("left warehouse"),
	}, second)
	if !order.Fulfillment.ShippedAt.Equal(first) {
		t.Errorf("ShippedAt changed on redundant update: %v", order.Fulfillment.ShippedAt)
	}
	if order.Fulfillment.TrackingNumber != "TRK1" {
		t.Errorf("TrackingNumber = %q, want TRK1 retained", order.Fulfillment.TrackingNumber)
	}
	if order.Fulfillment.Notes != "left warehouse" {
		t.Errorf("Notes = %q", order.Fulfillment.Notes)
	}
}

func TestApplyStatusUpdateShippedTimestampSurvivesRoundTrip(t *testing.T) {
	order := models.Order{Status: models.OrderStatusPending}
	first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	applyStatusUpdate(&order, models.OrderStatusShipped, fulfillmentUpdate{}, first)
	applyStatusUpdate(&order, models.OrderStatusPending, fulfillmentUpdate{}, first.Add(time.Hour))
	applyStatusUpdate(&order, models.OrderStatusShipped, fulfillmentUpdate{}, first.Add(2*time.Hour))

	if !order.Fulfillment.ShippedAt.Equal(first) {
		t.Errorf("ShippedAt = %v, want original %v", order.Fulfillment.ShippedAt, first)
	}
}

func TestApplyStatusUpdateDelivered(t *testing.T) {
	order := models.Order{Status: models.OrderStatusShipped}
	now := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)

	notify := applyStatusUpdate(&order, models.OrderStatusDelivered, fulfillmentUpdate{}, now)
	if !notify {
		t.Fatal("expected notification for delivered transition")
	}
	if order.Fulfillment.DeliveredAt == nil || !order.Fulfillment.DeliveredAt.Equal(now) {
		t.Fatalf("DeliveredAt = %v, want %v", order.Fulfillment.DeliveredAt, now)
	}
	if order.Fulfillment.ShippedAt != nil {
		t.Errorf("ShippedAt stamped on delivered transition: %v", order.Fulfillment.ShippedAt)
	}
}

func TestApplyStatusUpdatePendingNoNotification(t *testing.T) {
	order := models.Order{Status: models.OrderStatusShipped}
	if applyStatusUpdate(&order, models.OrderStatusPending, fulfillmentUpdate{}, time.Now()) {
		t.Error("pending transition should not notify")
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("Status = %q", order.Status)
	}
}

func TestApplyStatusUpdateMergesPartialFulfillment(t *testing.T) {
	order := models.Order{
		Status: models.OrderStatusShipped,
		Fulfillment: models.Fulfillment{
			TrackingNumber:   "TRK1",
			ShippingProvider: "BlueDart",
			Notes:            "fragile",
		},
	}
	applyStatusUpdate(&order, models.OrderStatusShipped, fulfillmentUpdate{
		Notes: strPtr("handed to courier"),
	}, time.Now())

	if order.Fulfillment.TrackingNumber != "TRK1" {
		t.Errorf("TrackingNumber = %q, want TRK1", order.Fulfillment.TrackingNumber)
	}
	if order.Fulfillment.ShippingProvider != "BlueDart" {
		t.Errorf("ShippingProvider = %q, want BlueDart", order.Fulfillment.ShippingProvider)
	}
	if order.Fulfillment.Notes != "handed to courier" {
		t.Errorf("Notes = %q", order.Fulfillment.Notes)
	}
}
