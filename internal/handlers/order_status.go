package handlers

import (
	"strings"
	"time"

	"bookstore/internal/models"
)

// Carriers accepted in fulfillment updates.
var shippingProviders = map[string]bool{
	"Delhivery":  true,
	"BlueDart":   true,
	"DTDC":       true,
	"India Post": true,
	"Ekart":      true,
	"XpressBees": true,
	"Other":      true,
}

// normalizeOrderStatus maps an admin-supplied status to its canonical form.
// The accepted set is pending/shipped/delivered/RTO; anything else is
// rejected by the caller with a validation error.
func normalizeOrderStatus(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case models.OrderStatusPending:
		return models.OrderStatusPending, true
	case models.OrderStatusShipped:
		return models.OrderStatusShipped, true
	case models.OrderStatusDelivered:
		return models.OrderStatusDelivered, true
	case models.OrderStatusRTO:
		return models.OrderStatusRTO, true
	}
	return "", false
}

// fulfillmentUpdate is a partial update: nil fields are retained as stored.
type fulfillmentUpdate struct {
	TrackingNumber    *string
	ShippingProvider  *string
	TrackingURL       *string
	EstimatedDelivery *string
	Notes             *string
}

// applyStatusUpdate merges fulfillment fields and applies the status change
// in place. ShippedAt/DeliveredAt are stamped only on the first entry into
// their status; redundant or repeated transitions leave them untouched.
// Returns true when the new status warrants a customer notification.
func applyStatusUpdate(order *models.Order, newStatus string, update fulfillmentUpdate, now time.Time) bool {
	prior := order.Status

	if update.TrackingNumber != nil {
		order.Fulfillment.TrackingNumber = strings.TrimSpace(*update.TrackingNumber)
	}
	if update.ShippingProvider != nil {
		order.Fulfillment.ShippingProvider = strings.TrimSpace(*update.ShippingProvider)
	}
	if update.TrackingURL != nil {
		order.Fulfillment.TrackingURL = strings.TrimSpace(*update.TrackingURL)
	}
	if update.EstimatedDelivery != nil {
		order.Fulfillment.EstimatedDelivery = strings.TrimSpace(*update.EstimatedDelivery)
	}
	if update.Notes != nil {
		order.Fulfillment.Notes = strings.TrimSpace(*update.Notes)
	}

	if newStatus == models.OrderStatusShipped && prior != models.OrderStatusShipped && order.Fulfillment.ShippedAt == nil {
		stamp := now
		order.Fulfillment.ShippedAt = &stamp
	}
	if newStatus == models.OrderStatusDelivered && prior != models.OrderStatusDelivered && order.Fulfillment.DeliveredAt == nil {
		stamp := now
		order.Fulfillment.DeliveredAt = &stamp
	}

	order.Status = newStatus
	order.UpdatedAt = now

	switch newStatus {
	case models.OrderStatusShipped, models.OrderStatusDelivered, models.OrderStatusRTO:
		return true
	}
	return false
}
