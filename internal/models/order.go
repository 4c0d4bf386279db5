package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status values. Transitions between them are unconstrained; only the
// first entry into shipped/delivered stamps its timestamp.
const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusRTO       = "rto"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// OrderItem is a purchase-time snapshot: name and price are captured at order
// creation and never recomputed from the current catalog.
type OrderItem struct {
	BookID   primitive.ObjectID `bson:"bookId" json:"bookId"`
	Name     string             `bson:"name" json:"name"`
	Price    float64            `bson:"price" json:"price"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Language string             `bson:"language" json:"language"`
}

// OrderCustomer captures contact details at order-creation time, independent
// of later profile edits.
type OrderCustomer struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// ShippingAddress is a copied value, never a reference into the user's
// address book.
type ShippingAddress struct {
	FullName string `bson:"fullName" json:"fullName"`
	Phone    string `bson:"phone" json:"phone"`
	Line1    string `bson:"line1" json:"line1"`
	Line2    string `bson:"line2,omitempty" json:"line2,omitempty"`
	City     string `bson:"city" json:"city"`
	State    string `bson:"state" json:"state"`
	Pincode  string `bson:"pincode" json:"pincode"`
}

// Fulfillment tracks shipping metadata, populated incrementally by admin
// status updates. ShippedAt and DeliveredAt are set at most once.
type Fulfillment struct {
	TrackingNumber    string     `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	ShippingProvider  string     `bson:"shippingProvider,omitempty" json:"shippingProvider,omitempty"`
	TrackingURL       string     `bson:"trackingUrl,omitempty" json:"trackingUrl,omitempty"`
	EstimatedDelivery string     `bson:"estimatedDelivery,omitempty" json:"estimatedDelivery,omitempty"`
	Notes             string     `bson:"notes,omitempty" json:"notes,omitempty"`
	ShippedAt         *time.Time `bson:"shippedAt,omitempty" json:"shippedAt,omitempty"`
	DeliveredAt       *time.Time `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
}

// Order defines the persisted order document. TxnID is the gateway-issued
// transaction ID and the idempotency key for reconciliation.
type Order struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OrderNumber     string              `bson:"orderNumber" json:"orderNumber"`
	TxnID           string              `bson:"txnId" json:"txnId"`
	UserID          *primitive.ObjectID `bson:"userId" json:"userId"`
	IsGuestOrder    bool                `bson:"isGuestOrder" json:"isGuestOrder"`
	Items           []OrderItem         `bson:"items" json:"items"`
	Customer        OrderCustomer       `bson:"customer" json:"customer"`
	ShippingAddress ShippingAddress     `bson:"shippingAddress" json:"shippingAddress"`
	Amount          float64             `bson:"amount" json:"amount"`
	Status          string              `bson:"status" json:"status"`
	PaymentStatus   string              `bson:"paymentStatus" json:"paymentStatus"`
	Fulfillment     Fulfillment         `bson:"fulfillment" json:"fulfillment"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}
