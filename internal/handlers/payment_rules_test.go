package handlers

import (
	"regexp"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookstore/internal/models"
)

func TestNewOrderNumberShape(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 15, 30, 0, time.UTC)
	number := newOrderNumber(now)

	pattern := regexp.MustCompile(`^BK-20250301-101530-[0-9A-F]{4}$`)
	if !pattern.MatchString(number) {
		t.Errorf("order number %q does not match expected shape", number)
	}
}

func TestBuildOrderItemsFromCartSnapshots(t *testing.T) {
	bookID := primitive.NewObjectID()
	goneID := primitive.NewObjectID()

	items := []models.CartItem{
		{BookID: bookID, Quantity: 2, Language: "english"},
		{BookID: goneID, Quantity: 1, Language: "urdu"},
	}
	books := map[primitive.ObjectID]models.Book{
		bookID: {ID: bookID, Name: "Fortress of the Muslim", Price: 150},
	}

	orderItems := buildOrderItemsFromCart(items, books)
	if len(orderItems) != 1 {
		t.Fatalf("got %d items, want 1", len(orderItems))
	}
	item := orderItems[0]
	if item.Name != "Fortress of the Muslim" || item.Price != 150 {
		t.Errorf("snapshot = %q / %v", item.Name, item.Price)
	}
	if item.Quantity != 2 || item.Language != "english" {
		t.Errorf("quantity/language = %d / %q", item.Quantity, item.Language)
	}
}

func TestBuildOrderItemsFromCartClampsQuantity(t *testing.T) {
	bookID := primitive.NewObjectID()
	items := []models.CartItem{{BookID: bookID, Quantity: 0, Language: "english"}}
	books := map[primitive.ObjectID]models.Book{bookID: {ID: bookID, Name: "Seerah", Price: 300}}

	orderItems := buildOrderItemsFromCart(items, books)
	if len(orderItems) != 1 || orderItems[0].Quantity != 1 {
		t.Errorf("got %+v, want single item with quantity 1", orderItems)
	}
}

func TestSnapshotFromAddress(t *testing.T) {
	addr := models.Address{
		ID:        "abc",
		FullName:  "Fatima Begum",
		Phone:     "9123456780",
		Line1:     "4 Park Street",
		Line2:     "Near Masjid",
		City:      "Kolkata",
		State:     "West Bengal",
		Pincode:   "700016",
		IsDefault: true,
	}

	snap := snapshotFromAddress(addr)
	if snap.FullName != addr.FullName || snap.Pincode != addr.Pincode || snap.Line2 != addr.Line2 {
		t.Errorf("snapshot = %+v", snap)
	}
}
