package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookstore/internal/models"
)

// newOrderNumber builds a human-readable order number from the creation time
// plus a random suffix. Uniqueness is ultimately enforced by the txnId index,
// not by this value.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:4]
	return fmt.Sprintf("BK-%s-%s", now.Format("20060102-150405"), suffix)
}

// buildOrderItemsFromCart snapshots cart entries against the current catalog.
// Entries whose book no longer resolves are skipped, matching the cart view.
func buildOrderItemsFromCart(items []models.CartItem, books map[primitive.ObjectID]models.Book) []models.OrderItem {
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		book, ok := books[item.BookID]
		if !ok {
			continue
		}
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		orderItems = append(orderItems, models.OrderItem{
			BookID:   item.BookID,
			Name:     book.Name,
			Price:    book.Price,
			Quantity: quantity,
			Language: item.Language,
		})
	}
	return orderItems
}

// snapshotFromAddress copies an address-book entry into an order. The order
// keeps the values as they were at checkout.
func snapshotFromAddress(addr models.Address) models.ShippingAddress {
	return models.ShippingAddress{
		FullName: addr.FullName,
		Phone:    addr.Phone,
		Line1:    addr.Line1,
		Line2:    addr.Line2,
		City:     addr.City,
		State:    addr.State,
		Pincode:  addr.Pincode,
	}
}
