package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bookstore/internal/models"
)

// ResolvedCartItem is the client-facing view of a cart entry: the stored
// reference joined with the live book record.
type ResolvedCartItem struct {
	BookID   primitive.ObjectID `json:"bookId"`
	Name     string             `json:"name"`
	Author   string             `json:"author,omitempty"`
	Price    float64            `json:"price"`
	Image    string             `json:"image,omitempty"`
	Quantity int                `json:"quantity"`
	Language string             `json:"language"`
}

// ResolvedOrderItem keeps the purchase-time snapshot and adds display fields
// from the current book record.
type ResolvedOrderItem struct {
	models.OrderItem
	Image string `json:"image,omitempty"`
}

// buildCartView joins cart entries with their book records, preserving
// quantity and language. Entries whose book no longer resolves are dropped
// from the view; stored data is untouched.
func buildCartView(items []models.CartItem, books map[primitive.ObjectID]models.Book) []ResolvedCartItem {
	resolved := make([]ResolvedCartItem, 0, len(items))
	for _, item := range items {
		book, ok := books[item.BookID]
		if !ok {
			continue
		}
		view := ResolvedCartItem{
			BookID:   item.BookID,
			Name:     book.Name,
			Author:   book.Author,
			Price:    book.Price,
			Quantity: item.Quantity,
			Language: item.Language,
		}
		if len(book.Images) > 0 {
			view.Image = book.Images[0]
		}
		resolved = append(resolved, view)
	}
	return resolved
}

// buildOrderItemsView applies the same dangling-reference filter to order
// line items. Snapshot name and price are kept as stored.
func buildOrderItemsView(items []models.OrderItem, books map[primitive.ObjectID]models.Book) []ResolvedOrderItem {
	resolved := make([]ResolvedOrderItem, 0, len(items))
	for _, item := range items {
		book, ok := books[item.BookID]
		if !ok {
			continue
		}
		view := ResolvedOrderItem{OrderItem: item}
		if len(book.Images) > 0 {
			view.Image = book.Images[0]
		}
		resolved = append(resolved, view)
	}
	return resolved
}

func fetchBooksByID(ctx context.Context, db *mongo.Database, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Book, error) {
	books := make(map[primitive.ObjectID]models.Book, len(ids))
	if len(ids) == 0 {
		return books, nil
	}

	cursor, err := db.Collection("books").Find(ctx, bson.M{
		"_id":       bson.M{"$in": ids},
		"isDeleted": bson.M{"$ne": true},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var found []models.Book
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}

	for _, book := range found {
		books[book.ID] = book
	}
	return books, nil
}

func resolveCartItems(ctx context.Context, db *mongo.Database, items []models.CartItem) ([]ResolvedCartItem, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.BookID)
	}

	books, err := fetchBooksByID(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	return buildCartView(items, books), nil
}

func resolveOrderItems(ctx context.Context, db *mongo.Database, items []models.OrderItem) ([]ResolvedOrderItem, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.BookID)
	}

	books, err := fetchBooksByID(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	return buildOrderItemsView(items, books), nil
}
