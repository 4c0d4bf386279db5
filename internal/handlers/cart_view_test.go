package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookstore/internal/models"
)

func TestBuildCartViewDropsDanglingReferences(t *testing.T) {
	existing := primitive.NewObjectID()
	deleted := primitive.NewObjectID()

	items := []models.CartItem{
		{BookID: existing, Quantity: 2, Language: "urdu"},
		{BookID: deleted, Quantity: 1, Language: "english"},
	}
	books := map[primitive.ObjectID]models.Book{
		existing: {ID: existing, Name: "Riyad as-Salihin", Price: 450, Images: models.StringList{"/uploads/riyad.jpg"}},
	}

	view := buildCartView(items, books)

	if len(view) != 1 {
		t.Fatalf("expected dangling item to be dropped, got %d items", len(view))
	}
	if view[0].BookID != existing || view[0].Quantity != 2 || view[0].Language != "urdu" {
		t.Fatalf("expected surviving item to keep quantity and language, got %+v", view[0])
	}
	if view[0].Image != "/uploads/riyad.jpg" {
		t.Fatalf("expected first image to be joined, got %q", view[0].Image)
	}
}

func TestBuildCartViewEmptyCart(t *testing.T) {
	view := buildCartView(nil, map[primitive.ObjectID]models.Book{})
	if view == nil || len(view) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", view)
	}
}

func TestBuildOrderItemsViewKeepsSnapshotPrice(t *testing.T) {
	bookID := primitive.NewObjectID()
	items := []models.OrderItem{
		{BookID: bookID, Name: "Old Name", Price: 300, Quantity: 1, Language: "english"},
	}
	// current catalog price differs from the snapshot
	books := map[primitive.ObjectID]models.Book{
		bookID: {ID: bookID, Name: "New Name", Price: 999},
	}

	view := buildOrderItemsView(items, books)

	if len(view) != 1 {
		t.Fatalf("expected one resolved item, got %d", len(view))
	}
	if view[0].Price != 300 || view[0].Name != "Old Name" {
		t.Fatalf("expected snapshot fields to be preserved, got %+v", view[0])
	}
}

func TestApplyCartAddMergesSameBookAndLanguage(t *testing.T) {
	bookID := primitive.NewObjectID()
	cart := []models.CartItem{{BookID: bookID, Quantity: 1, Language: "english"}}

	cart = applyCartAdd(cart, models.CartItem{BookID: bookID, Quantity: 2, Language: "english"})
	if len(cart) != 1 || cart[0].Quantity != 3 {
		t.Fatalf("expected quantities to merge, got %+v", cart)
	}

	cart = applyCartAdd(cart, models.CartItem{BookID: bookID, Quantity: 1, Language: "urdu"})
	if len(cart) != 2 {
		t.Fatalf("expected different language to be a separate line, got %+v", cart)
	}
}

func TestApplyCartRemove(t *testing.T) {
	bookID := primitive.NewObjectID()
	cart := []models.CartItem{
		{BookID: bookID, Quantity: 1, Language: "english"},
		{BookID: bookID, Quantity: 1, Language: "urdu"},
	}

	cart, found := applyCartRemove(cart, bookID, "english")
	if !found || len(cart) != 1 || cart[0].Language != "urdu" {
		t.Fatalf("expected english line removed, got %+v", cart)
	}

	_, found = applyCartRemove(cart, bookID, "english")
	if found {
		t.Fatal("expected second removal to report not found")
	}
}
