package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bookstore/internal/models"
)

type cartItemRequest struct {
	BookID   string `json:"bookId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Language string `json:"language" binding:"required"`
}

func applyCartAdd(cart []models.CartItem, item models.CartItem) []models.CartItem {
	for i, existing := range cart {
		if existing.BookID == item.BookID && existing.Language == item.Language {
			cart[i].Quantity += item.Quantity
			return cart
		}
	}
	return append(cart, item)
}

func applyCartUpdate(cart []models.CartItem, bookID primitive.ObjectID, language string, quantity int) ([]models.CartItem, bool) {
	for i, existing := range cart {
		if existing.BookID == bookID && existing.Language == language {
			cart[i].Quantity = quantity
			return cart, true
		}
	}
	return cart, false
}

func applyCartRemove(cart []models.CartItem, bookID primitive.ObjectID, language string) ([]models.CartItem, bool) {
	updated := make([]models.CartItem, 0, len(cart))
	found := false
	for _, existing := range cart {
		if existing.BookID == bookID && existing.Language == language {
			found = true
			continue
		}
		updated = append(updated, existing)
	}
	return updated, found
}

func validCartLanguage(book models.Book, language string) bool {
	switch language {
	case "english":
		return book.Languages.English
	case "urdu":
		return book.Languages.Urdu
	default:
		return false
	}
}

func GetCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := c.Get("userId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			log.Println("[CART] [ERROR] get cart failed:", err)
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found"})
			return
		}

		resolved, err := resolveCartItems(ctx, db, user.Cart)
		if err != nil {
			log.Println("[CART] [ERROR] resolve cart failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "cart": resolved})
	}
}

func AddToCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDValue, ok := c.Get("userId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}
		userID := userIDValue.(primitive.ObjectID)

		var req cartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		bookID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.BookID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid bookId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var book models.Book
		if err := db.Collection("books").FindOne(ctx, bson.M{
			"_id":       bookID,
			"isDeleted": bson.M{"$ne": true},
		}).Decode(&book); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "book not found"})
				return
			}
			log.Println("[CART] [ERROR] book lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		language := strings.ToLower(strings.TrimSpace(req.Language))
		if !validCartLanguage(book, language) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "book is not available in the selected language"})
			return
		}

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found"})
			return
		}

		updatedCart := applyCartAdd(user.Cart, models.CartItem{
			BookID:   bookID,
			Quantity: req.Quantity,
			Language: language,
		})

		_, err = db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"cart":      updatedCart,
				"updatedAt": time.Now(),
			},
		})
		if err != nil {
			log.Println("[CART] [ERROR] add to cart failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		resolved, err := resolveCartItems(ctx, db, updatedCart)
		if err != nil {
			log.Println("[CART] [ERROR] resolve cart failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "cart": resolved})
	}
}

func UpdateCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDValue, ok := c.Get("userId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}
		userID := userIDValue.(primitive.ObjectID)

		bookID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("bookId")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid bookId"})
			return
		}

		var req struct {
			Quantity int    `json:"quantity" binding:"required,min=1"`
			Language string `json:"language" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		language := strings.ToLower(strings.TrimSpace(req.Language))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found"})
			return
		}

		updatedCart, found := applyCartUpdate(user.Cart, bookID, language, req.Quantity)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "cart item not found"})
			return
		}

		_, err = db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"cart":      updatedCart,
				"updatedAt": time.Now(),
			},
		})
		if err != nil {
			log.Println("[CART] [ERROR] update cart failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		resolved, err := resolveCartItems(ctx, db, updatedCart)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "cart": resolved})
	}
}

func RemoveCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDValue, ok := c.Get("userId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}
		userID := userIDValue.(primitive.ObjectID)

		bookID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("bookId")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid bookId"})
			return
		}
		language := strings.ToLower(strings.TrimSpace(c.Query("language")))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found"})
			return
		}

		updatedCart, found := applyCartRemove(user.Cart, bookID, language)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "cart item not found"})
			return
		}

		_, err = db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"cart":      updatedCart,
				"updatedAt": time.Now(),
			},
		})
		if err != nil {
			log.Println("[CART] [ERROR] remove cart item failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "cart item removed"})
	}
}

func ClearCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDValue, ok := c.Get("userId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}
		userID := userIDValue.(primitive.ObjectID)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		_, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"cart":      []models.CartItem{},
				"updatedAt": time.Now(),
			},
		})
		if err != nil {
			log.Println("[CART] [ERROR] clear cart failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "cart cleared"})
	}
}
