package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookstore/internal/models"
)

// roundPrice normalizes catalog prices to two decimals.
func roundPrice(price float64) float64 {
	value, _ := decimal.NewFromFloat(price).Round(2).Float64()
	return value
}

/*
GET /books
- pagination optional: without page+limit the full catalog is returned
- filters: search (name/author), language (english|urdu)
*/
func GetBooks(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /books"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		filter := bson.M{
			"isActive":  bson.M{"$ne": false},
			"isDeleted": bson.M{"$ne": true},
		}

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["$or"] = []bson.M{
				{"name": bson.M{"$regex": search, "$options": "i"}},
				{"author": bson.M{"$regex": search, "$options": "i"}},
			}
		}

		switch strings.ToLower(strings.TrimSpace(c.Query("language"))) {
		case "english":
			filter["languages.english"] = true
		case "urdu":
			filter["languages.urdu"] = true
		}

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		pageStr := c.Query("page")
		limitStr := c.Query("limit")

		if pageStr != "" && limitStr != "" {
			page, limit, err := parsePaginationParams(pageStr, limitStr)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
				return
			}

			findOptions.
				SetSkip((page - 1) * limit).
				SetLimit(limit)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("books").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		books := make([]models.Book, 0)
		if err := cursor.All(ctx, &books); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d books", route, len(books))
		c.JSON(http.StatusOK, gin.H{"success": true, "books": books})
	}
}

func GetBook(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid book id"})
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
			log.Println("[BOOK] [ERROR] book lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "book": book})
	}
}
