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
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookstore/internal/models"
)

type askFatwahRequest struct {
	Question string `json:"question" binding:"required"`
	Category string `json:"category" binding:"required"`
	AskedBy  string `json:"askedBy"`
	Email    string `json:"email"`
}

/*
GET /fatwahs
- published only
- filters: category; pagination optional
*/
func GetFatwahs(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /fatwahs"
		defer handlePanic(c, route)

		filter := bson.M{"status": models.FatwahStatusPublished}
		if category := strings.ToLower(strings.TrimSpace(c.Query("category"))); category != "" {
			if !validFatwahCategory(category) {
				respondWithError(c, http.StatusBadRequest, route, "invalid category")
				return
			}
			filter["category"] = category
		}

		findOptions := options.Find().
			SetSort(bson.D{{Key: "publishedAt", Value: -1}})

		if pageStr, limitStr := c.Query("page"), c.Query("limit"); pageStr != "" && limitStr != "" {
			page, limit, err := parsePaginationParams(pageStr, limitStr)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
				return
			}
			findOptions.SetSkip((page - 1) * limit).SetLimit(limit)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("fatwahs").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		fatwahs := make([]models.Fatwah, 0)
		if err := cursor.All(ctx, &fatwahs); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "fatwahs": fatwahs})
	}
}

func GetFatwah(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		fatwahID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid fatwah id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var fatwah models.Fatwah
		if err := db.Collection("fatwahs").FindOne(ctx, bson.M{
			"_id":    fatwahID,
			"status": models.FatwahStatusPublished,
		}).Decode(&fatwah); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "fatwah not found"})
				return
			}
			log.Println("[FATWAH] [ERROR] fatwah lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "fatwah": fatwah})
	}
}

// AskFatwah accepts a public question; it enters the queue as pending until
// an admin answers and publishes it.
func AskFatwah(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req askFatwahRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		category := strings.ToLower(strings.TrimSpace(req.Category))
		if !validFatwahCategory(category) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid category"})
			return
		}

		now := time.Now()
		fatwah := models.Fatwah{
			Question:   strings.TrimSpace(req.Question),
			Category:   category,
			Status:     models.FatwahStatusPending,
			AskedBy:    strings.TrimSpace(req.AskedBy),
			AskerEmail: strings.ToLower(strings.TrimSpace(req.Email)),
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("fatwahs").InsertOne(ctx, fatwah)
		if err != nil {
			log.Println("[FATWAH] [ERROR] ask insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		id, _ := res.InsertedID.(primitive.ObjectID)
		log.Println("[FATWAH] [INFO] question submitted:", id.Hex())
		c.JSON(http.StatusCreated, gin.H{"success": true, "id": id.Hex(), "message": "question submitted"})
	}
}
