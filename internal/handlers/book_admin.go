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

type createBookRequest struct {
	Name        string   `json:"name" binding:"required"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Images      []string `json:"images"`
	Languages   struct {
		English bool `json:"english"`
		Urdu    bool `json:"urdu"`
	} `json:"languages"`
	IsActive *bool `json:"isActive"`
}

type updateBookRequest struct {
	Name        *string   `json:"name"`
	Author      *string   `json:"author"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Images      *[]string `json:"images"`
	Languages   *struct {
		English bool `json:"english"`
		Urdu    bool `json:"urdu"`
	} `json:"languages"`
	IsActive *bool `json:"isActive"`
}

func GetAllBooks(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		filter := bson.M{"isDeleted": bson.M{"$ne": true}}

		cursor, err := db.Collection("books").Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		books := make([]models.Book, 0)
		if err := cursor.All(ctx, &books); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "books": books})
	}
}

func CreateBook(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createBookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !req.Languages.English && !req.Languages.Urdu {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "at least one language must be available"})
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		now := time.Now()
		book := models.Book{
			Name:        strings.TrimSpace(req.Name),
			Author:      strings.TrimSpace(req.Author),
			Description: strings.TrimSpace(req.Description),
			Price:       roundPrice(req.Price),
			Images:      models.StringList(req.Images),
			Languages: models.Languages{
				English: req.Languages.English,
				Urdu:    req.Languages.Urdu,
			},
			IsActive:  isActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if book.Images == nil {
			book.Images = models.StringList{}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("books").InsertOne(ctx, book)
		if err != nil {
			log.Println("[BOOK] [ERROR] create book failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			book.ID = id
		}

		log.Println("[BOOK] [INFO] book created:", book.Name)
		c.JSON(http.StatusCreated, gin.H{"success": true, "book": book})
	}
}

func UpdateBook(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid book id"})
			return
		}

		var req updateBookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid body"})
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if req.Name != nil {
			set["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Author != nil {
			set["author"] = strings.TrimSpace(*req.Author)
		}
		if req.Description != nil {
			set["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Price != nil {
			if *req.Price <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "price must be greater than 0"})
				return
			}
			set["price"] = roundPrice(*req.Price)
		}
		if req.Images != nil {
			set["images"] = models.StringList(*req.Images)
		}
		if req.Languages != nil {
			if !req.Languages.English && !req.Languages.Urdu {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "at least one language must be available"})
				return
			}
			set["languages"] = models.Languages{
				English: req.Languages.English,
				Urdu:    req.Languages.Urdu,
			}
		}
		if req.IsActive != nil {
			set["isActive"] = *req.IsActive
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res := db.Collection("books").FindOneAndUpdate(ctx,
			bson.M{"_id": bookID, "isDeleted": bson.M{"$ne": true}},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		)

		var book models.Book
		if err := res.Decode(&book); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "book not found"})
				return
			}
			log.Println("[BOOK] [ERROR] update book failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		log.Println("[BOOK] [INFO] book updated:", bookID.Hex())
		c.JSON(http.StatusOK, gin.H{"success": true, "book": book})
	}
}

func DeleteBook(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid book id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		res, err := db.Collection("books").UpdateOne(ctx,
			bson.M{"_id": bookID, "isDeleted": bson.M{"$ne": true}},
			bson.M{"$set": bson.M{
				"isDeleted": true,
				"isActive":  false,
				"deletedAt": now,
				"updatedAt": now,
			}},
		)
		if err != nil {
			log.Println("[BOOK] [ERROR] delete book failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "book not found"})
			return
		}

		log.Println("[BOOK] [INFO] book deleted:", bookID.Hex())
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "book deleted"})
	}
}
