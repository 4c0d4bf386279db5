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

type updateFatwahRequest struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
	Category *string `json:"category"`
	Status   *string `json:"status"`
}

func validFatwahStatus(status string) bool {
	switch status {
	case models.FatwahStatusPending, models.FatwahStatusDraft, models.FatwahStatusPublished:
		return true
	}
	return false
}

func GetAllFatwahs(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := bson.M{}
		if status := strings.ToLower(strings.TrimSpace(c.Query("status"))); status != "" {
			if !validFatwahStatus(status) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid status"})
				return
			}
			filter["status"] = status
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("fatwahs").Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		fatwahs := make([]models.Fatwah, 0)
		if err := cursor.All(ctx, &fatwahs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "fatwahs": fatwahs})
	}
}

// UpdateFatwah applies a partial edit. A status change into published stamps
// publishedAt on the first transition only; publishing requires an answer.
func UpdateFatwah(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		fatwahID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid fatwah id"})
			return
		}

		var req updateFatwahRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid body"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var fatwah models.Fatwah
		if err := db.Collection("fatwahs").FindOne(ctx, bson.M{"_id": fatwahID}).Decode(&fatwah); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "fatwah not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		now := time.Now()
		set := bson.M{"updatedAt": now}

		if req.Question != nil {
			set["question"] = strings.TrimSpace(*req.Question)
		}
		answer := fatwah.Answer
		if req.Answer != nil {
			answer = strings.TrimSpace(*req.Answer)
			set["answer"] = answer
		}
		if req.Category != nil {
			category := strings.ToLower(strings.TrimSpace(*req.Category))
			if !validFatwahCategory(category) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid category"})
				return
			}
			set["category"] = category
		}
		if req.Status != nil {
			status := strings.ToLower(strings.TrimSpace(*req.Status))
			if !validFatwahStatus(status) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid status"})
				return
			}
			if status == models.FatwahStatusPublished && answer == "" {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "cannot publish without an answer"})
				return
			}
			set["status"] = status
			if stamp := publishStampFor(fatwah.PublishedAt, status, models.FatwahStatusPublished, now); stamp != fatwah.PublishedAt {
				set["publishedAt"] = stamp
			}
		}

		res := db.Collection("fatwahs").FindOneAndUpdate(ctx,
			bson.M{"_id": fatwahID},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		)

		var updated models.Fatwah
		if err := res.Decode(&updated); err != nil {
			log.Println("[FATWAH] [ERROR] update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		log.Println("[FATWAH] [INFO] fatwah updated:", fatwahID.Hex())
		c.JSON(http.StatusOK, gin.H{"success": true, "fatwah": updated})
	}
}

func DeleteFatwah(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		fatwahID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid fatwah id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("fatwahs").DeleteOne(ctx, bson.M{"_id": fatwahID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "fatwah not found"})
			return
		}

		log.Println("[FATWAH] [INFO] fatwah deleted:", fatwahID.Hex())
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "fatwah deleted"})
	}
}
