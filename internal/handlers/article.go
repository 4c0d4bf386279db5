package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookstore/internal/models"
)

/*
GET /articles
- published only, newest first; pagination optional
*/
func GetArticles(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /articles"
		defer handlePanic(c, route)

		filter := bson.M{"status": models.ArticleStatusPublished}

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

		cursor, err := db.Collection("articles").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		articles := make([]models.Article, 0)
		if err := cursor.All(ctx, &articles); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "articles": articles})
	}
}

// GetArticleBySlug returns a published article and increments its view
// counter atomically.
func GetArticleBySlug(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := strings.TrimSpace(c.Param("slug"))
		if slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid slug"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res := db.Collection("articles").FindOneAndUpdate(ctx,
			bson.M{"slug": slug, "status": models.ArticleStatusPublished},
			bson.M{"$inc": bson.M{"views": 1}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		)

		var article models.Article
		if err := res.Decode(&article); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "article not found"})
				return
			}
			log.Println("[ARTICLE] [ERROR] article lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "article": article})
	}
}
