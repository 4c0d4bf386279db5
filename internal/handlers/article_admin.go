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

type createArticleRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Author  string `json:"author"`
	Image   string `json:"image"`
	Status  string `json:"status"`
}

type updateArticleRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Author  *string `json:"author"`
	Image   *string `json:"image"`
	Status  *string `json:"status"`
}

func validArticleStatus(status string) bool {
	return status == models.ArticleStatusDraft || status == models.ArticleStatusPublished
}

func GetAllArticles(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("articles").Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		articles := make([]models.Article, 0)
		if err := cursor.All(ctx, &articles); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "articles": articles})
	}
}

func CreateArticle(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createArticleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		status := models.ArticleStatusDraft
		if req.Status != "" {
			status = strings.ToLower(strings.TrimSpace(req.Status))
			if !validArticleStatus(status) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid status"})
				return
			}
		}

		title := strings.TrimSpace(req.Title)
		slug := slugify(title)
		if slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "title does not produce a valid slug"})
			return
		}

		now := time.Now()
		article := models.Article{
			Title:       title,
			Slug:        slug,
			Content:     req.Content,
			Author:      strings.TrimSpace(req.Author),
			Image:       strings.TrimSpace(req.Image),
			Status:      status,
			Views:       0,
			PublishedAt: publishStampFor(nil, status, models.ArticleStatusPublished, now),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("articles").InsertOne(ctx, article)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"success": false, "error": "an article with this slug already exists"})
				return
			}
			log.Println("[ARTICLE] [ERROR] create failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			article.ID = id
		}

		log.Println("[ARTICLE] [INFO] article created:", article.Slug)
		c.JSON(http.StatusCreated, gin.H{"success": true, "article": article})
	}
}

func UpdateArticle(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		articleID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid article id"})
			return
		}

		var req updateArticleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid body"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var article models.Article
		if err := db.Collection("articles").FindOne(ctx, bson.M{"_id": articleID}).Decode(&article); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "article not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		now := time.Now()
		set := bson.M{"updatedAt": now}

		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			slug := slugify(title)
			if slug == "" {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "title does not produce a valid slug"})
				return
			}
			set["title"] = title
			set["slug"] = slug
		}
		if req.Content != nil {
			set["content"] = *req.Content
		}
		if req.Author != nil {
			set["author"] = strings.TrimSpace(*req.Author)
		}
		if req.Image != nil {
			set["image"] = strings.TrimSpace(*req.Image)
		}
		if req.Status != nil {
			status := strings.ToLower(strings.TrimSpace(*req.Status))
			if !validArticleStatus(status) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid status"})
				return
			}
			set["status"] = status
			if stamp := publishStampFor(article.PublishedAt, status, models.ArticleStatusPublished, now); stamp != article.PublishedAt {
				set["publishedAt"] = stamp
			}
		}

		res := db.Collection("articles").FindOneAndUpdate(ctx,
			bson.M{"_id": articleID},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		)

		var updated models.Article
		if err := res.Decode(&updated); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"success": false, "error": "an article with this slug already exists"})
				return
			}
			log.Println("[ARTICLE] [ERROR] update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		log.Println("[ARTICLE] [INFO] article updated:", articleID.Hex())
		c.JSON(http.StatusOK, gin.H{"success": true, "article": updated})
	}
}

func DeleteArticle(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		articleID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid article id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("articles").DeleteOne(ctx, bson.M{"_id": articleID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "article not found"})
			return
		}

		log.Println("[ARTICLE] [INFO] article deleted:", articleID.Hex())
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "article deleted"})
	}
}
