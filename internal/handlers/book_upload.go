package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const publicRootDir = "/app/public"

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UploadBookImage accepts a multipart "image" file, stores it under the
// public uploads root and appends its path to the book's image list.
func UploadBookImage(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid book id"})
			return
		}

		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "image file is required"})
			return
		}

		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !allowedImageExtensions[ext] {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unsupported image type"})
			return
		}

		relPath := fmt.Sprintf("uploads/books/%s%s", uuid.NewString(), ext)
		target := filepath.Join(publicRootDir, filepath.FromSlash(relPath))

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			log.Println("[UPLOAD] [ERROR] mkdir failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "upload failed"})
			return
		}
		if err := c.SaveUploadedFile(file, target); err != nil {
			log.Println("[UPLOAD] [ERROR] save file failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "upload failed"})
			return
		}

		ctx := c.Request.Context()
		res, err := db.Collection("books").UpdateOne(ctx,
			bson.M{"_id": bookID, "isDeleted": bson.M{"$ne": true}},
			bson.M{
				"$push": bson.M{"images": "/" + relPath},
				"$set":  bson.M{"updatedAt": time.Now()},
			},
		)
		if err != nil {
			log.Println("[UPLOAD] [ERROR] attach image failed:", err)
			_ = safeDeleteUpload(relPath)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			_ = safeDeleteUpload(relPath)
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "book not found"})
			return
		}

		log.Println("[UPLOAD] [INFO] image attached:", relPath)
		c.JSON(http.StatusCreated, gin.H{"success": true, "image": "/" + relPath})
	}
}

// RemoveBookImage detaches an image path from the book and deletes the file.
func RemoveBookImage(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid book id"})
			return
		}

		imagePath := strings.TrimSpace(c.Query("path"))
		if imagePath == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "path is required"})
			return
		}

		ctx := c.Request.Context()
		res, err := db.Collection("books").UpdateOne(ctx,
			bson.M{"_id": bookID},
			bson.M{
				"$pull": bson.M{"images": imagePath},
				"$set":  bson.M{"updatedAt": time.Now()},
			},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "book not found"})
			return
		}

		if err := safeDeleteUpload(imagePath); err != nil {
			log.Println("[UPLOAD] [ERROR] delete file failed:", err)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "image removed"})
	}
}

func safeDeleteUpload(relPath string) error {
	trimmed := strings.TrimSpace(relPath)
	if trimmed == "" {
		return nil
	}

	cleanRel := path.Clean("/" + strings.TrimPrefix(trimmed, "/"))
	cleanRel = strings.TrimPrefix(cleanRel, "/")

	if !strings.HasPrefix(cleanRel, "uploads/") {
		return fmt.Errorf("refusing to delete non-upload path: %s", relPath)
	}

	cleanBase := filepath.Clean(publicRootDir)
	targetPath := filepath.Join(cleanBase, filepath.FromSlash(cleanRel))
	cleanTarget := filepath.Clean(targetPath)
	if cleanTarget != cleanBase && !strings.HasPrefix(cleanTarget, cleanBase+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete path outside public root: %s", relPath)
	}

	if err := os.Remove(cleanTarget); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return nil
}
