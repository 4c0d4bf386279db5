package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bookstore/internal/models"
)

type addressRequest struct {
	FullName  string `json:"fullName" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Line1     string `json:"line1" binding:"required"`
	Line2     string `json:"line2"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	Pincode   string `json:"pincode" binding:"required"`
	IsDefault bool   `json:"isDefault"`
}

type updateAddressRequest struct {
	FullName  *string `json:"fullName"`
	Phone     *string `json:"phone"`
	Line1     *string `json:"line1"`
	Line2     *string `json:"line2"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	Pincode   *string `json:"pincode"`
	IsDefault *bool   `json:"isDefault"`
}

// applyTo merges the supplied fields onto an existing address. Omitted fields
// keep their stored values; the ID is never touched.
func (r updateAddressRequest) applyTo(addr models.Address) models.Address {
	if r.FullName != nil {
		addr.FullName = strings.TrimSpace(*r.FullName)
	}
	if r.Phone != nil {
		addr.Phone = strings.TrimSpace(*r.Phone)
	}
	if r.Line1 != nil {
		addr.Line1 = strings.TrimSpace(*r.Line1)
	}
	if r.Line2 != nil {
		addr.Line2 = strings.TrimSpace(*r.Line2)
	}
	if r.City != nil {
		addr.City = strings.TrimSpace(*r.City)
	}
	if r.State != nil {
		addr.State = strings.TrimSpace(*r.State)
	}
	if r.Pincode != nil {
		addr.Pincode = strings.TrimSpace(*r.Pincode)
	}
	if r.IsDefault != nil {
		addr.IsDefault = *r.IsDefault
	}
	return addr
}

func (r addressRequest) toAddress() models.Address {
	return models.Address{
		FullName:  strings.TrimSpace(r.FullName),
		Phone:     strings.TrimSpace(r.Phone),
		Line1:     strings.TrimSpace(r.Line1),
		Line2:     strings.TrimSpace(r.Line2),
		City:      strings.TrimSpace(r.City),
		State:     strings.TrimSpace(r.State),
		Pincode:   strings.TrimSpace(r.Pincode),
		IsDefault: r.IsDefault,
	}
}

func GetUserAddresses(db *mongo.Database) gin.HandlerFunc {
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
			log.Println("[ADDRESS] [ERROR] get addresses failed:", err)
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "addresses": user.Addresses})
	}
}

func CreateUserAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDValue, ok := c.Get("userId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}
		userID := userIDValue.(primitive.ObjectID)

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if err := validateAddressFields(req.FullName, req.Phone, req.Line1, req.City, req.State, req.Pincode); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			log.Println("[ADDRESS] [ERROR] user not found:", err)
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found"})
			return
		}

		address := req.toAddress()
		address.ID = uuid.NewString()

		updatedAddresses := applyAddressAdd(user.Addresses, address)
		now := time.Now()

		_, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"addresses": updatedAddresses,
				"updatedAt": now,
			},
		})
		if err != nil {
			log.Println("[ADDRESS] [ERROR] insert address failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		log.Println("[ADDRESS] [INFO] address created:", address.ID)
		c.JSON(http.StatusCreated, gin.H{"success": true, "address": updatedAddresses[len(updatedAddresses)-1]})
	}
}

func UpdateUserAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDValue, ok := c.Get("userId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}
		userID := userIDValue.(primitive.ObjectID)

		var req updateAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		addressID := strings.TrimSpace(c.Param("id"))
		if addressID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid address id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			log.Println("[ADDRESS] [ERROR] user not found:", err)
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found"})
			return
		}

		var existing *models.Address
		for i := range user.Addresses {
			if user.Addresses[i].ID == addressID {
				existing = &user.Addresses[i]
				break
			}
		}
		if existing == nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "address not found"})
			return
		}

		merged := req.applyTo(*existing)
		if err := validateAddressFields(merged.FullName, merged.Phone, merged.Line1, merged.City, merged.State, merged.Pincode); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		updatedAddresses, found := applyAddressUpdate(user.Addresses, addressID, merged)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "address not found"})
			return
		}

		now := time.Now()
		_, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"addresses": updatedAddresses,
				"updatedAt": now,
			},
		})
		if err != nil {
			log.Println("[ADDRESS] [ERROR] update address failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		log.Println("[ADDRESS] [INFO] address updated:", addressID)
		c.JSON(http.StatusOK, gin.H{"success": true, "addresses": updatedAddresses})
	}
}

func DeleteUserAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDValue, ok := c.Get("userId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}
		userID := userIDValue.(primitive.ObjectID)

		addressID := strings.TrimSpace(c.Param("id"))
		if addressID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid address id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			log.Println("[ADDRESS] [ERROR] user not found:", err)
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found"})
			return
		}

		updatedAddresses, found := applyAddressDelete(user.Addresses, addressID)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "address not found"})
			return
		}

		now := time.Now()
		_, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"addresses": updatedAddresses,
				"updatedAt": now,
			},
		})
		if err != nil {
			log.Println("[ADDRESS] [ERROR] delete address failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		log.Println("[ADDRESS] [INFO] address deleted:", addressID)
		c.JSON(http.StatusOK, gin.H{"success": true, "addresses": updatedAddresses})
	}
}
