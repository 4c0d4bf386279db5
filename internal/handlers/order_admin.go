package handlers

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookstore/internal/models"
)

// OrderNotifier sends a customer notification for a status change. Delivery
// failures are logged and never fail the originating request.
type OrderNotifier interface {
	SendOrderStatus(order models.Order, status string) error
}

type updateOrderStatusRequest struct {
	Status            string  `json:"status" binding:"required"`
	TrackingNumber    *string `json:"trackingNumber"`
	ShippingProvider  *string `json:"shippingProvider"`
	TrackingURL       *string `json:"trackingUrl"`
	EstimatedDelivery *string `json:"estimatedDelivery"`
	Notes             *string `json:"notes"`
}

// UpdateOrderStatus changes an order's status and merges any supplied
// fulfillment fields. Shipped/delivered/RTO transitions trigger a customer
// email after the write succeeds.
func UpdateOrderStatus(db *mongo.Database, notifier OrderNotifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "ORDER")

		orderID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("orderId")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid order id"})
			return
		}

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		status, ok := normalizeOrderStatus(req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid status"})
			return
		}
		if req.ShippingProvider != nil {
			provider := strings.TrimSpace(*req.ShippingProvider)
			if provider != "" && !shippingProviders[provider] {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid shipping provider"})
				return
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
				return
			}
			log.Println("[ORDER] [ERROR] lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		notify := applyStatusUpdate(&order, status, fulfillmentUpdate{
			TrackingNumber:    req.TrackingNumber,
			ShippingProvider:  req.ShippingProvider,
			TrackingURL:       req.TrackingURL,
			EstimatedDelivery: req.EstimatedDelivery,
			Notes:             req.Notes,
		}, time.Now())

		_, err = db.Collection("orders").UpdateByID(ctx, orderID, bson.M{
			"$set": bson.M{
				"status":      order.Status,
				"fulfillment": order.Fulfillment,
				"updatedAt":   order.UpdatedAt,
			},
		})
		if err != nil {
			log.Println("[ORDER] [ERROR] status update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		log.Printf("[ORDER] [INFO] order %s status set to %s", order.OrderNumber, status)

		if notify && notifier != nil {
			if err := notifier.SendOrderStatus(order, status); err != nil {
				log.Println("[ORDER] [WARN] status notification failed:", err)
			}
		}

		items, err := resolveOrderItems(ctx, db, order.Items)
		if err != nil {
			log.Println("[ORDER] [ERROR] resolving items failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "order": order, "items": items})
	}
}

// GetAdminOrder returns a single order with its line items joined against the
// current catalog for display.
func GetAdminOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("orderId")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid order id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		items, err := resolveOrderItems(ctx, db, order.Items)
		if err != nil {
			log.Println("[ORDER] [ERROR] resolving items failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "order": order, "items": items})
	}
}

func buildAdminOrderFilter(c *gin.Context) (bson.M, error) {
	filter := bson.M{}

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		normalized, ok := normalizeOrderStatus(status)
		if !ok {
			return nil, fmt.Errorf("invalid status filter")
		}
		filter["status"] = normalized
	}

	created := bson.M{}
	if from := strings.TrimSpace(c.Query("from")); from != "" {
		t, _, err := parseDateParam(from)
		if err != nil {
			return nil, fmt.Errorf("invalid from date")
		}
		created["$gte"] = t
	}
	if to := strings.TrimSpace(c.Query("to")); to != "" {
		t, dateOnly, err := parseDateParam(to)
		if err != nil {
			return nil, fmt.Errorf("invalid to date")
		}
		// A bare date as the upper bound means the whole of that day; a
		// timestamp is an exact instant and is not padded.
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		created["$lte"] = t
	}
	if len(created) > 0 {
		filter["createdAt"] = created
	}

	return filter, nil
}

func parseDateParam(value string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, false, nil
	}
	t, err := time.Parse("2006-01-02", value)
	return t, true, err
}

// ListAdminOrders lists orders newest first with optional status and
// creation-date filters.
func ListAdminOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "ORDER")

		filter, err := buildAdminOrderFilter(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid pagination params"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		collection := db.Collection("orders")
		total, err := collection.CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		cursor, err := collection.Find(ctx, filter, options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip((page-1)*limit).
			SetLimit(limit))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"orders":  orders,
			"pagination": gin.H{
				"total":       total,
				"currentPage": page,
				"limit":       limit,
				"totalPages":  (total + limit - 1) / limit,
				"hasNext":     page*limit < total,
			},
		})
	}
}

// csvHeader is the fixed export column order.
var csvHeader = []string{
	"Order Number", "Customer Name", "Customer Email", "Customer Phone",
	"Items", "Quantity", "Total Amount", "Status",
	"Address Line 1", "Address Line 2", "City", "State", "Pincode",
	"Order Date", "Tracking Number", "Shipping Provider",
}

func csvRowFor(order models.Order) []string {
	names := make([]string, 0, len(order.Items))
	quantity := 0
	for _, item := range order.Items {
		names = append(names, fmt.Sprintf("%s x%d", item.Name, item.Quantity))
		quantity += item.Quantity
	}

	return []string{
		order.OrderNumber,
		order.Customer.Name,
		order.Customer.Email,
		order.Customer.Phone,
		strings.Join(names, "; "),
		fmt.Sprintf("%d", quantity),
		fmt.Sprintf("%.2f", order.Amount),
		order.Status,
		order.ShippingAddress.Line1,
		order.ShippingAddress.Line2,
		order.ShippingAddress.City,
		order.ShippingAddress.State,
		order.ShippingAddress.Pincode,
		order.CreatedAt.Format("2006-01-02 15:04:05"),
		order.Fulfillment.TrackingNumber,
		order.Fulfillment.ShippingProvider,
	}
}

// ExportOrdersCSV streams all orders matching the same filters as the list
// endpoint as a CSV attachment.
func ExportOrdersCSV(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "ORDER")

		filter, err := buildAdminOrderFilter(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		cursor, err := db.Collection("orders").Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		filename := fmt.Sprintf("orders-%s.csv", time.Now().Format("20060102-150405"))
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		writer := csv.NewWriter(c.Writer)
		if err := writer.Write(csvHeader); err != nil {
			log.Println("[ORDER] [ERROR] csv write failed:", err)
			return
		}

		for cursor.Next(ctx) {
			var order models.Order
			if err := cursor.Decode(&order); err != nil {
				log.Println("[ORDER] [ERROR] csv decode failed:", err)
				return
			}
			if err := writer.Write(csvRowFor(order)); err != nil {
				log.Println("[ORDER] [ERROR] csv write failed:", err)
				return
			}
		}
		writer.Flush()
	}
}

// GetUserOrders lists a user's own orders. Admins may read any user's orders;
// everyone else only their own.
func GetUserOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "ORDER")

		targetID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("userId")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid user id"})
			return
		}

		callerValue, ok := c.Get("userId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}
		caller := callerValue.(primitive.ObjectID)

		role := ""
		if claims, ok := c.Get("claims"); ok {
			if m, ok := claims.(jwt.MapClaims); ok {
				role, _ = m["role"].(string)
			}
		}
		if caller != targetID && role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "forbidden"})
			return
		}

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid pagination params"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		filter := bson.M{"userId": targetID}
		collection := db.Collection("orders")

		total, err := collection.CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		cursor, err := collection.Find(ctx, filter, options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip((page-1)*limit).
			SetLimit(limit))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"orders":  orders,
			"pagination": gin.H{
				"total":       total,
				"currentPage": page,
				"limit":       limit,
				"totalPages":  (total + limit - 1) / limit,
				"hasNext":     page*limit < total,
			},
		})
	}
}
