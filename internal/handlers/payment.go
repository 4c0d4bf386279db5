package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bookstore/internal/gateway"
	"bookstore/internal/models"
)

// PaymentGateway is the slice of the gateway client the checkout flow needs.
type PaymentGateway interface {
	InitiatePayment(ctx context.Context, txnID string, amountPaise int64, merchantUserID string) (string, error)
	CheckStatus(ctx context.Context, txnID string) (*gateway.StatusResult, error)
}

// optionalUserID extracts the user ID from a bearer token when one is present
// and valid. Guest checkout sends no token, so failures simply mean guest.
func optionalUserID(header, secret string) *primitive.ObjectID {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	idValue, _ := claims["userId"].(string)
	userID, err := primitive.ObjectIDFromHex(idValue)
	if err != nil {
		return nil
	}
	return &userID
}

type generatePaymentRequest struct {
	TotalAmount float64 `json:"totalAmount" binding:"required,gt=0"`
}

// GeneratePaymentURL starts a gateway transaction for the given amount and
// returns the hosted payment page URL. No order is persisted here; the order
// is created when the payment is later reconciled.
func GeneratePaymentURL(gw PaymentGateway, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "PAYMENT")

		var req generatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		merchantUserID := "GUEST"
		if userID := optionalUserID(c.GetHeader("Authorization"), jwtSecret); userID != nil {
			merchantUserID = userID.Hex()
		}

		txnID := gateway.NewTxnID()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()

		redirectURL, err := gw.InitiatePayment(ctx, txnID, gateway.RupeesToPaise(req.TotalAmount), merchantUserID)
		if err != nil {
			log.Println("[PAYMENT] [ERROR] initiate failed:", err)
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "payment gateway unavailable"})
			return
		}

		log.Println("[PAYMENT] [INFO] transaction initiated:", txnID)
		c.JSON(http.StatusOK, gin.H{
			"success":               true,
			"redirectUrl":           redirectURL,
			"merchantTransactionId": txnID,
		})
	}
}

type guestInfoRequest struct {
	Name    string         `json:"name" binding:"required"`
	Email   string         `json:"email" binding:"required,email"`
	Phone   string         `json:"phone" binding:"required"`
	Address addressRequest `json:"address" binding:"required"`
}

type checkPaymentRequest struct {
	MerchantTransactionID string            `json:"merchantTransactionId" binding:"required"`
	CartItems             []cartItemRequest `json:"cartItems"`
	SelectedAddressID     string            `json:"selectedAddress"`
	GuestInfo             *guestInfoRequest `json:"guestInfo"`
}

// CheckOrderPaymentStatus reconciles a gateway transaction. On confirmed
// payment it creates the order exactly once, keyed on the transaction ID;
// retries for an already-recorded transaction return the existing order.
func CheckOrderPaymentStatus(db *mongo.Database, gw PaymentGateway, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "PAYMENT")

		var req checkPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		txnID := strings.TrimSpace(req.MerchantTransactionID)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		result, err := gw.CheckStatus(ctx, txnID)
		if err != nil {
			log.Println("[PAYMENT] [ERROR] status check failed:", err)
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "payment gateway unavailable"})
			return
		}

		if !result.Success {
			log.Printf("[PAYMENT] [INFO] transaction %s not successful: %s", txnID, result.Code)
			c.JSON(http.StatusOK, gin.H{
				"success":       false,
				"paymentStatus": models.PaymentStatusFailed,
				"error":         "payment not successful",
			})
			return
		}

		orders := db.Collection("orders")

		var existing models.Order
		err = orders.FindOne(ctx, bson.M{"txnId": txnID}).Decode(&existing)
		if err == nil {
			items, err := resolveOrderItems(ctx, db, existing.Items)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "order": existing, "items": items})
			return
		}
		if err != mongo.ErrNoDocuments {
			log.Println("[PAYMENT] [ERROR] order lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}

		order, errMsg := buildOrderFromCheckout(ctx, db, req, jwtSecret, c.GetHeader("Authorization"))
		if errMsg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": errMsg})
			return
		}

		now := time.Now()
		order.TxnID = txnID
		order.OrderNumber = newOrderNumber(now)
		order.Amount = gateway.PaiseToRupees(result.AmountPaise)
		order.Status = models.OrderStatusPending
		order.PaymentStatus = models.PaymentStatusPaid
		order.CreatedAt = now
		order.UpdatedAt = now

		insertRes, err := orders.InsertOne(ctx, order)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				if err := orders.FindOne(ctx, bson.M{"txnId": txnID}).Decode(&existing); err == nil {
					items, rerr := resolveOrderItems(ctx, db, existing.Items)
					if rerr != nil {
						c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
						return
					}
					c.JSON(http.StatusOK, gin.H{"success": true, "order": existing, "items": items})
					return
				}
			}
			log.Println("[PAYMENT] [ERROR] order insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}
		if oid, ok := insertRes.InsertedID.(primitive.ObjectID); ok {
			order.ID = oid
		}

		log.Printf("[PAYMENT] [INFO] order %s created for transaction %s", order.OrderNumber, txnID)

		items, err := resolveOrderItems(ctx, db, order.Items)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "order": order, "items": items})
	}
}

// buildOrderFromCheckout assembles the order document from the checkout
// payload: item snapshots from the catalog, contact and address from either
// the authenticated user's address book or the supplied guest details.
func buildOrderFromCheckout(ctx context.Context, db *mongo.Database, req checkPaymentRequest, jwtSecret, authHeader string) (models.Order, string) {
	var order models.Order

	cartItems := make([]models.CartItem, 0, len(req.CartItems))
	for _, item := range req.CartItems {
		bookID, err := primitive.ObjectIDFromHex(strings.TrimSpace(item.BookID))
		if err != nil {
			return order, "invalid book id in cart"
		}
		cartItems = append(cartItems, models.CartItem{
			BookID:   bookID,
			Quantity: item.Quantity,
			Language: strings.ToLower(strings.TrimSpace(item.Language)),
		})
	}

	ids := make([]primitive.ObjectID, 0, len(cartItems))
	for _, item := range cartItems {
		ids = append(ids, item.BookID)
	}
	books, err := fetchBooksByID(ctx, db, ids)
	if err != nil {
		return order, "db error"
	}

	order.Items = buildOrderItemsFromCart(cartItems, books)
	if len(order.Items) == 0 {
		return order, "cart is empty"
	}

	userID := optionalUserID(authHeader, jwtSecret)
	if userID != nil {
		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": *userID}).Decode(&user); err != nil {
			return order, "user not found"
		}

		var selected *models.Address
		for i := range user.Addresses {
			if user.Addresses[i].ID == strings.TrimSpace(req.SelectedAddressID) {
				selected = &user.Addresses[i]
				break
			}
			if req.SelectedAddressID == "" && user.Addresses[i].IsDefault {
				selected = &user.Addresses[i]
			}
		}
		if selected == nil {
			return order, "shipping address not found"
		}

		order.UserID = userID
		order.IsGuestOrder = false
		order.Customer = models.OrderCustomer{Name: user.Name, Email: user.Email, Phone: user.Phone}
		order.ShippingAddress = snapshotFromAddress(*selected)
		return order, ""
	}

	if req.GuestInfo == nil {
		return order, "guest details required"
	}
	guestAddr := req.GuestInfo.Address.toAddress()
	if err := validateAddressFields(guestAddr.FullName, guestAddr.Phone, guestAddr.Line1, guestAddr.City, guestAddr.State, guestAddr.Pincode); err != nil {
		return order, err.Error()
	}

	order.UserID = nil
	order.IsGuestOrder = true
	order.Customer = models.OrderCustomer{
		Name:  strings.TrimSpace(req.GuestInfo.Name),
		Email: strings.TrimSpace(req.GuestInfo.Email),
		Phone: strings.TrimSpace(req.GuestInfo.Phone),
	}
	order.ShippingAddress = snapshotFromAddress(guestAddr)
	return order, ""
}
