package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bookstore/internal/config"
	"bookstore/internal/database"
	"bookstore/internal/gateway"
	"bookstore/internal/handlers"
	"bookstore/internal/mail"
	"bookstore/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Println("user index warning:", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Println("order index warning:", err)
	}
	if err := database.EnsureArticleIndexes(db); err != nil {
		log.Println("article index warning:", err)
	}

	notifier := mail.NewSender(
		config.AppEnv.SMTPAddress,
		config.AppEnv.SMTPHost,
		config.AppEnv.FromEmail,
		config.AppEnv.FromEmailPass,
	)

	paymentClient := gateway.NewClient(gateway.Config{
		MerchantID:  config.AppEnv.MerchantID,
		SaltKey:     config.AppEnv.SaltKey,
		SaltIndex:   config.AppEnv.SaltIndex,
		BaseURL:     config.AppEnv.GatewayBaseURL,
		RedirectURL: config.AppEnv.PaymentRedirect,
		CallbackURL: config.AppEnv.PaymentCallback,
	})

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AppEnv.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Static("/public", "./public")

	r.POST("/auth/register", handlers.Register(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))
	r.POST("/auth/login", handlers.Login(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.GET("/auth/me", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetMe(db))
	r.POST("/auth/refresh", handlers.Refresh(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/logout", handlers.Logout(db))

	r.GET("/books", handlers.GetBooks(db))
	r.GET("/books/:id", handlers.GetBook(db))

	r.GET("/fatwahs", handlers.GetFatwahs(db))
	r.GET("/fatwahs/:id", handlers.GetFatwah(db))
	r.POST("/fatwahs/ask", handlers.AskFatwah(db))

	r.GET("/articles", handlers.GetArticles(db))
	r.GET("/articles/:slug", handlers.GetArticleBySlug(db))

	r.POST("/payments/generate-payment-url", handlers.GeneratePaymentURL(paymentClient, config.AppEnv.JWTSecret))
	r.POST("/payments/check-order-payment-status", handlers.CheckOrderPaymentStatus(db, paymentClient, config.AppEnv.JWTSecret))

	orders := r.Group("/orders")
	{
		orders.GET("/:userId", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetUserOrders(db))

		ordersAdmin := orders.Group("/admin")
		ordersAdmin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
		{
			ordersAdmin.GET("/all", handlers.ListAdminOrders(db))
			ordersAdmin.GET("/export-csv", handlers.ExportOrdersCSV(db))
			ordersAdmin.GET("/:orderId", handlers.GetAdminOrder(db))
			ordersAdmin.PATCH("/:orderId/status", handlers.UpdateOrderStatus(db, notifier))
		}
	}

	user := r.Group("/user")
	user.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		user.GET("/addresses", handlers.GetUserAddresses(db))
		user.POST("/addresses", handlers.CreateUserAddress(db))
		user.PUT("/addresses/:id", handlers.UpdateUserAddress(db))
		user.DELETE("/addresses/:id", handlers.DeleteUserAddress(db))

		user.GET("/cart", handlers.GetCart(db))
		user.POST("/cart", handlers.AddToCart(db))
		user.PUT("/cart/:bookId", handlers.UpdateCartItem(db))
		user.DELETE("/cart/:bookId", handlers.RemoveCartItem(db))
		user.DELETE("/cart", handlers.ClearCart(db))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

		admin.GET("/books", handlers.GetAllBooks(db))
		admin.POST("/books", handlers.CreateBook(db))
		admin.PUT("/books/:id", handlers.UpdateBook(db))
		admin.DELETE("/books/:id", handlers.DeleteBook(db))
		admin.POST("/books/:id/images", handlers.UploadBookImage(db))
		admin.DELETE("/books/:id/images", handlers.RemoveBookImage(db))

		admin.GET("/fatwahs", handlers.GetAllFatwahs(db))
		admin.PUT("/fatwahs/:id", handlers.UpdateFatwah(db))
		admin.DELETE("/fatwahs/:id", handlers.DeleteFatwah(db))

		admin.GET("/articles", handlers.GetAllArticles(db))
		admin.POST("/articles", handlers.CreateArticle(db))
		admin.PUT("/articles/:id", handlers.UpdateArticle(db))
		admin.DELETE("/articles/:id", handlers.DeleteArticle(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
