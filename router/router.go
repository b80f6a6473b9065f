package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ordira-app/backend/controllers"
	"github.com/ordira-app/backend/middlewares"
	"github.com/ordira-app/backend/models"
	"github.com/ordira-app/backend/services"
)

func SetupRouter(db *gorm.DB, payments *services.PaymentService, ai *services.AIService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Limiter global per client IP; login/register punya varian lebih ketat
	limiter := middlewares.NewRateLimiter(50, 100)
	r.Use(limiter.RateLimit())

	// Gambar menu dilayani statis
	r.Static("/uploads", "uploads")

	userCtrl := controllers.NewUserController(db)
	categoryCtrl := controllers.NewCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db)
	paymentCtrl := controllers.NewPaymentController(db, payments)
	aiCtrl := controllers.NewAIController(ai)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter ketat untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Customer tanpa login: lihat katalog, pesan, bayar, chat rekomendasi
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/categories/:cat_id", categoryCtrl.GetCategoryByID)
	r.GET("/menus", menuCtrl.GetAllMenus)
	r.GET("/menus/:menu_id", menuCtrl.GetMenuByID)

	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	r.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)
	r.GET("/orders/:order_id/payment-status", paymentCtrl.CheckPaymentStatus)
	r.GET("/tables/:table_number/orders", orderCtrl.GetOrdersByTable)

	r.POST("/payments", paymentCtrl.CreatePayment)
	r.POST("/payments/notification", paymentCtrl.HandleNotification)

	r.POST("/ai/chat", aiCtrl.Chat)

	// Kitchen display websocket
	r.GET("/kds/ws", controllers.KDSHandler)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	staff := r.Group("/staff")
	staff.Use(middlewares.AuthMiddleware())

	staff.GET("/profile", userCtrl.GetProfile)
	staff.POST("/logout", userCtrl.Logout)

	// ADMIN: manajemen katalog, user, dan dashboard
	admin := staff.Group("/")
	admin.Use(middlewares.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/users", userCtrl.GetAllUsers)
		admin.POST("/users", userCtrl.Register)
		admin.GET("/users/:user_id", userCtrl.GetUserByID)
		admin.PATCH("/users/:user_id", userCtrl.UpdateUser)
		admin.DELETE("/users/:user_id", userCtrl.DeleteUser)

		admin.POST("/categories", categoryCtrl.CreateCategory)
		admin.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
		admin.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

		admin.POST("/menus", menuCtrl.CreateMenu)
		admin.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
		admin.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)
		admin.POST("/menus/:menu_id/image", menuCtrl.UploadImage)

		admin.GET("/orders/stats", orderCtrl.GetOrderStats)
	}

	// KASIR: daftar order, pembayaran manual, stok menu
	kasir := staff.Group("/")
	kasir.Use(middlewares.RequireRoles(models.RoleAdmin, models.RoleKasir))
	{
		kasir.GET("/orders", orderCtrl.ListOrders)
		kasir.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		kasir.PATCH("/orders/:order_id/payment", orderCtrl.UpdatePaymentStatus)
		kasir.PATCH("/menus/:menu_id/availability", menuCtrl.ToggleAvailability)
	}

	// KOKI: antrian dapur
	koki := staff.Group("/")
	koki.Use(middlewares.RequireRoles(models.RoleAdmin, models.RoleKoki))
	{
		koki.GET("/kitchen/queue", orderCtrl.GetKitchenQueue)
		koki.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
	}

	return r
}
