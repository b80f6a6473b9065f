package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/ordira-app/backend/config"
	"github.com/ordira-app/backend/models"
	"github.com/ordira-app/backend/router"
	"github.com/ordira-app/backend/services"
	"github.com/ordira-app/backend/utils"
)

func main() {
	// .env opsional, environment asli tetap menang
	if err := godotenv.Load(); err != nil {
		utils.InitLogger()
		utils.InfoLogger.Println("No .env file found, using environment variables")
	} else {
		utils.InitLogger()
	}

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	defer config.CloseDB(db)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Menu{},
		&models.Order{},
		&models.OrderItem{},
		&models.PaymentLog{},
	); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate database: %v", err)
	}

	gateway := services.NewMidtransService(services.MidtransConfigFromEnv())
	if err := gateway.ValidateConfig(); err != nil {
		utils.ErrorLogger.Fatalf("Invalid payment gateway config: %v", err)
	}
	mailer := services.NewEmailServiceFromEnv()
	payments := services.NewPaymentService(db, gateway, mailer)

	llm := services.NewKolosalClient()
	ai := services.NewAIService(db, llm)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.SetupRouter(db, payments, ai)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	utils.InfoLogger.Printf("Ordira backend listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatalf("Server error: %v", err)
	}
}
