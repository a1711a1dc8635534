package main

import (
	"log"
	"os"

	"github.com/bistrodev/bistro-pos/config"
	"github.com/bistrodev/bistro-pos/database"
	"github.com/bistrodev/bistro-pos/router"
	"github.com/bistrodev/bistro-pos/utils"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate database: %v", err)
	}
	if err := database.SeedAdmin(db); err != nil {
		utils.ErrorLogger.Printf("Admin seed skipped: %v", err)
	}

	r := router.SetupRouter(db)
	r.SetTrustedProxies([]string{"127.0.0.1"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
