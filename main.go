package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"earnpro/database"
	"earnpro/middleware"
	"earnpro/models"
	"earnpro/routes"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// Load .env if present (do not overwrite already-set environment variables).
	if envMap, err := godotenv.Read(); err == nil {
		for k, v := range envMap {
			if os.Getenv(k) == "" {
				os.Setenv(k, v)
			}
		}
	}

	// Validate required environment variables
	requiredEnvVars := []string{"JWT_SECRET", "ADMIN_USERNAME", "ADMIN_PASSWORD"}
	if strings.ToLower(os.Getenv("DB_DRIVER")) == "mysql" {
		requiredEnvVars = append(requiredEnvVars, "DB_HOST", "DB_USER", "DB_PASS", "DB_NAME")
	}
	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	// Connect to the database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := database.RunMigrationsWithBackup(db,
		&models.Admin{},
		&models.User{},
		&models.EarningOption{},
		&models.AppTask{},
		&models.TaskSubmission{},
		&models.WithdrawalRequest{},
		&models.Cooldown{},
		&models.Transaction{},
		&models.Setting{},
		&models.RevokedToken{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	if err := seedDefaults(db); err != nil {
		log.Fatalf("failed to seed defaults: %v", err)
	}

	// Initialize router
	router := routes.InitRouter()

	// Wrap router with global middleware in recommended order:
	// Logging -> Security headers -> Request ID -> Max Body -> Timeout -> Recovery
	handler := middleware.RequestLogMiddleware(
		middleware.SecurityHeadersMiddleware(
			middleware.RequestIDMiddleware(
				middleware.MaxBodyMiddleware(
					middleware.TimeoutMiddleware(
						middleware.RecoveryMiddleware(router),
					),
				),
			),
		),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// seedDefaults fills an empty database with the rows the app expects at
// runtime: the settings row, the built-in earning options and the admin
// account from ADMIN_USERNAME/ADMIN_PASSWORD.
func seedDefaults(db *gorm.DB) error {
	var settingCount int64
	if err := db.Model(&models.Setting{}).Count(&settingCount).Error; err != nil {
		return err
	}
	if settingCount == 0 {
		if err := db.Create(&models.Setting{
			MinWithdraw:    10,
			SignupBonus:    5,
			ReferralReward: 8,
		}).Error; err != nil {
			return err
		}
		log.Println("Seeded default settings")
	}

	var optionCount int64
	if err := db.Model(&models.EarningOption{}).Count(&optionCount).Error; err != nil {
		return err
	}
	if optionCount == 0 {
		options := []models.EarningOption{
			{
				Title:         "Spin & Win",
				Description:   "Spin the wheel and win a random reward",
				IconClass:     "fa-dharmachakra",
				RewardMin:     0.5,
				RewardMax:     2.0,
				CooldownHours: 1,
				ActionType:    models.ActionSpin,
				IsActive:      true,
				DisplayOrder:  1,
			},
			{
				Title:         "Watch Ads",
				Description:   "Watch a short ad to earn",
				IconClass:     "fa-video",
				RewardMin:     1.0,
				RewardMax:     2.0,
				CooldownHours: 0.5,
				ActionType:    models.ActionWatchAd,
				IsActive:      true,
				DisplayOrder:  2,
			},
			{
				Title:         "Download Apps",
				Description:   "Install an app and submit a screenshot proof",
				IconClass:     "fa-download",
				RewardMin:     10,
				RewardMax:     50,
				CooldownHours: 0,
				ActionType:    models.ActionDownloadApp,
				IsActive:      true,
				DisplayOrder:  3,
			},
		}
		if err := db.Create(&options).Error; err != nil {
			return err
		}
		log.Printf("Seeded %d default earning options", len(options))
	}

	username := os.Getenv("ADMIN_USERNAME")
	var adminCount int64
	if err := db.Model(&models.Admin{}).Where("username = ?", username).Count(&adminCount).Error; err != nil {
		return err
	}
	if adminCount == 0 {
		admin := models.Admin{
			Username: username,
			Password: os.Getenv("ADMIN_PASSWORD"),
			Name:     "Administrator",
			Role:     "admin",
			IsActive: true,
		}
		if err := admin.HashPassword(); err != nil {
			return err
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		log.Printf("Seeded admin account %q", username)
	}

	return nil
}
