package main

import (
	"fmt"
	"log"

	"github.com/invoicepal/invoicepal-api/internal/config"
	"github.com/invoicepal/invoicepal-api/internal/database"
	"github.com/invoicepal/invoicepal-api/internal/handler"
	"github.com/invoicepal/invoicepal-api/internal/middleware"
	"github.com/invoicepal/invoicepal-api/internal/repository"
	"github.com/invoicepal/invoicepal-api/internal/server"
	"github.com/invoicepal/invoicepal-api/internal/service"
)

// @title InvoicePal API
// @version 1.0
// @description Invoice drafting, validation and persistence service
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.Println("Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Wire storage. With no database configured the service runs against
	// in-memory repositories so local development works out of the box.
	var (
		invoiceRepo repository.InvoiceRepository
		userRepo    repository.UserRepository
	)
	if cfg.DatabaseURL != "" {
		log.Println("Connecting to PostgreSQL...")
		db, err := database.NewPostgresDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		invoiceRepo = repository.NewPostgresInvoiceRepository(db.GetPool())
		userRepo = repository.NewPostgresUserRepository(db.GetPool())
	} else {
		log.Println("No database configured, using in-memory storage")
		invoiceRepo = repository.NewMemoryInvoiceRepository()
		userRepo = repository.NewMemoryUserRepository()
	}

	invoiceService := service.NewInvoiceService(invoiceRepo)
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:             userRepo,
		JWTSecret:            cfg.JWTSecret,
		JWTAccessExpiration:  cfg.JWTAccessExpiration,
		JWTRefreshExpiration: cfg.JWTRefreshExpiration,
	})

	log.Println("Configuring server...")
	appServer := server.NewServer(cfg)

	auth := middleware.AuthMiddleware(authService)
	optionalAuth := middleware.OptionalAuthMiddleware(authService)
	handler.NewInvoiceHandler(invoiceService).RegisterRoutes(appServer.Router(), auth, optionalAuth)
	handler.NewAuthHandler(authService).RegisterRoutes(appServer.Router(), auth)

	log.Printf("Starting server on port %d...", cfg.Port)
	if err := appServer.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	fmt.Println("Server shutdown complete")
}
