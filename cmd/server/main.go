package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "stockbilling/internal/adapters/web"
	"stockbilling/internal/app"
	"stockbilling/internal/core"
	"stockbilling/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	userService := core.NewUserService(pool)
	organizationService := core.NewOrganizationService(pool)
	productService := core.NewProductService(pool)
	customerService := core.NewCustomerService(pool)
	invoiceService := core.NewInvoiceService(pool)
	statsService := core.NewStatsService(pool)

	svc := app.NewAppService(userService, organizationService, productService,
		customerService, invoiceService, statsService)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
