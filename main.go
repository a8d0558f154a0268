package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"contest-hub-service/handlers"
	"contest-hub-service/middleware"
	"contest-hub-service/models"
	"contest-hub-service/services"
	"contest-hub-service/utils"
	"contest-hub-service/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // banner uploads
	})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:5173")
		allowedOriginsEnv = "http://localhost:5173"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Email, X-User-Role",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Printf("⚠️  R2 unavailable (%v) — banner uploads fall back to local disk", err)
	}
	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Contest{},
		&models.User{},
		&models.Registration{},
		&models.Submission{},
		&models.Winner{},
		&models.BadgeType{},
		&models.UserBadge{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	cache := services.NewCache(os.Getenv("REDIS_ADDR"), os.Getenv("REDIS_PASSWORD"))

	badgeService := services.NewBadgeService(db)
	if err := badgeService.SeedBadgeTypes(); err != nil {
		log.Fatal("failed to seed badge types:", err)
	}

	contestService := services.NewContestService(db, cache)
	userService := services.NewUserService(db, cache)
	paymentService := services.NewPaymentService(db, badgeService)
	submissionService := services.NewSubmissionService(db)
	winnerService := services.NewWinnerService(db, badgeService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reconciler := workers.NewWinnerReconcileWorker(db)
	reconciler.Start(ctx)

	paymentService.StartExpiryScheduler()

	handlers.SetupContestRoutes(app, contestService, winnerService)
	handlers.SetupUserRoutes(app, userService)
	handlers.SetupPaymentRoutes(app, paymentService)
	handlers.SetupSubmissionRoutes(app, submissionService, winnerService)

	app.Static("/uploads", "./uploads")

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Winner Reconcile Worker running")
	log.Println("✅ Checkout expiry scheduler running (every 10m)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
