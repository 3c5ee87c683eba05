package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"recipe-share-system/handlers"
	"recipe-share-system/models"
	"recipe-share-system/services"
	"recipe-share-system/utils"
	"recipe-share-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024, // photos only, keep uploads small
	})

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Println("⚠️  R2 not configured, photo uploads disabled:", err)
	}

	// TranslateError turns driver duplicate-key errors into gorm.ErrDuplicatedKey,
	// which the action tracker and services rely on for idempotent writes.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Recipe{},
		&models.RecipeLike{},
		&models.SavedRecipe{},
		&models.CookedRecipe{},
		&models.Comment{},
		&models.CommentLike{},
		&models.Badge{},
		&models.UserBadge{},
		&models.UserAction{},
		&models.Notification{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	var rdb *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
	} else {
		log.Println("⚠️  REDIS_ADDR not set, leaderboard caching disabled")
	}

	engine := services.NewXPEngine(services.DefaultXPConfig())
	notifier := services.NewNotificationService(db)
	badgeService := services.NewBadgeService(db, engine, notifier)
	tracker := services.NewActionTracker(db, engine, badgeService, notifier)
	recipeService := services.NewRecipeService(db, tracker, badgeService, notifier)
	commentService := services.NewCommentService(db, tracker, notifier)
	followService := services.NewFollowService(db, tracker, notifier)
	leaderboardService := services.NewLeaderboardService(db, rdb)
	authService := services.NewAuthService(db, tracker)

	if _, err := badgeService.SeedDefaultBadges(); err != nil {
		log.Fatal("failed to seed badges:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recipeService.StartPublishScheduler()

	if rdb != nil {
		go workers.WarmLeaderboards(ctx, leaderboardService, 2*time.Minute)
	}

	handlers.SetupAuthRoutes(app, authService)
	handlers.SetupRecipeRoutes(app, recipeService, authService)
	handlers.SetupSocialRoutes(app, followService, commentService)
	handlers.SetupGamificationRoutes(app, tracker, badgeService, engine, authService)
	handlers.SetupLeaderboardRoutes(app, leaderboardService)
	handlers.SetupNotificationRoutes(app, notifier)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Recipe publish scheduler running")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
