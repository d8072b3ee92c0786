package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fernandwill/jobsphere/internal/auth"
	"github.com/fernandwill/jobsphere/internal/cache"
	"github.com/fernandwill/jobsphere/internal/config"
	"github.com/fernandwill/jobsphere/internal/domain/fiber/handler"
	"github.com/fernandwill/jobsphere/internal/logger"
	"github.com/fernandwill/jobsphere/internal/middleware"
	"github.com/fernandwill/jobsphere/internal/model"
	"github.com/fernandwill/jobsphere/internal/repository"
	"github.com/fernandwill/jobsphere/internal/service"
	"github.com/fernandwill/jobsphere/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const scrapeCacheTTL = 10 * time.Minute

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()

	zlog, err := logger.New(appConfig.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			// Status code defaults to 500
			code := fiber.StatusInternalServerError

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: appConfig.Env != "production",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.Env != "production"
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	db := ConnectDB()

	var scrapeCache *cache.Cache
	if redisURL := config.LoadRedisConfig().URL; redisURL != "" {
		scrapeCache, err = cache.New(redisURL, scrapeCacheTTL)
		if err != nil {
			zlog.Warn("scrape cache disabled", zap.Error(err))
			scrapeCache = nil
		} else {
			defer scrapeCache.Close()
		}
	}

	userRepo := repository.NewUserRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	scrapeRepo := repository.NewScrapeRepository(db)

	scraper := service.NewScraperService(scrapeCache, zlog)
	scrapeUC := usecase.NewScrapeUsecase(scrapeRepo, scraper, zlog)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo)

	if err := scrapeUC.RecoverStale(); err != nil {
		zlog.Error("failed to recover stale scrape requests", zap.Error(err))
	}
	scrapeUC.StartWorker(ctx)

	jwtManager := auth.NewJWTManager(appConfig.JWTSecret, 30*24*time.Hour)
	providers := auth.Providers(appConfig.BaseURL)

	authHandler := handler.NewAuthHandler(providers, jwtManager, userRepo, zlog)
	scrapeHandler := handler.NewScrapeHandler(scrapeUC)
	applicationHandler := handler.NewApplicationHandler(applicationUC, middleware.Auth(jwtManager, userRepo))

	authHandler.RegisterRoutes(app)
	scrapeHandler.RegisterRoutes(app)
	applicationHandler.RegisterRoutes(app)

	zlog.Info("server running", zap.String("port", appConfig.Port))
	if err := app.Listen(appConfig.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatalf("Could not get database instance: %v", err)
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Application{},
		&model.ScrapeRequest{},
		&model.ScrapeResult{},
	)
	if err != nil {
		log.Fatal("migration failed: ", err)
	}
	return db
}
