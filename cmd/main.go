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

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/khojapp/khoj-server/internal/apperr"
	"github.com/khojapp/khoj-server/internal/config"
	"github.com/khojapp/khoj-server/internal/db"
	"github.com/khojapp/khoj-server/internal/handlers"
	"github.com/khojapp/khoj-server/internal/middleware"
	"github.com/khojapp/khoj-server/internal/seed"
	"github.com/khojapp/khoj-server/internal/services"
	"github.com/khojapp/khoj-server/internal/storage"
	"github.com/khojapp/khoj-server/web"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	mongo, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")

	if err := mongo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Indexes: %v", err)
	}
	if err := seed.Colleges(ctx, mongo.Collection(db.CollegesCollection)); err != nil {
		log.Fatalf("Seed: %v", err)
	}

	store, err := storage.NewMediaStore(ctx, storage.Options{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		UseSSL:    cfg.MinioUseSSL,
		Bucket:    cfg.MinioBucket,
		BaseURL:   cfg.MediaBaseURL,
	})
	if err != nil {
		log.Fatalf("MinIO: %v", err)
	}
	log.Println("Connected to MinIO")

	authSvc := services.NewAuthService(mongo.Collection(db.UsersCollection), cfg.JWTSecret)
	itemSvc := services.NewItemService(mongo.Collection(db.ItemsCollection))
	mediaSvc := services.NewMediaService(store)
	collegeSvc := services.NewCollegeService(mongo.Collection(db.CollegesCollection))

	authHandler := handlers.NewAuthHandler(authSvc)
	itemHandler := handlers.NewItemHandler(itemSvc, mediaSvc)
	uploadHandler := handlers.NewUploadHandler(mediaSvc)
	campusHandler := handlers.NewCampusHandler(collegeSvc)

	app := fiber.New(fiber.Config{
		ErrorHandler: apperr.Handler(cfg.IsDev()),
		BodyLimit:    services.MaxImageSize * (services.MaxImagesPerItem + 1),
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.ClientOrigins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        100,
		Expiration: 15 * time.Minute,
	}))

	requireAuth := middleware.Auth(authSvc)

	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", requireAuth, authHandler.Me)

	items := api.Group("/items", requireAuth)
	items.Get("/", itemHandler.List)
	items.Get("/mine", itemHandler.Mine)
	items.Post("/", itemHandler.Create)
	items.Get("/:id", itemHandler.Get)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)

	upload := api.Group("/upload", requireAuth)
	upload.Post("/image", uploadHandler.Image)
	upload.Post("/images", uploadHandler.Images)

	api.Get("/campuses", campusHandler.List)

	// Embedded browser client; API routes above take priority.
	app.Use(filesystem.New(filesystem.Config{
		Root:  http.FS(web.StaticFS()),
		Index: "index.html",
	}))

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server: %v", err)
		}
	}()
	log.Printf("API server running on port %s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	if err := mongo.Close(ctx); err != nil {
		log.Printf("MongoDB disconnect: %v", err)
	}
}
