package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/Simple2B/bidhive-ml-api/internal/api"
	"github.com/Simple2B/bidhive-ml-api/internal/config"
	"github.com/Simple2B/bidhive-ml-api/internal/db"
	"github.com/Simple2B/bidhive-ml-api/internal/db/migrate"
	"github.com/Simple2B/bidhive-ml-api/internal/queue"
	"github.com/Simple2B/bidhive-ml-api/internal/service"
)

func main() {
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file loaded:", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// PostgreSQL
	conn, err := db.New(cfg)
	if err != nil {
		log.Fatal("Failed to connect database:", err)
	}
	migrate.DBMigrateAll(conn)

	repo := service.NewGormFileRepo(conn)

	// Object storage
	var storage service.ObjectStorage
	switch cfg.StorageBackend {
	case "s3":
		storage, err = service.NewS3Storage(cfg)
	default:
		storage, err = service.NewLocalStorage(cfg.LocalStoragePath)
	}
	if err != nil {
		log.Fatal("Failed to init object storage:", err)
	}

	datasets := service.NewDatasetStore(storage, cfg.EmbedAnswers)

	// Embeddings
	embedder, err := service.NewOpenAIEmbedder(cfg)
	if err != nil {
		log.Fatal("Failed to init embedder:", err)
	}

	// Stale upload copies left behind by failed deletes
	periodic := service.NewPeriodicService()
	service.RegisterObjectCleaner(periodic, storage, "uploads/", 72*time.Hour, time.Hour)

	app := fiber.New(fiber.Config{
		BodyLimit: 100 * 1024 * 1024, // 100 MB
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.FrontendURL,
		AllowMethods: "*",
		AllowHeaders: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Hello, Bidhive ML API!")
	})

	q := queue.NewQueue()

	api.RegisterAuthRoutes(app, cfg)
	api.RegisterUploadRoutes(app, cfg, repo, storage, q)
	api.RegisterFileListRoute(app, cfg, repo)
	api.RegisterSearchRoutes(app, cfg, repo, datasets, embedder)

	// Background parse pipeline
	worker := &queue.ParseWorker{
		Cfg:      cfg,
		Repo:     repo,
		Storage:  storage,
		Datasets: datasets,
		Embedder: embedder,
		Locks:    queue.NewCompanyLocks(),
	}
	queue.ConsumeParseFile(q, worker, cfg.ParseWorkers)

	log.Fatal(app.Listen(fmt.Sprintf(":%s", cfg.BackendPort)))
}
