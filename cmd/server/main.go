package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"

	config "github.com/linktraq/linktraq/configs"
	"github.com/linktraq/linktraq/internal/api/handlers"
	"github.com/linktraq/linktraq/internal/api/middleware"
	job "github.com/linktraq/linktraq/internal/jobs"
	"github.com/linktraq/linktraq/internal/queue"
	"github.com/linktraq/linktraq/internal/repository"
	"github.com/linktraq/linktraq/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return origin == cfg.FrontendURL
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	scheduleRepo := repository.NewScheduleRepository(db)
	postRepo := repository.NewPostRepository(db)
	productRepo := repository.NewProductRepository(db)
	failureRepo := repository.NewFailureRepository(db)
	integrationRepo := repository.NewIntegrationRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	scheduleService := service.NewScheduleService(scheduleRepo, postRepo, failureRepo)
	postService := service.NewPostService(postRepo)
	productService := service.NewProductService(productRepo)
	linkService := service.NewLinkService(linkRepo, productRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	integrationService := service.NewIntegrationService(*cfg, integrationRepo)
	xService := service.NewXService(*cfg)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	link := handlers.NewLinkHandler(linkService)
	app.Get("/l/:code", link.Redirect)

	health := handlers.NewHealthHandler(db)
	app.Get("/api/health", health.Health)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	post := handlers.NewPostHandler(postService)
	api.Post("/posts/create", post.CreatePost)
	api.Get("/posts", post.ListPosts)
	api.Post("/posts/remove", post.RemovePost)

	product := handlers.NewProductHandler(productService)
	api.Post("/products/create", product.CreateProduct)
	api.Get("/products", product.ListProducts)

	schedule := handlers.NewScheduleHandler(scheduleService)
	api.Post("/schedules/create", schedule.CreateSchedule)
	api.Get("/schedules", schedule.ListSchedules)
	api.Get("/schedules/:id", schedule.GetSchedule)
	api.Get("/schedules/:id/failures", schedule.ListScheduleFailures)
	api.Post("/schedules/remove", schedule.RemoveSchedule)
	api.Get("/failures", schedule.ListFailures)

	api.Post("/links/create", link.CreateLink)
	api.Get("/links", link.ListLinks)

	notification := handlers.NewNotificationHandler(notificationService)
	api.Get("/notifications", notification.ListNotifications)
	api.Post("/notifications/read", notification.MarkRead)

	enqueuer := queue.NewEnqueuer(client, cfg.QueueName, cfg.DeadLetterQueue)

	// queue consumer
	queueW := queue.NewQueue(*cfg, scheduleRepo, postRepo, integrationService,
		failureRepo, linkRepo, notificationRepo, xService, enqueuer)

	// cron jobs
	scannerJob := job.NewScheduleScannerJob(scheduleRepo, enqueuer)
	refreshTokenJob := job.NewTokenRefreshJob(*cfg, integrationRepo)

	c := cron.New()
	c.AddFunc(fmt.Sprintf("@every %s", cfg.ScanInterval), scannerJob.ScanDueSchedules)
	c.AddFunc("@every 00h10m00s", refreshTokenJob.RefreshTokens)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: cfg.WorkerConcurrency,
			Queues: map[string]int{
				cfg.QueueName: 1,
			},
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishPost, queueW.HandlePublishPostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
