package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/ghostwriter/configs"
	"github.com/maheshrc27/ghostwriter/internal/agents"
	"github.com/maheshrc27/ghostwriter/internal/api/handlers"
	"github.com/maheshrc27/ghostwriter/internal/api/middleware"
	job "github.com/maheshrc27/ghostwriter/internal/jobs"
	"github.com/maheshrc27/ghostwriter/internal/queue"
	"github.com/maheshrc27/ghostwriter/internal/repository"
	"github.com/maheshrc27/ghostwriter/internal/service"
	"github.com/maheshrc27/ghostwriter/pkg/utils"
	"github.com/robfig/cron"
	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/genai"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	utils.InitLogger(cfg.LogLevel)
	ctx := context.Background()

	db, postBackend, sessionBackend := openBackends(ctx, cfg)
	postRepo := repository.NewScheduledPostRepository(postBackend)
	sessionRepo := repository.NewSessionRepository(sessionBackend)

	httpClient := &http.Client{}

	wordPressService := service.NewWordPressService(cfg.WordPress, httpClient)
	threadsService := service.NewThreadsService(cfg.Threads, service.ThreadsGraphURL, httpClient)
	facebookService := service.NewFacebookService(cfg.Facebook, service.FacebookGraphURL, httpClient)
	publishService := service.NewPublishService(wordPressService, threadsService, facebookService)
	postService := service.NewPostService(postRepo, wordPressService, threadsService, facebookService, cfg.SecretKey)

	var generator service.TextGenerator
	if g, err := service.NewGeminiGenerator(ctx, cfg.GoogleAPIKey, cfg.GoogleModel); err != nil {
		log.Printf("Text generation disabled: %v", err)
	} else {
		generator = g
	}

	builder, runner := buildAgents(ctx, cfg, publishService)
	agentService := service.NewAgentService(builder, runner, generator)
	chatService := service.NewChatService(sessionRepo, generator)

	var storage service.ObjectStorage
	if r2, err := service.NewR2Service(ctx, cfg.R2); err != nil {
		log.Printf("Image upload disabled: %v", err)
	} else {
		storage = r2
	}
	imageService := service.NewImageService(cfg, httpClient, storage)
	siteService := service.NewSiteService(httpClient)
	oauthService := service.NewOAuthService(cfg)

	var asynqClient *asynq.Client
	if cfg.RedisURI != "" {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisURI})
		defer asynqClient.Close()
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	app.Get("/health", handlers.Health)

	platform := handlers.NewPlatformHandler(wordPressService, threadsService, facebookService, oauthService, *cfg)
	app.Get("/auth/:platform", platform.AddSocialAccount)
	app.Get("/auth/:platform/callback", platform.CallbackHandler)

	api := app.Group("/api")
	api.Use(middleware.AccessToken())

	chat := handlers.NewChatHandler(chatService)
	api.Post("/chat", chat.Chat)

	publish := handlers.NewPublishHandler(publishService)
	api.Post("/publish", publish.Publish)

	content := handlers.NewContentHandler(imageService, siteService)
	api.Post("/check-wordpress", content.CheckWordPress)
	api.Post("/generate-image", content.GenerateImage)

	agent := handlers.NewAgentHandler(agentService)
	api.Post("/agents/run-full-cycle", agent.RunFullCycle)
	api.Post("/agents/:slug", agent.RunAgent)
	api.Post("/refine-content", agent.Refine)

	post := handlers.NewPostHandler(postService, asynqClient)
	api.Post("/scheduled-posts/save", post.SavePost)
	api.Post("/scheduled-posts/list", post.ListPosts)
	api.Get("/scheduled-posts/:user_id/:post_id", post.GetPost)
	api.Delete("/scheduled-posts/:user_id/:post_id", post.RemovePost)
	api.Post("/scheduled-posts/publish-wordpress", post.PublishWordPress)
	api.Post("/scheduled-posts/publish-threads", post.PublishThreads)
	api.Post("/scheduled-posts/publish-facebook", post.PublishFacebook)

	// platform api routes
	api.Get("/check-threads", platform.CheckThreads)
	api.Get("/check-facebook", platform.CheckFacebook)
	api.Get("/facebook-pages", platform.FacebookPages)
	api.Delete("/facebook-posts/:post_id", platform.DeleteFacebookPost)
	api.Post("/platforms/wordpress/verify", platform.VerifyWordPress)
	api.Post("/platforms/facebook/verify", platform.VerifyFacebook)

	// cron jobs
	duePostsJob := job.NewDuePostsJob(postService)

	c := cron.New()
	c.AddFunc("@every 00h01m00s", duePostsJob.Run)
	c.Start()
	defer c.Stop()

	//queue
	if cfg.RedisURI != "" {
		queueW := queue.NewQueue(postService)

		go func() {
			server := asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisURI}, asynq.Config{
				Concurrency: 10,
			})

			mux := asynq.NewServeMux()
			queueW.Register(mux)

			log.Println("Starting the Asynq server...")
			if err := server.Run(mux); err != nil {
				log.Fatalf("Could not start Asynq server: %v", err)
			}
		}()
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, db)
}

// openBackends picks the document backend. db is nil for the file backend.
func openBackends(ctx context.Context, cfg *config.Config) (*sql.DB, repository.Backend, repository.Backend) {
	if cfg.StoreBackend != "postgres" {
		return nil, repository.NewFileBackend(cfg.ScheduledPostsDir()), repository.NewFileBackend(cfg.SessionsDir())
	}

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	posts, err := repository.NewPostgresBackend(ctx, db, "scheduled_posts")
	if err != nil {
		log.Fatalf("Failed to prepare documents table: %v", err)
	}
	sessions, err := repository.NewPostgresBackend(ctx, db, "sessions")
	if err != nil {
		log.Fatalf("Failed to prepare documents table: %v", err)
	}
	return db, posts, sessions
}

// buildAgents returns a nil builder when no model is available; the agent
// endpoints then answer with templates or "not configured".
func buildAgents(ctx context.Context, cfg *config.Config, publisher agents.Publisher) (*agents.Builder, *agents.Runner) {
	catalog, err := agents.LoadCatalog()
	if err != nil {
		log.Fatalf("Failed to load agent catalog: %v", err)
	}
	runner := agents.NewRunner(catalog.AppName)

	if cfg.GoogleAPIKey == "" {
		log.Println("Agents disabled: GOOGLE_API_KEY not set")
		return nil, runner
	}

	clientCfg := &genai.ClientConfig{APIKey: cfg.GoogleAPIKey, Backend: genai.BackendGeminiAPI}
	textModel, err := gemini.NewModel(ctx, cfg.GoogleModel, clientCfg)
	if err != nil {
		log.Printf("Agents disabled: %v", err)
		return nil, runner
	}
	var imageModel model.LLM = textModel
	if cfg.GoogleImageModel != cfg.GoogleModel {
		if imageModel, err = gemini.NewModel(ctx, cfg.GoogleImageModel, clientCfg); err != nil {
			log.Printf("Image agent falls back to %s: %v", cfg.GoogleModel, err)
			imageModel = textModel
		}
	}

	tools, err := agents.NewTools(publisher)
	if err != nil {
		log.Fatalf("Failed to build agent tools: %v", err)
	}
	return agents.NewBuilder(catalog, textModel, imageModel, tools), runner
}

func closeDB(db *sql.DB) {
	if db == nil {
		return
	}
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
