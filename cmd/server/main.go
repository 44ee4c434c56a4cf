package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civiform/civiform-go/config"
	"github.com/civiform/civiform-go/internal/cache"
	"github.com/civiform/civiform-go/internal/repository"
	"github.com/civiform/civiform-go/internal/service"
	"github.com/civiform/civiform-go/internal/transport/rest"
	"github.com/civiform/civiform-go/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	questionRepo := repository.NewQuestionRepo(mongoClient)
	versionRepo := repository.NewVersionRepo(mongoClient)
	programRepo := repository.NewProgramRepo(mongoClient)
	applicantRepo := repository.NewApplicantRepo(mongoClient)
	apiKeyRepo := repository.NewApiKeyRepo(mongoClient)

	// Initialize caches
	apiKeyCache := cache.NewApiKeyCache(rdb)
	docCache := cache.NewDocCache(rdb)

	// Initialize services (wsHub implements service.Broadcaster)
	authSvc := service.NewAuthService()
	questionSvc := service.NewQuestionService(questionRepo, versionRepo, programRepo, wsHub, logger)
	programSvc := service.NewProgramService(programRepo, questionRepo, versionRepo, wsHub, logger)
	applicantSvc := service.NewApplicantService(applicantRepo, questionSvc, logger)
	apiKeySvc := service.NewApiKeyService(apiKeyRepo, apiKeyCache, logger)
	openApiSvc := service.NewOpenApiService(programRepo, questionRepo, versionRepo, docCache, logger)

	// Create router with container
	container := &rest.Container{
		AuthService:      authSvc,
		QuestionService:  questionSvc,
		ProgramService:   programSvc,
		ApplicantService: applicantSvc,
		ApiKeyService:    apiKeySvc,
		OpenApiService:   openApiSvc,
		WSHub:            wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST/GET /v1/admin/questions")
		log.Println("  POST /v1/admin/programs")
		log.Println("  POST /v1/admin/publish")
		log.Println("  POST/GET /v1/admin/apikeys")
		log.Println("  POST /v1/applicants")
		log.Println("  GET  /api/v1/programs/{programId}/openapi")
		log.Println("  WS   /v1/ws/drafts")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
