package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/clearlabel/transparency-api/internal/cache"
	"github.com/clearlabel/transparency-api/internal/config"
	"github.com/clearlabel/transparency-api/internal/database"
	"github.com/clearlabel/transparency-api/internal/handler"
	"github.com/clearlabel/transparency-api/internal/middleware"
	"github.com/clearlabel/transparency-api/internal/report"
	"github.com/clearlabel/transparency-api/internal/repository"
	"github.com/clearlabel/transparency-api/internal/service"
	"github.com/clearlabel/transparency-api/internal/worker"
	"github.com/clearlabel/transparency-api/pkg/aiservice"
)

// main is the application entrypoint for the transparency intake gateway.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting transparency api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis. The question cache is an optimization: if Redis
	// is unreachable the gateway still works, every generation just hits the
	// AI service.
	var questionCache *cache.QuestionCache
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis connection failed - question caching disabled")
	} else {
		defer redisClient.Close()
		questionCache = cache.NewQuestionCache(redisClient, cfg.AIService.CacheTTL)
		log.Info().Msg("redis connected successfully")
	}

	// 4. Initialize AI service client
	aiClient := aiservice.NewClient(cfg.AIService.BaseURL)

	// 5. Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)

	// 6. Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	productSvc := service.NewProductService(productRepo, questionRepo, answerRepo, userRepo)
	questionSvc := service.NewQuestionService(aiClient, questionCache)
	scoreSvc := service.NewScoreService(productRepo, answerRepo, aiClient)
	reportSvc := service.NewReportService(productRepo, answerRepo, report.NewRenderer(), cfg.Report.Dir)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(db),
		Auth:     handler.NewAuthHandler(authSvc),
		Product:  handler.NewProductHandler(productSvc),
		Question: handler.NewQuestionHandler(questionSvc),
		Report:   handler.NewReportHandler(reportSvc),
		Score:    handler.NewScoreHandler(scoreSvc),
	}

	// 8. Initialize middleware
	authMw := middleware.NewAuthMiddleware(cfg.JWTSecret)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, authMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start the report janitor
	go worker.NewReportJanitor(cfg.Report.Dir, cfg.Report.MaxAge, cfg.Report.SweepInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Question *handler.QuestionHandler
	Report   *handler.ReportHandler
	Score    *handler.ScoreHandler
}

// setupRoutes registers all routes. Reads are public; writes and question
// generation require a bearer session token.
func setupRoutes(router *gin.Engine, handlers *Handlers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/api/health", handlers.Health.GetHealth)
	router.POST("/api/auth/login", handlers.Auth.Login)

	api := router.Group("/api")
	{
		api.GET("/products", handlers.Product.GetProducts)
		api.GET("/products/:id/report", handlers.Report.GetReport)
		api.GET("/products/:id/transparency-score", handlers.Score.GetTransparencyScore)

		api.POST("/products", authMiddleware.Handle(), handlers.Product.CreateProduct)
		api.POST("/questions/generate", authMiddleware.Handle(), handlers.Question.GenerateQuestions)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
