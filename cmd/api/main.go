package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/config"
	"alfredoptarigan/resume-scorer/internal/handlers"
	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/repositories"
	"alfredoptarigan/resume-scorer/internal/resilience"
	"alfredoptarigan/resume-scorer/internal/scoring"
	"alfredoptarigan/resume-scorer/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	log.Info("config loaded", zap.String("env", cfg.Server.Env), zap.String("llm_provider", cfg.LLM.Provider))

	ctx := context.Background()

	// Initialize database
	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}

	docRepo := repositories.NewDocumentRepository(db)
	evalRepo := repositories.NewEvaluationRepository(db)
	paramStore := repositories.NewParameterStore(cfg.Scoring.ParametersFile)

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal("failed to create upload directory", zap.Error(err))
	}

	// Embeddings always go through Gemini; text generation follows LLM_PROVIDER.
	embedder, err := services.NewGeminiService(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.Model, cfg.LLM.EmbeddingModel, log)
	if err != nil {
		log.Fatal("failed to initialize gemini embeddings", zap.Error(err))
	}
	completer, err := services.NewCompleter(ctx, cfg.LLM, log)
	if err != nil {
		log.Fatal("failed to initialize text generation", zap.Error(err))
	}

	qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, log)
	if err != nil {
		log.Fatal("failed to initialize qdrant", zap.Error(err))
	}
	if err := qdrantService.InitCollection(ctx); err != nil {
		log.Fatal("failed to initialize qdrant collection", zap.Error(err))
	}

	guard, err := newGuard(cfg, log)
	if err != nil {
		log.Fatal("failed to build rate limiter", zap.Error(err))
	}

	failurePolicy, err := scoring.ParseFailurePolicy(cfg.Scoring.FailurePolicy)
	if err != nil {
		log.Fatal("invalid failure policy", zap.Error(err))
	}
	portfolio := scoring.NewPortfolioCalculator(
		services.NewGitHubService(ctx, cfg.Portfolio.GitHubToken, log.Named("github")),
		embedder,
		guard,
		scoring.PortfolioConfig{MaxRepos: cfg.Portfolio.MaxRepos, NormFactor: cfg.Portfolio.NormFactor},
		log,
	)
	engine := scoring.NewEngine(
		map[scoring.Category]scoring.Calculator{
			scoring.Quantitative: scoring.NewQuantitativeCalculator(guard, log),
			scoring.Boolean:      scoring.NewBooleanCalculator(guard, log),
			scoring.Textual:      scoring.NewTextualCalculator(completer, guard, log),
			scoring.Portfolio:    portfolio,
		},
		scoring.EngineConfig{
			PassingThreshold: cfg.Scoring.PassingThreshold,
			FailurePolicy:    failurePolicy,
			BatchSize:        cfg.Scoring.BatchSize,
		},
		log.Named("engine"),
	)
	classifier := scoring.NewClassifier(completer, guard, log.Named("classifier"))

	queryEngine := services.NewQueryEngine(embedder, qdrantService, completer, cfg.Qdrant.TopK, log)
	ingestor := services.NewIngestor(
		services.NewDocumentExtractor(),
		services.NewTextChunker(1000, 200),
		embedder,
		qdrantService,
		queryEngine,
		guard,
		log,
	)
	cache := services.NewDocumentCache(log)

	evaluatorService := services.NewEvaluatorService(
		evalRepo,
		docRepo,
		paramStore,
		storageService,
		cache,
		ingestor,
		engine,
		log,
	)

	worker := services.NewWorker(evalRepo, evaluatorService, cfg.Worker.Concurrency, cfg.Worker.PollInterval, log)
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()
	worker.Start(workerCtx)
	log.Info("worker started", zap.Int("concurrency", cfg.Worker.Concurrency))

	uploadHandler := handlers.NewUploadHandler(docRepo, storageService, cfg.Storage.MaxFileSize, log)
	evaluateHandler := handlers.NewEvaluationHandler(evalRepo, docRepo, worker)
	resultHandler := handlers.NewResultHandler(evalRepo)
	parameterHandler := handlers.NewParameterHandler(paramStore, classifier, log)
	documentHandler := handlers.NewDocumentHandler(docRepo, cache, ingestor, log)

	app := fiber.New(fiber.Config{
		AppName:      "Resume Scorer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":         "healthy",
			"time":           time.Now(),
			"cached_resumes": cache.Len(),
		})
	})

	api.Post("/upload", uploadHandler.HandleUpload)
	api.Post("/evaluate", evaluateHandler.HandleEvaluate)
	api.Get("/result/:id", resultHandler.HandleGetResult)

	api.Get("/parameters", parameterHandler.HandleList)
	api.Post("/parameters", parameterHandler.HandleUpsert)
	api.Post("/parameters/classify", parameterHandler.HandleClassify)
	api.Delete("/parameters/:key", parameterHandler.HandleDelete)

	api.Delete("/documents/:id/cache", documentHandler.HandleInvalidateCache)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Scorer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/upload",
				"POST /api/v1/evaluate",
				"GET /api/v1/result/:id",
				"GET /api/v1/parameters",
				"POST /api/v1/parameters",
				"POST /api/v1/parameters/classify",
				"DELETE /api/v1/parameters/:key",
				"DELETE /api/v1/documents/:id/cache",
				"GET /metrics",
			},
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		cancelWorkers()
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

// newGuard builds the process-wide limiter and retry policy. Every external
// call in the process shares this one guard.
func newGuard(cfg *config.Config, log *zap.Logger) (*resilience.Guard, error) {
	limiter, err := resilience.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	if err != nil {
		return nil, err
	}
	policy := resilience.Policy{
		Attempts:  cfg.Retry.Attempts,
		BaseDelay: cfg.Retry.BaseDelay,
		MaxDelay:  cfg.Retry.MaxDelay,
	}
	return resilience.NewGuard(limiter, policy, log), nil
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
