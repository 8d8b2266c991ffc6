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

	"grindtrack/internal/api"
	"grindtrack/internal/app/service"
	"grindtrack/internal/app/worker"
	"grindtrack/internal/classify"
	"grindtrack/internal/common/security"
	"grindtrack/internal/domain/repository"
	"grindtrack/internal/judge/codeforces"
	"grindtrack/internal/judge/leetcode"
	"grindtrack/internal/logger"
	"grindtrack/internal/platform/cache"
	"grindtrack/internal/platform/config"
	"grindtrack/internal/platform/database"
)

func main() {
	// 1. Load configuration and logging
	config.Load()
	logger.Init(config.AppConfig.LogLevel, config.AppConfig.LogFormat)
	slog.Info("configuration loaded")

	// 2. Initialize JWT
	security.InitJWT()

	// 3. Initialize database
	if err := database.Connect(); err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer database.Close()
	if err := database.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Could not ensure database schema: %v", err)
	}

	// 4. Initialize Redis
	if err := cache.ConnectRedis(); err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	defer cache.CloseRedis()

	// 5. Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	solvedRepo := repository.NewPgSolvedRepository(database.DB)

	// 6. Daily cache backend
	var dailyCache service.DailyCache
	if config.AppConfig.RecCacheBackend == "redis" {
		dailyCache = cache.NewRedisDailyCache(cache.RDB)
	} else {
		dailyCache = service.NewMemoryDailyCache()
	}
	slog.Info("daily recommendation cache ready", "backend", config.AppConfig.RecCacheBackend)

	// 7. Judge clients and classifier
	lcClient := leetcode.NewClient(config.AppConfig.LeetCodeBaseURL)
	cfClient := codeforces.NewClient(config.AppConfig.CodeforcesBaseURL)

	var classifier classify.Classifier
	if config.AppConfig.GeminiAPIKey != "" {
		classifier = classify.NewGeminiClassifier(
			config.AppConfig.GeminiBaseURL,
			config.AppConfig.GeminiModel,
			config.AppConfig.GeminiAPIKey,
		)
	} else {
		slog.Warn("no Gemini API key configured, using tag-based classifier")
		classifier = classify.NewTagClassifier()
	}

	// 8. Services
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	solvedService := service.NewSolvedService(solvedRepo, config.AppConfig.LeetCodeBaseURL, nil)
	recService := service.NewRecommendationService(solvedRepo, dailyCache, nil)
	syncService := service.NewSyncService(solvedRepo, userRepo, lcClient, cfClient, classifier, config.AppConfig.SyncFetchCount)

	// 9. Background sync worker
	syncWorker := worker.NewSyncWorker(
		cache.RDB,
		userRepo,
		syncService,
		config.AppConfig.SyncWorkerInterval,
		config.AppConfig.SyncLockKey,
		time.Duration(config.AppConfig.SyncLockTTLSeconds)*time.Second,
	)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go syncWorker.Start(workerCtx)

	// 10. Router & HTTP server
	router := api.NewRouter(authService, userService, solvedService, recService, syncService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // SSE sync streams stay open a while
		IdleTimeout:  120 * time.Second,
	}

	// 11. Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", config.AppConfig.APIPort, err)
		}
	}()

	<-stop

	slog.Info("shutting down server")
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	slog.Info("server and worker stopped gracefully")
}
