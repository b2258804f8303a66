package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"skineedipping/internal/cache"
	"skineedipping/internal/catalog"
	"skineedipping/internal/config"
	"skineedipping/internal/database"
	"skineedipping/internal/handler"
	"skineedipping/internal/metrics"
	"skineedipping/internal/queue"
	appredis "skineedipping/internal/redis"
	"skineedipping/internal/repository"
	"skineedipping/internal/service"
	"skineedipping/internal/session"
	"skineedipping/internal/worker"
)

// Run wires every component and serves until interrupted.
func Run() error {
	ctx := context.Background()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Run migrations, then connect
	if err := database.RunMigrations(database.URL(cfg)); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// 3. Connect to Redis
	redisClient, err := appredis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Println("Connected to redis successfully")

	// 4. Metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 5. Repositories
	userRepo := repository.NewUserRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// 6. Sessions, cache, queue
	sessions := session.NewRedisStore(redisClient.Client, time.Duration(cfg.SessionMaxAge)*time.Second)
	bookmarkCache := cache.NewBookmarkCache(redisClient.Client)
	publisher := queue.NewPublisher(redisClient.Client)
	consumer := queue.NewConsumer(redisClient.Client)

	// 7. Outbound catalog client
	catalogClient := catalog.NewHTTPClient(catalog.ClientConfig{
		BaseURL:    cfg.CatalogAPIURL,
		APIKey:     cfg.CatalogAPIKey,
		Timeout:    time.Duration(cfg.CatalogTimeout) * time.Second,
		PageSize:   cfg.CatalogPageSize,
		RatePerSec: cfg.CatalogRatePerSec,
		RateBurst:  cfg.CatalogRateBurst,
	}, collector)

	// 8. Services
	userService := service.NewUserService(userRepo)
	discoverService := service.NewDiscoverService(catalogClient, bookmarkRepo, bookmarkCache)
	bookmarkService := service.NewBookmarkService(bookmarkRepo, catalogClient, publisher, collector)

	mediaService, err := service.NewMediaService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create media service: %w", err)
	}
	profileService := service.NewProfileService(userRepo, profileRepo, mediaService)

	// 9. Cache-maintenance workers
	workerHandler := worker.NewHandler(bookmarkCache, bookmarkRepo)
	workerManager := worker.NewManager(consumer, workerHandler, worker.DefaultManagerConfig())
	if err := workerManager.Start(ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	defer workerManager.Stop()

	// 10. HTTP surface
	router := NewRouter(RouterConfig{
		AuthHandler:     handler.NewAuthHandler(userService, sessions, cfg),
		DiscoverHandler: handler.NewDiscoverHandler(discoverService, catalogClient),
		BookmarkHandler: handler.NewBookmarkHandler(bookmarkService),
		ProfileHandler:  handler.NewProfileHandler(profileService),
		Sessions:        sessions,
		Metrics:         collector,
		Gatherer:        registry,
	})

	server := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	// Serve until a termination signal, then drain.
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		log.Printf("Received %v, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
