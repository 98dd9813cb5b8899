package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crosssell-service/config"
	"crosssell-service/internal/api"
	"crosssell-service/internal/broker"
	"crosssell-service/internal/models"
	"crosssell-service/internal/redisclient"
	"crosssell-service/internal/service"
	"crosssell-service/internal/store"
	"crosssell-service/internal/util"
	"crosssell-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting cross-sell service")

	tp, err := util.InitTracer("crosssell-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicCrosssell)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	resolver := service.NewTriggerResolver(db, db)
	sequencer := service.NewGroupSequencer(db)
	candidates := service.NewCandidateSource(db, redisClient)
	filler := service.NewSlotFiller(sequencer, candidates, db, models.PlacementMinicart)

	defaults := models.RetrievalSettings{
		Enabled:             cfg.Crosssell.Enabled,
		Title:               cfg.Crosssell.Title,
		MaxTotal:            cfg.Crosssell.MaxProducts,
		ContinueToNextGroup: cfg.Crosssell.ContinueToNextGroup,
	}

	augmenter := service.NewSectionDataAugmenter(
		resolver,
		filler,
		db,
		db,
		service.NewCurrencyFormatter("$"),
		service.ValidatorChain{service.NonEmptyLabelValidator{}},
		defaults,
	)

	cacheTTL := time.Duration(cfg.Crosssell.CacheTTLSeconds) * time.Second

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	cartConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicCart, cfg.Kafka.ConsumerGroup)
	cartWorker := worker.NewCrosssellWorker(cartConsumer, augmenter, redisClient, eventPublisher, "default", cacheTTL)
	go func() {
		if err := cartWorker.Start(workerCtx); err != nil {
			log.Printf("Cross-sell worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(augmenter, redisClient, cacheTTL)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	cartWorker.Stop()

	log.Println("Server exited")
}
