package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JoshuaPothen/SleepTrackerV2/internal"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/api"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/auth"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/config"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/consumer"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/mqtt"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/publish"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/sleep"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/storage"
)

type app struct {
	logger     internal.Logger
	repo       storage.ReadingRepository
	publisher  publish.Publisher
	thresholds sleep.Thresholds
}

func (a *app) Logger() internal.Logger                { return a.logger }
func (a *app) ReadingRepo() storage.ReadingRepository { return a.repo }
func (a *app) Publisher() publish.Publisher           { return a.publisher }
func (a *app) Thresholds() sleep.Thresholds           { return a.thresholds }

func main() {
	cfg := config.Load()

	zapLogger, err := internal.NewProductionLogger(cfg.LogLevel, "sleeptracker")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := internal.NewZapLogger(zapLogger.Sugar())

	repo, err := newRepository(cfg, logger)
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}

	var publisher publish.Publisher = publish.NoopPublisher{}
	if cfg.RedisAddr != "" {
		client := publish.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		redisPublisher, err := publish.NewRedisPublisher(client, cfg.RedisChannel, logger)
		if err != nil {
			logger.Fatalf("failed to connect to redis: %v", err)
		}
		publisher = redisPublisher
	}

	a := &app{
		logger:     logger,
		repo:       repo,
		publisher:  publisher,
		thresholds: sleep.DefaultThresholds(),
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(api.RequestIDMiddleware())

	keyProvider := auth.NewStaticKeyProvider(cfg.IngestAPIKey, logger)

	r.GET("/healthz", api.Healthz())
	r.POST("/api/ingest",
		api.RateLimitMiddleware(cfg.RateLimitWindow, cfg.RateLimitMax),
		auth.APIKeyMiddleware(keyProvider),
		api.PostIngest(a),
	)
	r.GET("/api/readings", api.GetReadings(a))
	r.GET("/api/summary", api.GetSummary(a))
	r.GET("/api/overnight", api.GetOvernight(a))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mqttConsumer *consumer.MQTTConsumer
	var mqttClient *mqtt.Client
	if cfg.MQTTBroker != "" {
		mqttClient, err = mqtt.NewClient(mqtt.Options{
			Broker:   cfg.MQTTBroker,
			ClientID: cfg.MQTTClientID,
			Username: cfg.MQTTUsername,
			Password: cfg.MQTTPassword,
		}, logger)
		if err != nil {
			logger.Fatalf("failed to connect to MQTT broker: %v", err)
		}
		mqttConsumer = consumer.NewMQTTConsumer(mqttClient, cfg.MQTTTopic, repo, publisher, a.thresholds, logger)
		if err := mqttConsumer.Start(ctx); err != nil {
			logger.Fatalf("failed to start MQTT consumer: %v", err)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Infof("server running on :%s (storage=%s)", cfg.Port, cfg.DBType)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("failed to start server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Infof("received signal %s, shutting down", sig)

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("error during server shutdown: %v", err)
	}

	if mqttConsumer != nil {
		_ = mqttConsumer.Stop(shutdownCtx)
		mqttClient.Disconnect()
	}
	if err := publisher.Close(); err != nil {
		logger.Errorf("error closing publisher: %v", err)
	}
	if err := repo.Close(); err != nil {
		logger.Errorf("error closing storage: %v", err)
	}

	logger.Info("server stopped")
}

func newRepository(cfg *config.Config, logger internal.Logger) (storage.ReadingRepository, error) {
	if cfg.DBType == "postgres" {
		return storage.NewPostgresRepository(cfg.DBDSN, logger)
	}
	if dir := dirOf(cfg.FileReadings); dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			_ = os.MkdirAll(dir, 0755)
		}
	}
	return storage.NewFileRepository(cfg.FileReadings, logger)
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return ""
}
