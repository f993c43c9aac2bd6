package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/config"
	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/api"
	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/cache"
	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/events"
	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/logger"
	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/repository"
	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/service"
	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/ws"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	dev := flag.Bool("dev", false, "development logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	logg, err := logger.New(*dev)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	ctx := context.Background()
	mongoClient, err := repository.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		logg.Fatalw("mongo connect", "err", err)
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	db := mongoClient.Database(cfg.Mongo.Database)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logg.Fatalw("mongo index setup", "err", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = redisClient.Close() }()
	presence := cache.NewPresenceStore(redisClient, cfg.Redis.Prefix, 24*time.Hour)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	defer func() { _ = publisher.Close() }()

	registry := ws.NewRegistry()

	conversationRepo := repository.NewMongoConversationRepository(db)
	messageRepo := repository.NewMongoMessageRepository(db)
	notificationRepo := repository.NewMongoNotificationRepository(db)

	notifier := service.NewNotifier(notificationRepo, registry, logg)
	conversationSvc := service.NewConversationService(conversationRepo, messageRepo, notifier, registry, publisher, logg)
	messageSvc := service.NewMessageService(conversationRepo, messageRepo, notifier, registry, publisher, logg)

	wsHandler := ws.NewHandler(registry, presence, logg, cfg.PingInterval, cfg.WriteDeadline, cfg.WS.SendBuffer)
	handler := api.NewHandler(conversationSvc, messageSvc, notifier)
	app := api.NewServer(cfg, handler, wsHandler)

	errs := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logg.Infow("starting messaging service", "addr", addr)
		errs <- app.Listen(addr)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errs:
		logg.Fatalw("server error", "err", err)
	case s := <-sig:
		logg.Infow("signal received", "signal", s.String())
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logg.Warnw("server shutdown", "err", err)
	}
	// Let scheduled side effects drain before the store goes away.
	messageSvc.Wait()
	conversationSvc.Wait()
	logg.Info("shutdown complete")
}
