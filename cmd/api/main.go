package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civictechdc/electrify-dmv/api/internal/config"
	"github.com/civictechdc/electrify-dmv/api/internal/events"
	"github.com/civictechdc/electrify-dmv/api/internal/server"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		cfg.ServerLog.Fatalf("failed to connect to MongoDB: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = events.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			cfg.ServerLog.Printf("redis unavailable, application events disabled: %v", err)
			redisClient = nil
		}
	}

	app, err := server.New(cfg, client, redisClient)
	if err != nil {
		cfg.ServerLog.Fatalf("failed to build server: %v", err)
	}
	if err := app.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
