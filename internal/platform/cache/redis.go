package cache

import (
	"context"
	"fmt"
	"log"
	"vibebench/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

// Connect dials Redis and returns the view cache backed by it. The view
// cache is the only Redis consumer, so the client lives inside it; tests
// construct a ViewCache (or leave it nil) without dialing anything.
func Connect() *ViewCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	fmt.Println("Successfully connected to Redis!")

	return NewViewCache(rdb, config.AppConfig.ViewCacheTTL)
}
