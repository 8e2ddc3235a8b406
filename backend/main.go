package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"replay/internal/cache"
	"replay/internal/config"
	"replay/internal/contest"
	"replay/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 1. Redis
	var redisOpts *redis.Options
	if cfg.RedisURL != "" {
		redisOpts, err = redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Failed to parse REDIS_URL: %v", err)
		}
	}
	if redisOpts == nil {
		redisOpts = &redis.Options{Addr: cfg.RedisAddr}
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to connect to Redis, serving uncached: %v", err)
	} else {
		fmt.Println("Connected to Redis")
	}

	// 2. Postgres
	db, err := store.Open(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer db.Close()
	fmt.Println("Connected to Postgres")

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	cached := cache.New(redisClient, db, cfg.CacheTTL)
	srv := &server{
		src:        cached,
		db:         db,
		invalidate: cached.Invalidate,
		modes:      contest.NewRegistry(cfg.InvertedContests...),
	}

	// 3. Seed data (async)
	if cfg.SeedDir != "" {
		go func() {
			fmt.Printf("Seeding contests from %s...\n", cfg.SeedDir)
			seeded, err := seedDir(ctx, db, cfg.SeedDir)
			if err != nil {
				log.Printf("Seeding stopped: %v", err)
			}
			for _, slug := range seeded {
				if err := cached.Invalidate(ctx, slug); err != nil {
					log.Printf("Warning: Failed to clear cache for %s: %v", slug, err)
				}
			}
			fmt.Printf("Seeding complete: %d contests.\n", len(seeded))
		}()
	}

	r := gin.Default()
	srv.routes(r)

	fmt.Printf("Server running on port %s\n", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
