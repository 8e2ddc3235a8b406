package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the backend configuration, read from the environment.
type Config struct {
	Port             string
	DatabaseURL      string
	DBMaxConns       int32
	RedisURL         string
	RedisAddr        string
	CacheTTL         time.Duration
	InvertedContests []string
	SeedDir          string
}

// Load reads the environment, falling back to defaults for unset values.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:     getenv("PORT"),
		RedisURL: getenv("REDIS_URL"),
		SeedDir:  getenv("SEED_DIR"),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cfg.DatabaseURL = getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		pgHost := getenv("POSTGRES_HOST")
		if pgHost == "" {
			pgHost = "localhost"
		}
		cfg.DatabaseURL = fmt.Sprintf("postgres://admin:password@%s:5432/replay?sslmode=disable", pgHost)
	}

	redisHost := getenv("REDIS_HOST")
	if redisHost == "" {
		redisHost = "localhost"
	}
	cfg.RedisAddr = redisHost + ":6379"

	cfg.DBMaxConns = 50
	if v := getenv("DB_MAX_CONNS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("config: DB_MAX_CONNS %q is not a positive integer", v)
		}
		cfg.DBMaxConns = int32(n)
	}

	cfg.CacheTTL = 10 * time.Minute
	if v := getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: CACHE_TTL: %w", err)
		}
		cfg.CacheTTL = d
	}

	for _, slug := range strings.Split(getenv("INVERTED_CONTESTS"), ",") {
		if slug = strings.TrimSpace(slug); slug != "" {
			cfg.InvertedContests = append(cfg.InvertedContests, slug)
		}
	}
	return cfg, nil
}
