package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"replay/internal/contest"
	"replay/internal/scoring"
)

const prefix = "replay:"

// Source is where contest data comes from on a cache miss.
type Source interface {
	Contests(ctx context.Context) ([]contest.Contest, error)
	Contest(ctx context.Context, slug string) (contest.Contest, error)
	Tasks(ctx context.Context, slug string) ([]contest.Task, error)
	Submissions(ctx context.Context, slug string) ([]scoring.Submission, error)
}

// Cache is a read-through Redis cache in front of a Source. Redis failures
// are logged and served from the source.
type Cache struct {
	rdb *redis.Client
	src Source
	ttl time.Duration
}

func New(rdb *redis.Client, src Source, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, src: src, ttl: ttl}
}

func contestsKey() string { return prefix + "contests" }
func contestKey(slug string) string { return prefix + "contest:" + slug }
func tasksKey(slug string) string { return prefix + "tasks:" + slug }
func submissionsKey(slug string) string { return prefix + "submissions:" + slug }

func (c *Cache) Contests(ctx context.Context) ([]contest.Contest, error) {
	return readThrough(ctx, c, contestsKey(), func() ([]contest.Contest, error) {
		return c.src.Contests(ctx)
	})
}

func (c *Cache) Contest(ctx context.Context, slug string) (contest.Contest, error) {
	return readThrough(ctx, c, contestKey(slug), func() (contest.Contest, error) {
		return c.src.Contest(ctx, slug)
	})
}

func (c *Cache) Tasks(ctx context.Context, slug string) ([]contest.Task, error) {
	return readThrough(ctx, c, tasksKey(slug), func() ([]contest.Task, error) {
		return c.src.Tasks(ctx, slug)
	})
}

func (c *Cache) Submissions(ctx context.Context, slug string) ([]scoring.Submission, error) {
	return readThrough(ctx, c, submissionsKey(slug), func() ([]scoring.Submission, error) {
		return c.src.Submissions(ctx, slug)
	})
}

// Invalidate drops everything cached for slug and the contest list.
func (c *Cache) Invalidate(ctx context.Context, slug string) error {
	keys := []string{contestsKey(), contestKey(slug), tasksKey(slug), submissionsKey(slug)}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return err
	}
	log.Printf("Cleared cache keys for contest %s", slug)
	return nil
}

func readThrough[T any](ctx context.Context, c *Cache, key string, load func() (T, error)) (T, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var out T
		if err := json.Unmarshal(val, &out); err == nil {
			return out, nil
		}
		log.Printf("Warning: dropping undecodable cache entry %s", key)
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("Warning: cache get %s: %v", key, err)
	}

	out, err := load()
	if err != nil {
		return out, err
	}
	data, err := json.Marshal(out)
	if err != nil {
		return out, nil
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("Warning: cache set %s: %v", key, err)
	}
	return out, nil
}
