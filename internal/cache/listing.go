// Package cache holds the Redis read-through cache for the movie
// listing. The listing is the hottest read in the system and the one
// endpoint that must always render, so it gets a short-TTL cache in
// front of the recompute-everything aggregation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/reelbase/reelbase/internal/models"
	"go.uber.org/zap"
)

const (
	listingKey = "reelbase:listing"
	listingTTL = 30 * time.Second
)

type ListingCache struct {
	client *redis.Client
	logger *zap.Logger
}

// New connects from a redis:// URL. Like the database, startup fails
// loudly on a bad URL — but individual cache operations never fail a
// request: every error below degrades to a miss.
func New(ctx context.Context, redisURL string, logger *zap.Logger) (*ListingCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	logger.Info("redis connection established", zap.String("addr", opts.Addr))
	return &ListingCache{client: client, logger: logger}, nil
}

func (c *ListingCache) GetListing(ctx context.Context) ([]models.RatedMovie, bool) {
	payload, err := c.client.Get(ctx, listingKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("listing cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var movies []models.RatedMovie
	if err := json.Unmarshal(payload, &movies); err != nil {
		c.logger.Warn("listing cache payload corrupt", zap.Error(err))
		return nil, false
	}
	return movies, true
}

func (c *ListingCache) SetListing(ctx context.Context, movies []models.RatedMovie) {
	payload, err := json.Marshal(movies)
	if err != nil {
		c.logger.Warn("listing cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, listingKey, payload, listingTTL).Err(); err != nil {
		c.logger.Warn("listing cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached listing. Called after every mutation that
// changes what the listing shows (new movie, new rating, view bump).
func (c *ListingCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, listingKey).Err(); err != nil {
		c.logger.Warn("listing cache invalidation failed", zap.Error(err))
	}
}

func (c *ListingCache) Close() error {
	return c.client.Close()
}
