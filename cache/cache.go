// Package cache
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/events"
	"github.com/kardiachain/governance-backend/types"
	"github.com/kardiachain/governance-backend/vote"
)

type Adapter string

const (
	RedisAdapter Adapter = "redis"
)

type Config struct {
	Adapter  Adapter
	URL      string
	DB       int
	Password string

	IsFlush bool

	EventBuffer        int64
	DefaultExpiredTime time.Duration

	Logger *zap.Logger
}

type Client interface {
	events.Feed

	// VoteState returns the cached record of a vote, or types.ErrRecordNotFound on a miss.
	VoteState(ctx context.Context, id types.VoteID) (*vote.Record, error)
	UpdateVoteState(ctx context.Context, record *vote.Record) error
	InvalidateVote(ctx context.Context, id types.VoteID) error

	// LatestBlockHeight returns 0 when no height was published yet.
	LatestBlockHeight(ctx context.Context) (types.BlockNumber, error)
	UpdateLatestBlockHeight(ctx context.Context, height types.BlockNumber) error

}

func New(cfg Config) (Client, error) {
	switch cfg.Adapter {
	case RedisAdapter:
		return newRedis(cfg)
	}
	return nil, errors.New("invalid cache config")
}

func newRedis(cfg Config) (Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.URL,
		DB:       cfg.DB,
		Password: cfg.Password,
	})

	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	if cfg.IsFlush {
		msg, err := redisClient.FlushAll(context.Background()).Result()
		if err != nil || msg != "OK" {
			return nil, err
		}
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = DefaultEventBuffer
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	logger := cfg.Logger.With(zap.String("cache", "redis"))
	client := &Redis{
		client: redisClient,
		logger: logger,
	}
	client.cfg = cfg
	return client, nil
}
