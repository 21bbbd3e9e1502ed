// Package cache
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/kardiachain/governance-backend/types"
	"github.com/kardiachain/governance-backend/utils"
	"github.com/kardiachain/governance-backend/vote"
)

const (
	KeyLatestBlockHeight = "#block#latestHeight"

	KeyVoteState = "#vote#%d"
	KeyEvents    = "#events" // List

	DefaultEventBuffer int64 = 1000
)

type Redis struct {
	cfg    Config
	client *redis.Client

	logger *zap.Logger
}

func (c *Redis) VoteState(ctx context.Context, id types.VoteID) (*vote.Record, error) {
	result, err := c.client.Get(ctx, fmt.Sprintf(KeyVoteState, id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, types.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	var record *vote.Record
	if err := json.Unmarshal([]byte(result), &record); err != nil {
		return nil, err
	}
	return record, nil
}

func (c *Redis) UpdateVoteState(ctx context.Context, record *vote.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	key := fmt.Sprintf(KeyVoteState, record.VoteID)
	if err := c.client.Set(ctx, key, string(data), c.cfg.DefaultExpiredTime).Err(); err != nil {
		c.logger.Warn("cannot cache vote state", zap.Uint64("vote", uint64(record.VoteID)), zap.Error(err))
		return err
	}
	return nil
}

func (c *Redis) InvalidateVote(ctx context.Context, id types.VoteID) error {
	return c.client.Del(ctx, fmt.Sprintf(KeyVoteState, id)).Err()
}

func (c *Redis) LatestBlockHeight(ctx context.Context) (types.BlockNumber, error) {
	result, err := c.client.Get(ctx, KeyLatestBlockHeight).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return types.BlockNumber(utils.StrToUint64(result)), nil
}

func (c *Redis) UpdateLatestBlockHeight(ctx context.Context, height types.BlockNumber) error {
	return c.client.Set(ctx, KeyLatestBlockHeight, uint64(height), 0).Err()
}

// Publish pushes records to the head of the event list and trims it to the configured buffer.
func (c *Redis) Publish(ctx context.Context, records []types.EventRecord) error {
	if len(records) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(records))
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		values = append(values, data)
	}
	if err := c.client.LPush(ctx, KeyEvents, values...).Err(); err != nil {
		return err
	}
	return c.client.LTrim(ctx, KeyEvents, 0, c.cfg.EventBuffer-1).Err()
}

func (c *Redis) Latest(ctx context.Context, limit int) ([]types.EventRecord, error) {
	stop := int64(limit) - 1
	if limit <= 0 {
		stop = -1
	}
	raw, err := c.client.LRange(ctx, KeyEvents, 0, stop).Result()
	if err != nil {
		return nil, err
	}
	records := make([]types.EventRecord, 0, len(raw))
	for _, r := range raw {
		var rec types.EventRecord
		if err := json.Unmarshal([]byte(r), &rec); err != nil {
			c.logger.Warn("cannot decode event", zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
