package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"scriptgo/domain/model"
	"scriptgo/domain/repository"
	"scriptgo/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

// ScriptCache keeps per-user script listings in Redis. A nil client is a permanent miss.
type ScriptCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewScriptCache(client *redis.Client, ttl time.Duration) repository.IScriptCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ScriptCache{client: client, ttl: ttl}
}

func ListKey(userID, view string) string {
	return fmt.Sprintf("scriptgo:scripts:%s:%s", userID, view)
}

func (c *ScriptCache) GetList(ctx context.Context, userID, view string) ([]*model.Script, bool, error) {
	if c.client == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, ListKey(userID, view)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var list []*model.Script
	if err := json.Unmarshal(raw, &list); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Dropping undecodable cached script list")
		_ = c.client.Del(ctx, ListKey(userID, view)).Err()
		return nil, false, nil
	}
	return list, true, nil
}

func (c *ScriptCache) SetList(ctx context.Context, userID, view string, list []*model.Script) error {
	if c.client == nil {
		return nil
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ListKey(userID, view), raw, c.ttl).Err()
}

func (c *ScriptCache) Invalidate(ctx context.Context, userID string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, ListKey(userID, repository.CacheViewDashboard), ListKey(userID, repository.CacheViewPlanner)).Err()
}
