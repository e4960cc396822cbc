package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/AnshRaj112/butterfly-accounts/internal/logging"
	"github.com/AnshRaj112/butterfly-accounts/internal/models"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached accounts
	CacheKeyPrefix = "cache:account:"
	// DefaultCacheTTL applies when no TTL is configured
	DefaultCacheTTL = 10 * time.Minute
)

// CachedAccountStore serves FindByID from Redis and drops the cached copy
// on every write to that account. Cached copies carry no password hash.
// Redis errors fall through to the wrapped store.
type CachedAccountStore struct {
	AccountStore
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

func NewCachedAccountStore(store AccountStore, client *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedAccountStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedAccountStore{AccountStore: store, client: client, ttl: ttl, logger: logger}
}

func cacheKey(id primitive.ObjectID) string {
	return CacheKeyPrefix + id.Hex()
}

func (c *CachedAccountStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	val, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err == nil {
		var account models.Account
		if err := json.Unmarshal(val, &account); err == nil {
			return &account, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		logging.FromContext(ctx, c.logger).Warn("account cache read failed", "error", err)
	}

	account, err := c.AccountStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(account); err == nil {
		if err := c.client.Set(ctx, cacheKey(id), data, c.ttl).Err(); err != nil {
			logging.FromContext(ctx, c.logger).Warn("account cache write failed", "error", err)
		}
	}
	return account, nil
}

func (c *CachedAccountStore) Update(ctx context.Context, id primitive.ObjectID, upd models.AccountUpdate) error {
	return c.invalidateAfter(ctx, id, c.AccountStore.Update(ctx, id, upd))
}

func (c *CachedAccountStore) ResetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return c.invalidateAfter(ctx, id, c.AccountStore.ResetPassword(ctx, id, hash))
}

func (c *CachedAccountStore) AddFollower(ctx context.Context, target primitive.ObjectID, follower string) error {
	return c.invalidateAfter(ctx, target, c.AccountStore.AddFollower(ctx, target, follower))
}

func (c *CachedAccountStore) RemoveFollower(ctx context.Context, target primitive.ObjectID, follower string) error {
	return c.invalidateAfter(ctx, target, c.AccountStore.RemoveFollower(ctx, target, follower))
}

// invalidateAfter drops the cached copy once the write has been attempted.
func (c *CachedAccountStore) invalidateAfter(ctx context.Context, id primitive.ObjectID, writeErr error) error {
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		logging.FromContext(ctx, c.logger).Warn("account cache invalidation failed", "account_id", id.Hex(), "error", err)
	}
	return writeErr
}
