package bankdirectory

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fadhlanhapp/congno-backend/models"
)

// Cache stores the bank list between upstream fetches
type Cache interface {
	Get(ctx context.Context) ([]models.BankInfo, bool)
	Set(ctx context.Context, banks []models.BankInfo, ttl time.Duration)
}

// MemoryCache keeps the list in process memory
type MemoryCache struct {
	mu        sync.RWMutex
	banks     []models.BankInfo
	expiresAt time.Time
	now       func() time.Time
}

// NewMemoryCache creates an empty in-process cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{now: time.Now}
}

func (c *MemoryCache) Get(ctx context.Context) ([]models.BankInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.banks == nil || !c.now().Before(c.expiresAt) {
		return nil, false
	}
	return c.banks, true
}

func (c *MemoryCache) Set(ctx context.Context, banks []models.BankInfo, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.banks = banks
	c.expiresAt = c.now().Add(ttl)
}

// RedisCache shares the list between instances through Redis
type RedisCache struct {
	client redis.UniversalClient
	key    string
}

// NewRedisCache creates a cache under the given key prefix
func NewRedisCache(client redis.UniversalClient, prefix string) *RedisCache {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = "congno"
	}
	return &RedisCache{client: client, key: prefix + ":bank_directory"}
}

func (c *RedisCache) Get(ctx context.Context) ([]models.BankInfo, bool) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("level=warn component=bank_directory msg=\"redis get failed\" err=%v", err)
		}
		return nil, false
	}
	var banks []models.BankInfo
	if err := json.Unmarshal(raw, &banks); err != nil {
		log.Printf("level=warn component=bank_directory msg=\"discarding corrupt cache entry\" err=%v", err)
		return nil, false
	}
	return banks, true
}

func (c *RedisCache) Set(ctx context.Context, banks []models.BankInfo, ttl time.Duration) {
	raw, err := json.Marshal(banks)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key, raw, ttl).Err(); err != nil {
		log.Printf("level=warn component=bank_directory msg=\"redis set failed\" err=%v", err)
	}
}
