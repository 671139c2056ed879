// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package country

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/campusconnect/internal/platform/constants"
)

// RedisCache implements [Cache] as a single JSON value under [constants.RedisKeyCountryList].
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache builds a cache whose entries expire after ttl.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Load returns the cached list, or ok=false on a miss.
func (cache *RedisCache) Load(context context.Context) ([]*Country, bool, error) {
	raw, err := cache.client.Get(context, constants.RedisKeyCountryList).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis_country_cache_load_failed: %w", err)
	}

	var countries []*Country
	if err := json.Unmarshal(raw, &countries); err != nil {
		return nil, false, fmt.Errorf("redis_country_cache_decode_failed: %w", err)
	}

	return countries, true, nil
}

// Store replaces the cached list.
func (cache *RedisCache) Store(context context.Context, countries []*Country) error {
	raw, err := json.Marshal(countries)
	if err != nil {
		return fmt.Errorf("redis_country_cache_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, constants.RedisKeyCountryList, raw, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_country_cache_store_failed: %w", err)
	}

	return nil
}

// Invalidate drops the cached list.
func (cache *RedisCache) Invalidate(context context.Context) error {
	if err := cache.client.Del(context, constants.RedisKeyCountryList).Err(); err != nil {
		return fmt.Errorf("redis_country_cache_invalidate_failed: %w", err)
	}
	return nil
}
