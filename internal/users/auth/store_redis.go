// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/campusconnect/internal/platform/constants"
)

// RedisLoginThrottle implements LoginThrottle with fixed-window Redis counters.
type RedisLoginThrottle struct {
	client      redis.Cmdable
	maxAttempts int64
	window      time.Duration
}

// NewLoginThrottle creates a Redis-backed LoginThrottle.
//
// An email is blocked once maxAttempts failures land inside one window.
func NewLoginThrottle(client redis.Cmdable, maxAttempts int, window time.Duration) *RedisLoginThrottle {
	return &RedisLoginThrottle{
		client:      client,
		maxAttempts: int64(maxAttempts),
		window:      window,
	}
}

/*
Blocked reports whether the email has reached its failure budget.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - bool: true when further attempts must be refused
  - error: Connectivity errors
*/
func (throttle *RedisLoginThrottle) Blocked(context context.Context, email string) (bool, error) {
	count, err := throttle.client.Get(context, attemptKey(email)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis_login_throttle_get_failed: %w", err)
	}

	return count >= throttle.maxAttempts, nil
}

/*
RecordFailure increments the failure counter, starting the window on first use.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Connectivity errors
*/
func (throttle *RedisLoginThrottle) RecordFailure(context context.Context, email string) error {
	key := attemptKey(email)

	// INCR and EXPIRE NX travel together so a counter never outlives its window
	pipe := throttle.client.TxPipeline()
	pipe.Incr(context, key)
	pipe.ExpireNX(context, key, throttle.window)

	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis_login_throttle_incr_failed: %w", err)
	}

	return nil
}

/*
Reset clears the counter after a successful login.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Connectivity errors
*/
func (throttle *RedisLoginThrottle) Reset(context context.Context, email string) error {
	if err := throttle.client.Del(context, attemptKey(email)).Err(); err != nil {
		return fmt.Errorf("redis_login_throttle_reset_failed: %w", err)
	}
	return nil
}

// attemptKey hashes the normalised email so raw addresses never land in Redis.
func attemptKey(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return constants.RedisPrefixLoginAttempt + hex.EncodeToString(sum[:])
}
