/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/wso2/identity-reconciliation-service/internal/system/config"
	"github.com/wso2/identity-reconciliation-service/internal/system/errors"
	"github.com/wso2/identity-reconciliation-service/internal/system/log"
)

// RedisLock holds reconciliation locks in Redis so several service instances share one critical section.
type RedisLock struct {
	locker *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy

	mu   sync.Mutex
	held map[string]*redislock.Lock
}

// NewRedisLock connects to the configured Redis server.
func NewRedisLock(lockConfig config.LockConfig) (*RedisLock, error) {

	if lockConfig.Redis.Address == "" {
		return nil, fmt.Errorf("lock.redis.address is required for the redis lock")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     lockConfig.Redis.Address,
		Password: lockConfig.Redis.Password,
		DB:       lockConfig.Redis.DB,
	})
	return newRedisLock(rdb, lockConfig), nil
}

func newRedisLock(rdb redislock.RedisClient, lockConfig config.LockConfig) *RedisLock {

	ttl := time.Duration(lockConfig.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	interval := time.Duration(lockConfig.RetryIntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	retryCount := lockConfig.RetryCount
	if retryCount <= 0 {
		retryCount = 1
	}

	return &RedisLock{
		locker: redislock.New(rdb),
		ttl:    ttl,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(interval), retryCount),
		held:   map[string]*redislock.Lock{},
	}
}

func (l *RedisLock) Acquire(ctx context.Context, key string) error {

	logger := log.GetLogger()
	obtained, err := l.locker.Obtain(ctx, "lock:"+key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if err == redislock.ErrNotObtained {
		errorMsg := fmt.Sprintf("Reconciliation lock %s is still held by another instance", key)
		logger.Warn(errorMsg)
		return errors.NewStoreError(errors.LOCK_ACQUIRE, errorMsg, err)
	}
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to obtain reconciliation lock %s from redis", key)
		logger.Error(errorMsg, log.Error(err))
		return errors.NewStoreError(errors.LOCK_ACQUIRE, errorMsg, err)
	}

	l.mu.Lock()
	l.held[key] = obtained
	l.mu.Unlock()
	logger.Debug("Reconciliation lock acquired", log.String("key", key))
	return nil
}

func (l *RedisLock) Release(ctx context.Context, key string) error {

	l.mu.Lock()
	held, ok := l.held[key]
	delete(l.held, key)
	l.mu.Unlock()
	if !ok {
		return errors.NewStoreError(errors.LOCK_RELEASE, "Lock is not held: "+key, nil)
	}

	if err := held.Release(ctx); err != nil {
		errorMsg := fmt.Sprintf("Failed to release reconciliation lock %s", key)
		log.GetLogger().Error(errorMsg, log.Error(err))
		return errors.NewStoreError(errors.LOCK_RELEASE, errorMsg, err)
	}
	return nil
}
