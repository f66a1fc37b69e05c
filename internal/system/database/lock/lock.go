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
	"hash/fnv"

	"github.com/wso2/identity-reconciliation-service/internal/system/config"
	"github.com/wso2/identity-reconciliation-service/internal/system/constants"
	"github.com/wso2/identity-reconciliation-service/internal/system/errors"
	"github.com/wso2/identity-reconciliation-service/internal/system/log"
)

// DistributedLock serializes reconciliations sharing a key. Acquire blocks until the lock is held,
// the context is done, or the implementation gives up.
type DistributedLock interface {
	Acquire(ctx context.Context, key string) error
	Release(ctx context.Context, key string) error
}

// NewDistributedLock builds the lock selected by the lock configuration.
func NewDistributedLock(lockConfig config.LockConfig) (DistributedLock, error) {

	switch lockConfig.Type {
	case "", constants.LockTypeLocal:
		return NewLocalLock(), nil
	case constants.LockTypeRedis:
		return NewRedisLock(lockConfig)
	case constants.LockTypeNone:
		return NoopLock{}, nil
	default:
		return nil, fmt.Errorf("unsupported lock type: %s", lockConfig.Type)
	}
}

// GenerateLockKey hashes a string key into the bigint space used by PostgreSQL advisory locks.
func GenerateLockKey(key string) (int64, error) {

	h := fnv.New64a()
	_, err := h.Write([]byte(key))
	if err != nil {
		errorMsg := fmt.Sprintf("failed to hash lock key '%s'", key)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return 0, errors.NewStoreError(errors.LOCK_KEY_GEN, errorMsg, err)
	}
	return int64(h.Sum64()), nil
}

// NoopLock leaves serialization entirely to the store transaction.
type NoopLock struct{}

func (NoopLock) Acquire(context.Context, string) error { return nil }

func (NoopLock) Release(context.Context, string) error { return nil }
