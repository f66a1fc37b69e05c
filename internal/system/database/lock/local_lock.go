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
	"sync"

	"github.com/wso2/identity-reconciliation-service/internal/system/errors"
)

// LocalLock is an in-process lock keyed by string. It only serializes callers within one process.
type LocalLock struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLocalLock() *LocalLock {
	return &LocalLock{slots: map[string]chan struct{}{}}
}

func (l *LocalLock) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[key] = s
	}
	return s
}

func (l *LocalLock) Acquire(ctx context.Context, key string) error {
	select {
	case l.slot(key) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return errors.NewStoreError(errors.LOCK_ACQUIRE,
			"Context finished while waiting for the reconciliation lock: "+key, ctx.Err())
	}
}

func (l *LocalLock) Release(_ context.Context, key string) error {
	select {
	case <-l.slot(key):
		return nil
	default:
		return errors.NewStoreError(errors.LOCK_RELEASE, "Lock is not held: "+key, nil)
	}
}
