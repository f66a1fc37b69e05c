//go:build integration

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

package integration

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-reconciliation-service/internal/contact/service"
	"github.com/wso2/identity-reconciliation-service/internal/contact/store"
	"github.com/wso2/identity-reconciliation-service/internal/system/config"
	"github.com/wso2/identity-reconciliation-service/internal/system/constants"
	"github.com/wso2/identity-reconciliation-service/internal/system/database/lock"
	"github.com/wso2/identity-reconciliation-service/internal/system/database/provider"
	"github.com/wso2/identity-reconciliation-service/test/setup"
)

var testDB *setup.TestDatabase

func TestMain(m *testing.M) {
	ctx := context.Background()

	db, err := setup.SetupTestDB(ctx, "../../dbscripts/postgres.sql")
	if err != nil {
		fmt.Println("Failed to start test DB:", err)
		os.Exit(1)
	}
	testDB = db
	provider.SetTestDB(db.DB)

	code := m.Run()

	testDB.Terminate(ctx)
	os.Exit(code)
}

// newPostgresService builds a service with no process lock, so only the advisory lock serializes callers.
func newPostgresService(t *testing.T) *service.ContactService {
	require.NoError(t, testDB.Truncate(context.Background()))
	st := store.NewPostgresContactStore(provider.NewDBProvider(), constants.DefaultReconcileLockKey)
	return service.NewContactService(st, lock.NoopLock{}, constants.DefaultReconcileLockKey,
		config.IdentityConfig{LowercaseEmail: true})
}

func TestPostgres_MergeTwoPrimaries(t *testing.T) {
	svc := newPostgresService(t)
	ctx := context.Background()

	first, err := svc.Reconcile(ctx, "a@x.com", "111")
	require.NoError(t, err)
	second, err := svc.Reconcile(ctx, "b@x.com", "222")
	require.NoError(t, err)

	merged, err := svc.Reconcile(ctx, "a@x.com", "222")
	require.NoError(t, err)

	assert.Equal(t, first.Contact.PrimaryContactId, merged.Contact.PrimaryContactId)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, merged.Contact.Emails)
	assert.Equal(t, []string{"111", "222"}, merged.Contact.PhoneNumbers)
	assert.Equal(t, []int64{second.Contact.PrimaryContactId}, merged.Contact.SecondaryContactIds)

	var precedence string
	var linkedId int64
	require.NoError(t, testDB.DB.QueryRow("SELECT link_precedence, linked_id FROM contact WHERE id = $1",
		second.Contact.PrimaryContactId).Scan(&precedence, &linkedId))
	assert.Equal(t, constants.LinkPrecedenceSecondary, precedence)
	assert.Equal(t, first.Contact.PrimaryContactId, linkedId)
}

func TestPostgres_AbsentValuesAreStoredAsNull(t *testing.T) {
	svc := newPostgresService(t)

	resp, err := svc.Reconcile(context.Background(), "only@x.com", "")
	require.NoError(t, err)

	var nullPhones int
	require.NoError(t, testDB.DB.QueryRow("SELECT COUNT(*) FROM contact WHERE id = $1 AND phone_number IS NULL",
		resp.Contact.PrimaryContactId).Scan(&nullPhones))
	assert.Equal(t, 1, nullPhones)
	assert.Equal(t, []string{}, resp.Contact.PhoneNumbers)
}

func TestPostgres_ConcurrentCallsAreSerializedByAdvisoryLock(t *testing.T) {
	svc := newPostgresService(t)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Reconcile(context.Background(), "race@x.com", "999")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	var count int
	require.NoError(t, testDB.DB.QueryRow("SELECT COUNT(*) FROM contact").Scan(&count))
	assert.Equal(t, 1, count)
}
