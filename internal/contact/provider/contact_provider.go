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

package provider

import (
	"fmt"
	"sync"

	"github.com/wso2/identity-reconciliation-service/internal/contact/service"
	"github.com/wso2/identity-reconciliation-service/internal/contact/store"
	"github.com/wso2/identity-reconciliation-service/internal/system/config"
	"github.com/wso2/identity-reconciliation-service/internal/system/constants"
	"github.com/wso2/identity-reconciliation-service/internal/system/database/lock"
	dbprovider "github.com/wso2/identity-reconciliation-service/internal/system/database/provider"
	errors2 "github.com/wso2/identity-reconciliation-service/internal/system/errors"
)

// ContactProviderInterface defines the interface for the contact provider.
type ContactProviderInterface interface {
	GetContactService() (service.ContactServiceInterface, error)
}

// ContactProvider is the default implementation of the ContactProviderInterface.
type ContactProvider struct{}

var (
	contactService service.ContactServiceInterface
	contactErr     error
	contactOnce    sync.Once
)

// NewContactProvider creates a new instance of ContactProvider.
func NewContactProvider() ContactProviderInterface {

	return &ContactProvider{}
}

// GetContactService returns the process wide contact service, building it from the runtime configuration
// on first use.
func (cp *ContactProvider) GetContactService() (service.ContactServiceInterface, error) {

	contactOnce.Do(func() {
		contactService, contactErr = NewContactServiceFromConfig(config.GetRuntime().Config)
	})
	return contactService, contactErr
}

// NewContactServiceFromConfig wires the store and the reconcile lock selected by the configuration.
func NewContactServiceFromConfig(conf config.Config) (*service.ContactService, error) {

	lockKey := conf.Lock.Key
	if lockKey == "" {
		lockKey = constants.DefaultReconcileLockKey
	}

	contactStore, err := NewContactStore(conf.DataSource, lockKey)
	if err != nil {
		return nil, err
	}
	reconcileLock, err := lock.NewDistributedLock(conf.Lock)
	if err != nil {
		return nil, err
	}
	return service.NewContactService(contactStore, reconcileLock, lockKey, conf.Identity), nil
}

// NewContactStore returns the contact store for the configured datasource type.
func NewContactStore(dataSource config.DataSourceConfig, lockKey string) (store.ContactStoreInterface, error) {

	switch dataSource.Type {
	case "", constants.DataSourcePostgres:
		return store.NewPostgresContactStore(dbprovider.NewDBProvider(), lockKey), nil
	case constants.DataSourceMemory:
		return store.NewMemoryContactStore(), nil
	default:
		return nil, errors2.NewStoreError(errors2.UNSUPPORTED_STORE,
			fmt.Sprintf("Unsupported datasource type: %s", dataSource.Type), nil)
	}
}
