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

package store

import (
	"context"

	"github.com/wso2/identity-reconciliation-service/internal/contact/model"
)

// ContactTx exposes the contact operations of one reconciliation. Every call made through the same
// ContactTx belongs to one atomic unit.
type ContactTx interface {
	// FindByEmailOrPhone returns contacts whose email equals email or whose phone number equals
	// phoneNumber. An empty argument adds no criterion.
	FindByEmailOrPhone(email, phoneNumber string) ([]model.Contact, error)
	// FindByIdsOrLinkedIds returns contacts whose id or linked id is in ids.
	FindByIdsOrLinkedIds(ids []int64) ([]model.Contact, error)
	// Insert assigns the id and timestamps and returns the stored contact.
	Insert(contact model.Contact) (model.Contact, error)
	// UpdateDemote marks the given contacts secondary and links them to newLinkedId.
	UpdateDemote(ids []int64, newLinkedId int64) error
}

// ContactStoreInterface is the backing store of the reconciliation engine.
type ContactStoreInterface interface {
	// RunInTransaction runs fn as one atomic unit. When fn returns an error nothing it wrote is kept.
	RunInTransaction(ctx context.Context, fn func(tx ContactTx) error) error
	Ping(ctx context.Context) error
}
