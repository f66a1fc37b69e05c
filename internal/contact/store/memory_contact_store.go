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
	"sync"
	"time"

	"github.com/wso2/identity-reconciliation-service/internal/contact/model"
	"github.com/wso2/identity-reconciliation-service/internal/system/constants"
)

// MemoryContactStore keeps contacts in process memory. One transaction runs at a time; a failed
// transaction restores the rows it started from.
type MemoryContactStore struct {
	mu       sync.Mutex
	contacts []model.Contact
	nextId   int64
	now      func() time.Time
}

func NewMemoryContactStore() *MemoryContactStore {
	return &MemoryContactStore{
		nextId: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used to stamp new contacts.
func (s *MemoryContactStore) WithClock(now func() time.Time) *MemoryContactStore {
	s.now = now
	return s
}

// Seed stores a contact as given, assigning an id when it has none and a creation time when it has
// none. It bypasses all reconciliation logic.
func (s *MemoryContactStore) Seed(contact model.Contact) model.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()

	if contact.Id == 0 {
		contact.Id = s.nextId
	}
	if contact.Id >= s.nextId {
		s.nextId = contact.Id + 1
	}
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = s.now()
	}
	if contact.UpdatedAt.IsZero() {
		contact.UpdatedAt = contact.CreatedAt
	}
	s.contacts = append(s.contacts, cloneContact(contact))
	return contact
}

// Contacts returns a copy of every stored contact in insertion order.
func (s *MemoryContactStore) Contacts() []model.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneContacts(s.contacts)
}

func (s *MemoryContactStore) RunInTransaction(ctx context.Context, fn func(tx ContactTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := cloneContacts(s.contacts)
	nextId := s.nextId
	if err := fn(&memoryContactTx{store: s}); err != nil {
		s.contacts = snapshot
		s.nextId = nextId
		return err
	}
	return nil
}

func (s *MemoryContactStore) Ping(context.Context) error {
	return nil
}

// memoryContactTx is only used while the store mutex is held.
type memoryContactTx struct {
	store *MemoryContactStore
}

func (t *memoryContactTx) FindByEmailOrPhone(email, phoneNumber string) ([]model.Contact, error) {
	var matches []model.Contact
	for _, c := range t.store.contacts {
		if (email != "" && c.Email == email) || (phoneNumber != "" && c.PhoneNumber == phoneNumber) {
			matches = append(matches, cloneContact(c))
		}
	}
	model.SortContacts(matches)
	return matches, nil
}

func (t *memoryContactTx) FindByIdsOrLinkedIds(ids []int64) ([]model.Contact, error) {
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var found []model.Contact
	for _, c := range t.store.contacts {
		if wanted[c.Id] || (c.LinkedId != nil && wanted[*c.LinkedId]) {
			found = append(found, cloneContact(c))
		}
	}
	model.SortContacts(found)
	return found, nil
}

func (t *memoryContactTx) Insert(contact model.Contact) (model.Contact, error) {
	s := t.store
	contact.Id = s.nextId
	s.nextId++
	contact.CreatedAt = s.now()
	contact.UpdatedAt = contact.CreatedAt
	s.contacts = append(s.contacts, cloneContact(contact))
	return cloneContact(contact), nil
}

func (t *memoryContactTx) UpdateDemote(ids []int64, newLinkedId int64) error {
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	now := t.store.now()
	for i := range t.store.contacts {
		c := &t.store.contacts[i]
		if !wanted[c.Id] {
			continue
		}
		linkedId := newLinkedId
		c.LinkedId = &linkedId
		c.LinkPrecedence = constants.LinkPrecedenceSecondary
		c.UpdatedAt = now
	}
	return nil
}

func cloneContact(c model.Contact) model.Contact {
	if c.LinkedId != nil {
		linkedId := *c.LinkedId
		c.LinkedId = &linkedId
	}
	return c
}

func cloneContacts(contacts []model.Contact) []model.Contact {
	cloned := make([]model.Contact, len(contacts))
	for i, c := range contacts {
		cloned[i] = cloneContact(c)
	}
	return cloned
}
