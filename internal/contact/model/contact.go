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

package model

import (
	"sort"
	"time"

	"github.com/wso2/identity-reconciliation-service/internal/system/constants"
)

// Contact is one stored (email, phone) observation together with its link to the group primary.
// Empty Email or PhoneNumber means the value was not supplied.
type Contact struct {
	Id             int64
	Email          string
	PhoneNumber    string
	LinkedId       *int64
	LinkPrecedence string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (c Contact) IsPrimary() bool {
	return c.LinkPrecedence == constants.LinkPrecedencePrimary
}

// LinksTo reports whether the contact is linked directly to the given id.
func (c Contact) LinksTo(id int64) bool {
	return c.LinkedId != nil && *c.LinkedId == id
}

// Before orders contacts by creation time, ties broken by id.
func (c Contact) Before(other Contact) bool {
	if !c.CreatedAt.Equal(other.CreatedAt) {
		return c.CreatedAt.Before(other.CreatedAt)
	}
	return c.Id < other.Id
}

// SortContacts sorts in place by (CreatedAt, Id) ascending.
func SortContacts(contacts []Contact) {
	sort.SliceStable(contacts, func(i, j int) bool {
		return contacts[i].Before(contacts[j])
	})
}

// NewPrimaryContact returns an unsaved primary contact.
func NewPrimaryContact(email, phoneNumber string) Contact {
	return Contact{
		Email:          email,
		PhoneNumber:    phoneNumber,
		LinkPrecedence: constants.LinkPrecedencePrimary,
	}
}

// NewSecondaryContact returns an unsaved secondary contact linked to primaryId.
func NewSecondaryContact(email, phoneNumber string, primaryId int64) Contact {
	return Contact{
		Email:          email,
		PhoneNumber:    phoneNumber,
		LinkedId:       &primaryId,
		LinkPrecedence: constants.LinkPrecedenceSecondary,
	}
}
