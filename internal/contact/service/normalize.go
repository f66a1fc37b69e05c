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

package service

import (
	"strings"

	"github.com/ttacon/libphonenumber"
	"github.com/wso2/identity-reconciliation-service/internal/system/config"
)

// IdentityNormalizer canonicalizes email and phone values before they are matched or stored.
type IdentityNormalizer struct {
	lowercaseEmail bool
	phoneRegion    string
}

func NewIdentityNormalizer(identityConfig config.IdentityConfig) IdentityNormalizer {
	return IdentityNormalizer{
		lowercaseEmail: identityConfig.LowercaseEmail,
		phoneRegion:    strings.ToUpper(strings.TrimSpace(identityConfig.PhoneDefaultRegion)),
	}
}

func (n IdentityNormalizer) Email(email string) string {
	email = strings.TrimSpace(email)
	if n.lowercaseEmail {
		return strings.ToLower(email)
	}
	return email
}

// PhoneNumber returns the E.164 form when a default region is configured and the value parses to a
// valid number for it. Anything else is returned trimmed but otherwise untouched.
func (n IdentityNormalizer) PhoneNumber(phoneNumber string) string {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" || n.phoneRegion == "" {
		return phoneNumber
	}
	parsed, err := libphonenumber.Parse(phoneNumber, n.phoneRegion)
	if err != nil || !libphonenumber.IsValidNumber(parsed) {
		return phoneNumber
	}
	return libphonenumber.Format(parsed, libphonenumber.E164)
}
