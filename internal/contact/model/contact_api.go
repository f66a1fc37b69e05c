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
	"bytes"
	"encoding/json"
	"errors"
)

var ErrInvalidPhoneNumber = errors.New("phoneNumber must be a string or a number")

// IdentifyRequest is the body of POST /identify.
type IdentifyRequest struct {
	Email       *string     `json:"email" validate:"omitempty,max=320"`
	PhoneNumber PhoneNumber `json:"phoneNumber" validate:"max=32"`
}

// EmailValue returns the email or "" when absent.
func (r IdentifyRequest) EmailValue() string {
	if r.Email == nil {
		return ""
	}
	return *r.Email
}

// PhoneNumber accepts a JSON string, a JSON number or null. Numbers keep their literal digits.
type PhoneNumber string

func (p *PhoneNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PhoneNumber(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return ErrInvalidPhoneNumber
	}
	*p = PhoneNumber(n.String())
	return nil
}

// ContactProjection is the consolidated view of one contact group.
type ContactProjection struct {
	PrimaryContactId    int64    `json:"primaryContactId"`
	Emails              []string `json:"emails"`
	PhoneNumbers        []string `json:"phoneNumbers"`
	SecondaryContactIds []int64  `json:"secondaryContactIds"`
}

// IdentifyResponse is the body returned by POST /identify.
type IdentifyResponse struct {
	Contact ContactProjection `json:"contact"`
}
