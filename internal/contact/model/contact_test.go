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
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifyRequest_PhoneNumberForms(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected PhoneNumber
	}{
		{name: "string", body: `{"phoneNumber":"123456"}`, expected: "123456"},
		{name: "number", body: `{"phoneNumber":123456}`, expected: "123456"},
		{name: "null", body: `{"phoneNumber":null}`, expected: ""},
		{name: "absent", body: `{"email":"a@x.com"}`, expected: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req IdentifyRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.expected, req.PhoneNumber)
		})
	}
}

func TestIdentifyRequest_RejectsNonScalarPhoneNumber(t *testing.T) {
	for _, body := range []string{`{"phoneNumber":true}`, `{"phoneNumber":["1"]}`} {
		var req IdentifyRequest
		assert.ErrorIs(t, json.Unmarshal([]byte(body), &req), ErrInvalidPhoneNumber, body)
	}
}

func TestIdentifyRequest_EmailValue(t *testing.T) {
	var req IdentifyRequest
	require.NoError(t, json.Unmarshal([]byte(`{"email":null}`), &req))
	assert.Equal(t, "", req.EmailValue())

	require.NoError(t, json.Unmarshal([]byte(`{"email":"a@x.com"}`), &req))
	assert.Equal(t, "a@x.com", req.EmailValue())
}

func TestIdentifyResponse_EmptyGroupEncodesArrays(t *testing.T) {
	resp := IdentifyResponse{Contact: ContactProjection{
		PrimaryContactId:    7,
		Emails:              []string{},
		PhoneNumbers:        []string{},
		SecondaryContactIds: []int64{},
	}}
	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"contact":{"primaryContactId":7,"emails":[],"phoneNumbers":[],"secondaryContactIds":[]}}`,
		string(body))
}

func TestSortContacts_ByCreatedAtThenId(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	contacts := []Contact{
		{Id: 3, CreatedAt: t0},
		{Id: 1, CreatedAt: t0.Add(time.Second)},
		{Id: 2, CreatedAt: t0},
	}
	SortContacts(contacts)

	ids := []int64{contacts[0].Id, contacts[1].Id, contacts[2].Id}
	assert.Equal(t, []int64{2, 3, 1}, ids)
}

func TestNewSecondaryContact_LinksToPrimary(t *testing.T) {
	c := NewSecondaryContact("a@x.com", "", 9)
	assert.False(t, c.IsPrimary())
	assert.True(t, c.LinksTo(9))
	assert.False(t, c.LinksTo(10))
	assert.True(t, NewPrimaryContact("", "1").IsPrimary())
}
