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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wso2/identity-reconciliation-service/internal/system/config"
)

func TestIdentityNormalizer_Email(t *testing.T) {
	tests := []struct {
		name      string
		lowercase bool
		input     string
		expected  string
	}{
		{name: "trims and lowercases", lowercase: true, input: "  Alice@Example.COM ", expected: "alice@example.com"},
		{name: "keeps case when disabled", lowercase: false, input: " Alice@Example.COM", expected: "Alice@Example.COM"},
		{name: "blank becomes empty", lowercase: true, input: "   ", expected: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewIdentityNormalizer(config.IdentityConfig{LowercaseEmail: tt.lowercase})
			assert.Equal(t, tt.expected, n.Email(tt.input))
		})
	}
}

func TestIdentityNormalizer_PhoneNumber(t *testing.T) {
	tests := []struct {
		name     string
		region   string
		input    string
		expected string
	}{
		{name: "no region only trims", region: "", input: " (650) 253-0000 ", expected: "(650) 253-0000"},
		{name: "formats valid number as E.164", region: "US", input: "(650) 253-0000", expected: "+16502530000"},
		{name: "region is case insensitive", region: " us ", input: "650 253 0000", expected: "+16502530000"},
		{name: "keeps invalid number as given", region: "US", input: " 123 ", expected: "123"},
		{name: "keeps unparseable value as given", region: "US", input: "not-a-number", expected: "not-a-number"},
		{name: "blank stays empty", region: "US", input: "  ", expected: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewIdentityNormalizer(config.IdentityConfig{PhoneDefaultRegion: tt.region})
			assert.Equal(t, tt.expected, n.PhoneNumber(tt.input))
		})
	}
}
