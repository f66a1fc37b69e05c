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

package log

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithWriter_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter("WARN", &buf))

	GetLogger().Info("hidden")
	GetLogger().Warn("shown", String("key", "k"), Int64("id", 7), Error(errors.New("boom")))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "key=k")
	assert.Contains(t, out, "id=7")
	assert.Contains(t, out, "boom")
}

func TestInit_RejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init("VERBOSE"))
}

func TestAudit_WritesStructuredEvent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter("INFO", &buf))

	GetLogger().Audit(AuditEvent{
		InitiatorType: InitiatorTypeClient,
		TargetID:      "42",
		TargetType:    TargetTypeContact,
		ActionID:      ActionAddContact,
		TraceID:       "trace-1",
		Data:          map[string]string{"link_precedence": "primary"},
	})

	out := buf.String()
	assert.Contains(t, out, "AUDIT")
	assert.Contains(t, out, `\"actionId\":\"add-contact\"`)
	assert.Contains(t, out, `\"traceId\":\"trace-1\"`)
	assert.Contains(t, out, `\"recordedAt\":`)
}
