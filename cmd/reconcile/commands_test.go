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

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-reconciliation-service/internal/contact/model"
	"github.com/wso2/identity-reconciliation-service/internal/contact/service"
	"github.com/wso2/identity-reconciliation-service/internal/contact/store"
	"github.com/wso2/identity-reconciliation-service/internal/system/config"
	"github.com/wso2/identity-reconciliation-service/internal/system/constants"
	"github.com/wso2/identity-reconciliation-service/internal/system/database/lock"
)

func newTestCLI() *cli {
	return &cli{service: service.NewContactService(store.NewMemoryContactStore(), lock.NewLocalLock(),
		constants.DefaultReconcileLockKey, config.IdentityConfig{LowercaseEmail: true})}
}

func run(t *testing.T, c *cli, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(c)
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeLines(t *testing.T, out string) []model.IdentifyResponse {
	t.Helper()
	var responses []model.IdentifyResponse
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var resp model.IdentifyResponse
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		responses = append(responses, resp)
	}
	return responses
}

func TestFileCommand_ReconcilesEachLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"email":"a@x.com","phoneNumber":"1"}

{"email":"b@x.com","phoneNumber":1}
`), 0o600))

	stdout, _, err := run(t, newTestCLI(), "", "file", path)
	require.NoError(t, err)

	responses := decodeLines(t, stdout)
	require.Len(t, responses, 2)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, responses[1].Contact.Emails)
	assert.Equal(t, []int64{2}, responses[1].Contact.SecondaryContactIds)
}

func TestFileCommand_StopsOnInvalidLine(t *testing.T) {
	stdin := "{\"email\":\"a@x.com\"}\n{\"mail\":\"b@x.com\"}\n{\"email\":\"c@x.com\"}\n"
	stdout, _, err := run(t, newTestCLI(), stdin, "file", "-")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Len(t, decodeLines(t, stdout), 1)
}

func TestFileCommand_ContinueOnError(t *testing.T) {
	stdin := "{\"email\":\"a@x.com\"}\n{}\nnot json\n{\"email\":\"c@x.com\"}\n"
	stdout, stderr, err := run(t, newTestCLI(), stdin, "file", "-", "--continue-on-error")

	require.NoError(t, err)
	assert.Len(t, decodeLines(t, stdout), 2)
	assert.Contains(t, stderr, "line 2:")
	assert.Contains(t, stderr, "line 3:")
}

func TestFileCommand_ValidatesLikeIdentify(t *testing.T) {
	stdin := `{"email":"","phoneNumber":" 123456 "}
{"email":"   ","phoneNumber":null}
{"email":"` + strings.Repeat("a", 321) + `"}
{"email":"legacy-id-42"}
`
	stdout, stderr, err := run(t, newTestCLI(), stdin, "file", "-", "--continue-on-error")
	require.NoError(t, err)

	responses := decodeLines(t, stdout)
	require.Len(t, responses, 2)
	assert.Equal(t, []string{}, responses[0].Contact.Emails)
	assert.Equal(t, []string{"123456"}, responses[0].Contact.PhoneNumbers)
	assert.Equal(t, []string{"legacy-id-42"}, responses[1].Contact.Emails)
	assert.Contains(t, stderr, "line 2: [IRS-10002]")
	assert.Contains(t, stderr, "line 3: [IRS-10003]")
	assert.Contains(t, stderr, "'email' must be at most 320 characters")
}

func TestOneCommand(t *testing.T) {
	c := newTestCLI()
	stdout, _, err := run(t, c, "", "one", "--email", "Doc@HillValley.edu", "--phone", "123456")
	require.NoError(t, err)

	responses := decodeLines(t, stdout)
	require.Len(t, responses, 1)
	assert.Equal(t, []string{"doc@hillvalley.edu"}, responses[0].Contact.Emails)

	_, _, err = run(t, c, "", "one")
	assert.Error(t, err, "an observation needs an email or a phone number")
}

func TestSetup_LoadsMemoryStoreFromHome(t *testing.T) {
	home := t.TempDir()
	conf := filepath.Join(home, "repository", "conf")
	require.NoError(t, os.MkdirAll(conf, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(conf, "deployment.yaml"), []byte(`
log:
  log_level: ERROR
datasource:
  type: memory
`), 0o600))

	stdout, _, err := run(t, &cli{}, "", "one", "--home", home, "--email", "setup@x.com")
	require.NoError(t, err)
	assert.Len(t, decodeLines(t, stdout), 1)
}
