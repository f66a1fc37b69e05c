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

package managers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-reconciliation-service/internal/system/config"
	"github.com/wso2/identity-reconciliation-service/internal/system/constants"
	"github.com/wso2/identity-reconciliation-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	config.OverrideRuntime(config.Config{
		DataSource: config.DataSourceConfig{Type: constants.DataSourceMemory},
		Identity:   config.IdentityConfig{LowercaseEmail: true},
		Lock:       config.LockConfig{Type: constants.LockTypeLocal},
	})
	os.Exit(m.Run())
}

func newTestMux(t *testing.T) *http.ServeMux {
	mux := http.NewServeMux()
	require.NoError(t, NewServiceManager(mux).RegisterServices(constants.ApiBasePath))
	return mux
}

func serve(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestRegisterServices_Routes(t *testing.T) {
	mux := newTestMux(t)

	root := serve(mux, http.MethodPost, "/identify", `{"email":"routes@x.com"}`)
	require.Equal(t, http.StatusOK, root.Code)

	versioned := serve(mux, http.MethodPost, "/api/v1/identify", `{"email":"ROUTES@x.com"}`)
	require.Equal(t, http.StatusOK, versioned.Code)
	assert.JSONEq(t, root.Body.String(), versioned.Body.String(), "both mounts share one contact service")

	assert.Equal(t, http.StatusOK, serve(mux, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, serve(mux, http.MethodGet, "/api/v1/ready", "").Code)

	notAllowed := serve(mux, http.MethodGet, "/identify", "")
	assert.Equal(t, http.StatusMethodNotAllowed, notAllowed.Code)
	assert.Equal(t, http.MethodPost, notAllowed.Header().Get("Allow"))

	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodGet, "/profiles", "").Code)
}
