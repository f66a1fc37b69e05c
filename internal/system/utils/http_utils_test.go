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

package utils

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wso2/identity-reconciliation-service/internal/system/constants"
	errors2 "github.com/wso2/identity-reconciliation-service/internal/system/errors"
)

func TestHandleError_ClientError(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors2.NewClientError(errors2.MISSING_IDENTIFIER, http.StatusBadRequest))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"code":"IRS-10002","message":"Missing contact identifier.",
		"description":"Either email or phoneNumber must be provided."}`, rec.Body.String())
}

func TestHandleError_HidesServerErrorDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.Header().Set(constants.TraceIDHeader, "trace-9")
	HandleError(rec, errors2.NewStoreError(errors2.ADD_CONTACT, "insert failed", errors.New("disk full")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error","trace_id":"trace-9"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	HandleError(rec, errors.New("plain"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleDecodeError(t *testing.T) {
	assert.Equal(t, "", HandleDecodeError(nil, "identify request"))
	assert.Equal(t, "Request body for identify request is empty.", HandleDecodeError(io.EOF, "identify request"))
	assert.Equal(t, "Unknown field \"mail\" in identify request request body.",
		HandleDecodeError(errors.New(`json: unknown field "mail"`), "identify request"))
}

func TestEnableCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	open := EnableCORS(nil, next)
	rec := httptest.NewRecorder()
	open.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/identify", strings.NewReader("{}")))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	restricted := EnableCORS([]string{"https://app.example.com"}, next)
	req := httptest.NewRequest(http.MethodOptions, "/identify", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec = httptest.NewRecorder()
	restricted.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "preflight is answered directly")
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodPost, "/identify", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	restricted.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
