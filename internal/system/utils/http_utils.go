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
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wso2/identity-reconciliation-service/internal/system/constants"
	errors2 "github.com/wso2/identity-reconciliation-service/internal/system/errors"
	"github.com/wso2/identity-reconciliation-service/internal/system/log"
)

// HandleError sends an HTTP error response based on the provided error
func HandleError(w http.ResponseWriter, err error) {

	var clientError *errors2.ClientError
	if ok := errors.As(err, &clientError); ok {
		WriteErrorResponse(w, clientError)
		return
	}

	traceID := w.Header().Get(constants.TraceIDHeader)
	logger := log.GetLogger()
	var serverError *errors2.ServerError
	if ok := errors.As(err, &serverError); ok {
		logger.Error(serverError.Description, log.String("code", serverError.Code),
			log.String("trace_id", traceID), log.Error(serverError.Err))
	} else {
		logger.Error("Unexpected error while serving request", log.String("trace_id", traceID), log.Error(err))
	}
	RespondJSON(w, http.StatusInternalServerError, map[string]string{
		"error":    "Internal server error",
		"trace_id": traceID,
	})
}

func WriteErrorResponse(w http.ResponseWriter, err *errors2.ClientError) {

	RespondJSON(w, err.StatusCode, struct {
		Code        string `json:"code"`
		Message     string `json:"message"`
		Description string `json:"description"`
	}{
		Code:        err.Code,
		Message:     err.Message,
		Description: err.Description,
	})
}

// WriteBadRequestErrorResponse answers 400 with the given client error code and a request specific description.
func WriteBadRequestErrorResponse(w http.ResponseWriter, code errors2.ErrorMessage, description string) {

	WriteErrorResponse(w, errors2.NewClientError(errors2.ErrorMessage{
		Code:        code.Code,
		Message:     code.Message,
		Description: description,
	}, http.StatusBadRequest))
}

// RespondJSON writes data as the JSON body with the given status.
func RespondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}
