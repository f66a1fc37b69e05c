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

package services

import (
	"net/http"
	"strings"

	"github.com/wso2/identity-reconciliation-service/internal/contact/handler"
	"github.com/wso2/identity-reconciliation-service/internal/contact/service"
	"github.com/wso2/identity-reconciliation-service/internal/system/constants"
)

// ContactService routes contact reconciliation requests.
type ContactService struct {
	handler *handler.ContactHandler
}

func NewContactService(contactService service.ContactServiceInterface) *ContactService {
	return &ContactService{
		handler: handler.NewContactHandler(contactService),
	}
}

func (s *ContactService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case path == constants.IdentifyApiPath && r.Method == http.MethodPost:
		s.handler.Identify(w, r)
	case path == constants.IdentifyApiPath:
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}
