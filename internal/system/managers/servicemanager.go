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
	"strings"

	contactprovider "github.com/wso2/identity-reconciliation-service/internal/contact/provider"
	healthprovider "github.com/wso2/identity-reconciliation-service/internal/health_check/provider"
	"github.com/wso2/identity-reconciliation-service/internal/system/services"
)

type ServiceManagerInterface interface {
	RegisterServices(apiBasePath string) error
}

type ServiceManager struct {
	mux *http.ServeMux
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux) ServiceManagerInterface {

	return &ServiceManager{
		mux: mux,
	}
}

// RegisterServices mounts every service at the root and again under apiBasePath.
func (sm *ServiceManager) RegisterServices(apiBasePath string) error {

	contactService, err := contactprovider.NewContactProvider().GetContactService()
	if err != nil {
		return err
	}
	identifyService := services.NewContactService(contactService)
	healthService := services.NewHealthService(healthprovider.NewHealthCheckProvider().GetHealthCheckService())

	dispatch := func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimSuffix(r.URL.Path, "/")

		switch {
		case strings.HasPrefix(path, "/identify"):
			identifyService.Route(w, r)
		case path == "/health" || path == "/ready":
			healthService.Route(w, r)
		default:
			http.NotFound(w, r)
		}
	}

	sm.mux.HandleFunc("/", dispatch)
	sm.mux.Handle(apiBasePath+"/", http.StripPrefix(apiBasePath, http.HandlerFunc(dispatch)))
	return nil
}
