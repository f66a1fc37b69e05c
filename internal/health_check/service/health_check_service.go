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
	"context"
	"fmt"

	"github.com/wso2/identity-reconciliation-service/internal/contact/provider"
)

// HealthCheckServiceInterface defines the service interface.
type HealthCheckServiceInterface interface {
	CheckReadiness(ctx context.Context) error
}

// ReadinessChecker is implemented by anything that can tell whether its backing store is reachable.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// HealthCheckService is the default implementation.
type HealthCheckService struct {
	resolve func() (ReadinessChecker, error)
}

// GetHealthCheckService returns a health check backed by the contact service.
func GetHealthCheckService() HealthCheckServiceInterface {
	return &HealthCheckService{
		resolve: func() (ReadinessChecker, error) {
			return provider.NewContactProvider().GetContactService()
		},
	}
}

// NewHealthCheckService returns a health check backed by the given checker.
func NewHealthCheckService(checker ReadinessChecker) HealthCheckServiceInterface {
	return &HealthCheckService{
		resolve: func() (ReadinessChecker, error) { return checker, nil },
	}
}

func (h *HealthCheckService) CheckReadiness(ctx context.Context) error {

	checker, err := h.resolve()
	if err != nil {
		return fmt.Errorf("contact service unavailable: %v", err)
	}
	return checker.Ready(ctx)
}
