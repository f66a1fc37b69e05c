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

package constants

const ApiBasePath = "/api/v1"
const IdentifyApiPath = "/identify"
const DeploymentConfigFile = "/repository/conf/deployment.yaml"

type contextKey string

const TraceIDContextKey contextKey = "trace_id"
const TraceIDHeader = "X-Trace-Id"

// Link precedence values stored in the contact table.
const (
	LinkPrecedencePrimary   = "primary"
	LinkPrecedenceSecondary = "secondary"
)

// Supported datasource types.
const (
	DataSourcePostgres = "postgres"
	DataSourceMemory   = "memory"
)

// Supported reconciliation lock types.
const (
	LockTypeLocal = "local"
	LockTypeRedis = "redis"
	LockTypeNone  = "none"
)

const DefaultReconcileLockKey = "contact-reconciliation"
const IdentifyRequestResource = "identify request"
