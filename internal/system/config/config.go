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

package config

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
}

type AuthConfig struct {
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

type DataSourceConfig struct {
	Type                   string `yaml:"type"`
	Hostname               string `yaml:"hostname"`
	Port                   int    `yaml:"port"`
	Name                   string `yaml:"name"`
	Username               string `yaml:"username"`
	Password               string `yaml:"password"`
	SSLMode                string `yaml:"sslmode"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeSeconds int    `yaml:"conn_max_lifetime_seconds"`
	SchemaFile             string `yaml:"schema_file"`
}

// IdentityConfig controls how email and phone values are normalized before matching.
type IdentityConfig struct {
	LowercaseEmail     bool   `yaml:"lowercase_email"`
	PhoneDefaultRegion string `yaml:"phone_default_region"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LockConfig selects the lock held around a whole reconciliation.
type LockConfig struct {
	Type            string      `yaml:"type"`
	Key             string      `yaml:"key"`
	TTLSeconds      int         `yaml:"ttl_seconds"`
	RetryIntervalMs int         `yaml:"retry_interval_ms"`
	RetryCount      int         `yaml:"retry_count"`
	Redis           RedisConfig `yaml:"redis"`
}

type Config struct {
	Addr       AddrConfig       `yaml:"addr"`
	Log        LogConfig        `yaml:"log"`
	Auth       AuthConfig       `yaml:"auth"`
	DataSource DataSourceConfig `yaml:"datasource"`
	Identity   IdentityConfig   `yaml:"identity"`
	Lock       LockConfig       `yaml:"lock"`
}
