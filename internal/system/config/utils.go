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

import (
	"os"
	"path"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// LoadConfig reads the deployment file relative to the service home, expanding ${ENV} references.
func LoadConfig(serviceHome, filePath string) (*Config, error) {
	file, err := os.ReadFile(path.Join(serviceHome, filePath))
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(file))

	cfg := defaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFiles loads every config/*.env file under the service home into the process environment.
// Variables already set in the environment win.
func LoadEnvFiles(serviceHome string) ([]string, error) {
	envFiles, err := filepath.Glob(filepath.Join(serviceHome, "config", "*.env"))
	if err != nil || len(envFiles) == 0 {
		return nil, err
	}
	return envFiles, godotenv.Load(envFiles...)
}

func defaultConfig() *Config {
	return &Config{
		Addr: AddrConfig{Host: "0.0.0.0", Port: 3000},
		Log:  LogConfig{LogLevel: "INFO"},
		DataSource: DataSourceConfig{
			Type:    "postgres",
			SSLMode: "disable",
		},
		Lock: LockConfig{
			Type:            "local",
			Key:             "contact-reconciliation",
			TTLSeconds:      30,
			RetryIntervalMs: 100,
			RetryCount:      100,
		},
	}
}
