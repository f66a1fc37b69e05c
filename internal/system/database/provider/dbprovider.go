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

package provider

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/lib/pq"
	"github.com/wso2/identity-reconciliation-service/internal/system/config"
	"github.com/wso2/identity-reconciliation-service/internal/system/constants"
	"github.com/wso2/identity-reconciliation-service/internal/system/database/client"
)

// DBConfig represents the local database configuration.
type DBConfig struct {
	dsn        string
	driverName string
}

// DBProviderInterface defines the interface for getting database clients.
type DBProviderInterface interface {
	GetDBClient() (client.DBClientInterface, error)
	GetDBType() string
}

// DBProvider is the implementation of DBProviderInterface.
type DBProvider struct{}

var (
	sharedDB *sql.DB
	dbMu     sync.Mutex
)

// NewDBProvider creates a new instance of DBProvider.
func NewDBProvider() DBProviderInterface {

	return &DBProvider{}
}

// SetTestDB makes every client share the given connection pool.
func SetTestDB(db *sql.DB) {
	dbMu.Lock()
	defer dbMu.Unlock()
	sharedDB = db
}

// Close closes the shared connection pool, if one was opened.
func Close() error {
	dbMu.Lock()
	defer dbMu.Unlock()
	if sharedDB == nil {
		return nil
	}
	err := sharedDB.Close()
	sharedDB = nil
	return err
}

// GetDBClient returns a database client backed by the shared connection pool, opening it on first use.
func (d *DBProvider) GetDBClient() (client.DBClientInterface, error) {

	dbMu.Lock()
	defer dbMu.Unlock()
	if sharedDB != nil {
		return client.NewDBClient(sharedDB), nil
	}

	dataSource := config.GetRuntime().Config.DataSource
	dbConfig := getDBConfig(dataSource)

	db, err := sql.Open(dbConfig.driverName, dbConfig.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}
	if dataSource.MaxOpenConns > 0 {
		db.SetMaxOpenConns(dataSource.MaxOpenConns)
	}
	if dataSource.MaxIdleConns > 0 {
		db.SetMaxIdleConns(dataSource.MaxIdleConns)
	}
	if dataSource.ConnMaxLifetimeSeconds > 0 {
		db.SetConnMaxLifetime(time.Duration(dataSource.ConnMaxLifetimeSeconds) * time.Second)
	}

	// Test the database connection.
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	sharedDB = db
	return client.NewDBClient(db), nil
}

// GetDBType returns the key used to pick queries from the scripts package.
func (d *DBProvider) GetDBType() string {
	return constants.DataSourcePostgres
}

func getDBConfig(dataSource config.DataSourceConfig) DBConfig {

	var dbConfig DBConfig

	dbConfig.driverName = "postgres"
	dbConfig.dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dataSource.Hostname, dataSource.Port, dataSource.Username, dataSource.Password,
		dataSource.Name, dataSource.SSLMode)

	return dbConfig
}
