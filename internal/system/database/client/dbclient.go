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

package client

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/wso2/identity-reconciliation-service/internal/system/log"
)

// DBClientInterface defines the interface for database operations.
type DBClientInterface interface {
	ExecuteQuery(query string, args ...interface{}) ([]map[string]interface{}, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (TxInterface, error)
	Ping(ctx context.Context) error
	InitDatabase(serviceHome, file string) error
}

// TxInterface runs queries inside one database transaction.
type TxInterface interface {
	ExecuteQuery(query string, args ...interface{}) ([]map[string]interface{}, error)
	Commit() error
	Rollback() error
}

// DBClient is the implementation of DBClientInterface.
type DBClient struct {
	db *sql.DB
}

// NewDBClient creates a new instance of DBClient with the provided database connection.
func NewDBClient(db *sql.DB) DBClientInterface {

	return &DBClient{
		db: db,
	}
}

// InitDatabase executes the schema file found relative to the service home.
func (client *DBClient) InitDatabase(serviceHome, file string) error {

	sqlBytes, err := os.ReadFile(path.Join(serviceHome, file))
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	_, err = client.db.Exec(string(sqlBytes))
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	log.GetLogger().Info("Database schema created successfully")
	return nil
}

// ExecuteQuery executes a query and returns the result as a slice of maps.
func (client *DBClient) ExecuteQuery(query string, args ...interface{}) ([]map[string]interface{}, error) {

	rows, err := client.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	return scanRows(rows)
}

// BeginTx starts a new database transaction.
func (client *DBClient) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxInterface, error) {

	tx, err := client.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &DBTx{ctx: ctx, tx: tx}, nil
}

// Ping verifies the connection is alive.
func (client *DBClient) Ping(ctx context.Context) error {

	return client.db.PingContext(ctx)
}

// DBTx is the implementation of TxInterface.
type DBTx struct {
	ctx context.Context
	tx  *sql.Tx
}

func (t *DBTx) ExecuteQuery(query string, args ...interface{}) ([]map[string]interface{}, error) {

	rows, err := t.tx.QueryContext(t.ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanRows(rows)
}

func (t *DBTx) Commit() error {
	return t.tx.Commit()
}

func (t *DBTx) Rollback() error {
	return t.tx.Rollback()
}

func scanRows(rows *sql.Rows) ([]map[string]interface{}, error) {

	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]interface{}
	for rows.Next() {
		row := make([]interface{}, len(columns))
		rowPointers := make([]interface{}, len(columns))
		for i := range row {
			rowPointers[i] = &row[i]
		}

		if err := rows.Scan(rowPointers...); err != nil {
			return nil, err
		}

		result := map[string]interface{}{}
		for i, col := range columns {
			// Normalize column names to lowercase for consistency.
			result[strings.ToLower(col)] = row[i]
		}
		results = append(results, result)
	}

	return results, rows.Err()
}
