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

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/wso2/identity-reconciliation-service/internal/contact/model"
	"github.com/wso2/identity-reconciliation-service/internal/system/database/client"
	"github.com/wso2/identity-reconciliation-service/internal/system/database/lock"
	"github.com/wso2/identity-reconciliation-service/internal/system/database/provider"
	"github.com/wso2/identity-reconciliation-service/internal/system/database/scripts"
	errors2 "github.com/wso2/identity-reconciliation-service/internal/system/errors"
	"github.com/wso2/identity-reconciliation-service/internal/system/log"
)

// PostgresContactStore keeps contacts in the contact table. Each transaction first takes a
// transaction-scoped advisory lock on lockKey, so reconciliations are serialized across every
// instance sharing the database.
type PostgresContactStore struct {
	dbProvider provider.DBProviderInterface
	lockKey    string
}

func NewPostgresContactStore(dbProvider provider.DBProviderInterface, lockKey string) *PostgresContactStore {
	return &PostgresContactStore{
		dbProvider: dbProvider,
		lockKey:    lockKey,
	}
}

func (s *PostgresContactStore) RunInTransaction(ctx context.Context, fn func(tx ContactTx) error) error {

	logger := log.GetLogger()
	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		errorMsg := "Failed to get database client for contact reconciliation"
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewStoreError(errors2.DB_CLIENT_INIT, errorMsg, err)
	}

	// The advisory lock below is the critical section; read committed lets every statement
	// after it see the rows committed by the previous holder.
	tx, err := dbClient.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		errorMsg := "Failed to begin transaction for contact reconciliation"
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewStoreError(errors2.TX_BEGIN, errorMsg, err)
	}

	dbType := s.dbProvider.GetDBType()
	if err := s.acquireAdvisoryLock(tx, dbType); err != nil {
		rollback(tx)
		return err
	}

	if err := fn(&postgresContactTx{tx: tx, dbType: dbType}); err != nil {
		rollback(tx)
		return err
	}

	if err := tx.Commit(); err != nil {
		errorMsg := "Failed to commit transaction for contact reconciliation"
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewStoreError(errors2.TX_COMMIT, errorMsg, err)
	}
	return nil
}

func (s *PostgresContactStore) Ping(ctx context.Context) error {

	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to create database client: %v", err)
	}
	if err := dbClient.Ping(ctx); err != nil {
		return fmt.Errorf("database connectivity check failed: %v", err)
	}
	return nil
}

func (s *PostgresContactStore) acquireAdvisoryLock(tx client.TxInterface, dbType string) error {

	lockID, err := lock.GenerateLockKey(s.lockKey)
	if err != nil {
		return err
	}
	if _, err := tx.ExecuteQuery(scripts.AcquireReconcileLock[dbType], lockID); err != nil {
		errorMsg := fmt.Sprintf("Failed to take advisory lock %d for contact reconciliation", lockID)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return errors2.NewStoreError(errors2.LOCK_ACQUIRE, errorMsg, err)
	}
	return nil
}

func rollback(tx client.TxInterface) {
	if err := tx.Rollback(); err != nil {
		log.GetLogger().Error("Failed to rollback contact reconciliation transaction", log.Error(err))
	}
}

type postgresContactTx struct {
	tx     client.TxInterface
	dbType string
}

func (t *postgresContactTx) FindByEmailOrPhone(email, phoneNumber string) ([]model.Contact, error) {

	var clauses []string
	var args []interface{}
	if email != "" {
		args = append(args, email)
		clauses = append(clauses, "email = $"+strconv.Itoa(len(args)))
	}
	if phoneNumber != "" {
		args = append(args, phoneNumber)
		clauses = append(clauses, "phone_number = $"+strconv.Itoa(len(args)))
	}
	if len(clauses) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(scripts.FindContactsByEmailOrPhone[t.dbType], strings.Join(clauses, " OR "))
	results, err := t.tx.ExecuteQuery(query, args...)
	if err != nil {
		errorMsg := "Failed to fetch contacts matching the email or phone number"
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewStoreError(errors2.FETCH_CONTACTS, errorMsg, err)
	}
	return rowsToContacts(results), nil
}

func (t *postgresContactTx) FindByIdsOrLinkedIds(ids []int64) ([]model.Contact, error) {

	if len(ids) == 0 {
		return nil, nil
	}
	results, err := t.tx.ExecuteQuery(scripts.FindContactsByIdsOrLinkedIds[t.dbType], pq.Array(ids))
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch contacts linked to ids: %v", ids)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewStoreError(errors2.FETCH_CONTACTS, errorMsg, err)
	}
	return rowsToContacts(results), nil
}

func (t *postgresContactTx) Insert(contact model.Contact) (model.Contact, error) {

	var linkedId interface{}
	if contact.LinkedId != nil {
		linkedId = *contact.LinkedId
	}
	results, err := t.tx.ExecuteQuery(scripts.InsertContact[t.dbType], nullableString(contact.Email),
		nullableString(contact.PhoneNumber), linkedId, contact.LinkPrecedence)
	if err != nil || len(results) == 0 {
		errorMsg := fmt.Sprintf("Failed to add %s contact", contact.LinkPrecedence)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return model.Contact{}, errors2.NewStoreError(errors2.ADD_CONTACT, errorMsg, err)
	}
	return rowToContact(results[0]), nil
}

func (t *postgresContactTx) UpdateDemote(ids []int64, newLinkedId int64) error {

	if len(ids) == 0 {
		return nil
	}
	_, err := t.tx.ExecuteQuery(scripts.DemoteContacts[t.dbType], newLinkedId, pq.Array(ids))
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to link contacts %v to primary contact %d", ids, newLinkedId)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return errors2.NewStoreError(errors2.DEMOTE_CONTACTS, errorMsg, err)
	}
	return nil
}

func rowsToContacts(results []map[string]interface{}) []model.Contact {
	contacts := make([]model.Contact, 0, len(results))
	for _, row := range results {
		contacts = append(contacts, rowToContact(row))
	}
	return contacts
}

func rowToContact(row map[string]interface{}) model.Contact {
	var contact model.Contact
	contact.Id = row["id"].(int64)
	contact.Email = stringValue(row["email"])
	contact.PhoneNumber = stringValue(row["phone_number"])
	if linkedId, ok := row["linked_id"].(int64); ok {
		contact.LinkedId = &linkedId
	}
	contact.LinkPrecedence = stringValue(row["link_precedence"])
	if createdAt, ok := row["created_at"].(time.Time); ok {
		contact.CreatedAt = createdAt
	}
	if updatedAt, ok := row["updated_at"].(time.Time); ok {
		contact.UpdatedAt = updatedAt
	}
	return contact
}

func stringValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func nullableString(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
