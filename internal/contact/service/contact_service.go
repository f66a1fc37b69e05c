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
	"net/http"
	"strconv"

	"github.com/wso2/identity-reconciliation-service/internal/contact/model"
	"github.com/wso2/identity-reconciliation-service/internal/contact/store"
	"github.com/wso2/identity-reconciliation-service/internal/system/config"
	syscontext "github.com/wso2/identity-reconciliation-service/internal/system/context"
	"github.com/wso2/identity-reconciliation-service/internal/system/database/lock"
	errors2 "github.com/wso2/identity-reconciliation-service/internal/system/errors"
	"github.com/wso2/identity-reconciliation-service/internal/system/log"
)

type ContactServiceInterface interface {
	Reconcile(ctx context.Context, email, phoneNumber string) (*model.IdentifyResponse, error)
	Ready(ctx context.Context) error
}

// ContactService links contact observations into groups that share one primary contact.
type ContactService struct {
	store      store.ContactStoreInterface
	lock       lock.DistributedLock
	lockKey    string
	normalizer IdentityNormalizer
}

func NewContactService(contactStore store.ContactStoreInterface, reconcileLock lock.DistributedLock,
	lockKey string, identityConfig config.IdentityConfig) *ContactService {

	if reconcileLock == nil {
		reconcileLock = lock.NoopLock{}
	}
	return &ContactService{
		store:      contactStore,
		lock:       reconcileLock,
		lockKey:    lockKey,
		normalizer: NewIdentityNormalizer(identityConfig),
	}
}

// reconciliation records what one call changed, for audit logging once it has committed.
type reconciliation struct {
	response  model.IdentifyResponse
	created   *model.Contact
	primaryId int64
	relinked  []int64
}

// Reconcile matches the observation against stored contacts, merges the groups it touches, stores it
// when it carries new information and returns the consolidated group.
func (cs *ContactService) Reconcile(ctx context.Context, email, phoneNumber string) (*model.IdentifyResponse, error) {

	email = cs.normalizer.Email(email)
	phoneNumber = cs.normalizer.PhoneNumber(phoneNumber)
	if email == "" && phoneNumber == "" {
		return nil, errors2.NewClientError(errors2.MISSING_IDENTIFIER, http.StatusBadRequest)
	}

	logger := log.GetLogger()
	if err := cs.lock.Acquire(ctx, cs.lockKey); err != nil {
		return nil, err
	}
	defer func() {
		if err := cs.lock.Release(context.WithoutCancel(ctx), cs.lockKey); err != nil {
			logger.Error("Failed to release reconciliation lock", log.String("key", cs.lockKey), log.Error(err))
		}
	}()

	var result *reconciliation
	err := cs.store.RunInTransaction(ctx, func(tx store.ContactTx) error {
		var err error
		result, err = reconcile(tx, email, phoneNumber)
		return err
	})
	if err != nil {
		return nil, err
	}

	cs.audit(ctx, result)
	return &result.response, nil
}

// Ready reports whether the backing store is reachable.
func (cs *ContactService) Ready(ctx context.Context) error {
	return cs.store.Ping(ctx)
}

func reconcile(tx store.ContactTx, email, phoneNumber string) (*reconciliation, error) {

	matches, err := tx.FindByEmailOrPhone(email, phoneNumber)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		primary, err := tx.Insert(model.NewPrimaryContact(email, phoneNumber))
		if err != nil {
			return nil, err
		}
		return &reconciliation{
			response:  projectGroup(primary, []model.Contact{primary}),
			created:   &primary,
			primaryId: primary.Id,
		}, nil
	}

	group, err := closeGroup(tx, matches)
	if err != nil {
		return nil, err
	}

	primary, relinked, err := resolveMerge(tx, group)
	if err != nil {
		return nil, err
	}

	created, err := insertIfNew(tx, primary, group, matches, email, phoneNumber)
	if err != nil {
		return nil, err
	}
	if created != nil {
		group = append(group, *created)
	}

	return &reconciliation{
		response:  projectGroup(primary, group),
		created:   created,
		primaryId: primary.Id,
		relinked:  relinked,
	}, nil
}

// closeGroup expands the matched contacts to every contact reachable through id / linked id edges.
// It iterates to a fixed point, so chains of any depth are found.
func closeGroup(tx store.ContactTx, matches []model.Contact) ([]model.Contact, error) {

	seen := map[int64]bool{}
	var frontier []int64
	visit := func(c model.Contact) {
		if !seen[c.Id] {
			seen[c.Id] = true
			frontier = append(frontier, c.Id)
		}
		if c.LinkedId != nil && !seen[*c.LinkedId] {
			seen[*c.LinkedId] = true
			frontier = append(frontier, *c.LinkedId)
		}
	}
	for _, c := range matches {
		visit(c)
	}

	closed := map[int64]model.Contact{}
	for len(frontier) > 0 {
		batch := frontier
		frontier = nil
		found, err := tx.FindByIdsOrLinkedIds(batch)
		if err != nil {
			return nil, err
		}
		for _, c := range found {
			closed[c.Id] = c
			visit(c)
		}
	}

	group := make([]model.Contact, 0, len(closed))
	for _, c := range closed {
		group = append(group, c)
	}
	model.SortContacts(group)
	return group, nil
}

// resolveMerge keeps the oldest contact of the group as its primary and links every other contact
// directly to it. Demoted primaries and contacts still linked elsewhere are rewritten in one update.
// The returned ids are those that were rewritten; group is updated in place to match the store.
func resolveMerge(tx store.ContactTx, group []model.Contact) (model.Contact, []int64, error) {

	if len(group) == 0 {
		return model.Contact{}, nil, invariantViolation("Matched contacts resolved to an empty contact group")
	}
	primaries := 0
	for _, c := range group {
		if c.IsPrimary() {
			primaries++
		}
	}
	if primaries == 0 {
		return model.Contact{}, nil, invariantViolation(fmt.Sprintf(
			"Contact group of %d contacts starting at id %d has no primary contact", len(group), group[0].Id))
	}

	primary := group[0]
	if !primary.IsPrimary() {
		return model.Contact{}, nil, invariantViolation(fmt.Sprintf(
			"Oldest contact %d of the group is not a primary contact", primary.Id))
	}

	var relink []int64
	for _, c := range group[1:] {
		if c.IsPrimary() || !c.LinksTo(primary.Id) {
			relink = append(relink, c.Id)
		}
	}
	if len(relink) == 0 {
		return primary, nil, nil
	}

	if err := tx.UpdateDemote(relink, primary.Id); err != nil {
		return model.Contact{}, nil, err
	}
	updated := make(map[int64]bool, len(relink))
	for _, id := range relink {
		updated[id] = true
	}
	for i := range group {
		if updated[group[i].Id] {
			demoted := model.NewSecondaryContact(group[i].Email, group[i].PhoneNumber, primary.Id)
			group[i].LinkedId = demoted.LinkedId
			group[i].LinkPrecedence = demoted.LinkPrecedence
		}
	}
	return primary, relink, nil
}

// insertIfNew stores the observation as a secondary of primary when it brings an email or phone
// number the group does not have yet, unless a matched contact already holds exactly this pair.
func insertIfNew(tx store.ContactTx, primary model.Contact, group, matches []model.Contact,
	email, phoneNumber string) (*model.Contact, error) {

	emails := map[string]bool{}
	phoneNumbers := map[string]bool{}
	for _, c := range group {
		if c.Email != "" {
			emails[c.Email] = true
		}
		if c.PhoneNumber != "" {
			phoneNumbers[c.PhoneNumber] = true
		}
	}

	isNewInfo := (email != "" && !emails[email]) || (phoneNumber != "" && !phoneNumbers[phoneNumber])
	if !isNewInfo {
		return nil, nil
	}
	for _, c := range matches {
		if c.Email == email && c.PhoneNumber == phoneNumber {
			return nil, nil
		}
	}

	created, err := tx.Insert(model.NewSecondaryContact(email, phoneNumber, primary.Id))
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// projectGroup builds the response for a resolved group. The primary's own email and phone number
// come first; every other value and id follows in (CreatedAt, Id) order.
func projectGroup(primary model.Contact, group []model.Contact) model.IdentifyResponse {

	ordered := make([]model.Contact, len(group))
	copy(ordered, group)
	model.SortContacts(ordered)

	projection := model.ContactProjection{
		PrimaryContactId:    primary.Id,
		Emails:              []string{},
		PhoneNumbers:        []string{},
		SecondaryContactIds: []int64{},
	}
	seenEmails := map[string]bool{}
	seenPhoneNumbers := map[string]bool{}
	addValues := func(c model.Contact) {
		if c.Email != "" && !seenEmails[c.Email] {
			seenEmails[c.Email] = true
			projection.Emails = append(projection.Emails, c.Email)
		}
		if c.PhoneNumber != "" && !seenPhoneNumbers[c.PhoneNumber] {
			seenPhoneNumbers[c.PhoneNumber] = true
			projection.PhoneNumbers = append(projection.PhoneNumbers, c.PhoneNumber)
		}
	}

	addValues(primary)
	for _, c := range ordered {
		addValues(c)
		if c.Id != primary.Id {
			projection.SecondaryContactIds = append(projection.SecondaryContactIds, c.Id)
		}
	}
	return model.IdentifyResponse{Contact: projection}
}

func invariantViolation(description string) error {
	log.GetLogger().Error(description)
	return errors2.NewStoreError(errors2.INVARIANT_VIOLATION, description, fmt.Errorf("%s", description))
}

func (cs *ContactService) audit(ctx context.Context, result *reconciliation) {

	logger := log.GetLogger()
	traceID := syscontext.GetTraceID(ctx)
	if result.created != nil {
		logger.Audit(log.AuditEvent{
			InitiatorType: log.InitiatorTypeClient,
			TargetID:      strconv.FormatInt(result.created.Id, 10),
			TargetType:    log.TargetTypeContact,
			ActionID:      log.ActionAddContact,
			TraceID:       traceID,
			Data: map[string]string{
				"link_precedence":    result.created.LinkPrecedence,
				"primary_contact_id": strconv.FormatInt(result.primaryId, 10),
			},
		})
	}
	if len(result.relinked) > 0 {
		logger.Audit(log.AuditEvent{
			InitiatorType: log.InitiatorTypeSystem,
			TargetID:      strconv.FormatInt(result.primaryId, 10),
			TargetType:    log.TargetTypeContact,
			ActionID:      log.ActionMergeContacts,
			TraceID:       traceID,
			Data: map[string]interface{}{
				"relinked_contact_ids": result.relinked,
			},
		})
	}
}
