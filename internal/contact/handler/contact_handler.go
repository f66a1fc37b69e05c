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

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/wso2/identity-reconciliation-service/internal/contact/model"
	"github.com/wso2/identity-reconciliation-service/internal/contact/service"
	"github.com/wso2/identity-reconciliation-service/internal/system/constants"
	errors2 "github.com/wso2/identity-reconciliation-service/internal/system/errors"
	"github.com/wso2/identity-reconciliation-service/internal/system/log"
	"github.com/wso2/identity-reconciliation-service/internal/system/utils"
)

const maxRequestBodyBytes = 1 << 16

type ContactHandler struct {
	service service.ContactServiceInterface
}

func NewContactHandler(contactService service.ContactServiceInterface) *ContactHandler {

	return &ContactHandler{
		service: contactService,
	}
}

// Identify handles POST /identify
func (ch *ContactHandler) Identify(w http.ResponseWriter, r *http.Request) {

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var request model.IdentifyRequest
	if err := decoder.Decode(&request); err != nil {
		description := utils.HandleDecodeError(err, constants.IdentifyRequestResource)
		if errors.Is(err, model.ErrInvalidPhoneNumber) {
			description = fmt.Sprintf("Invalid type for field 'phoneNumber' in %s request body.",
				constants.IdentifyRequestResource)
		}
		utils.WriteBadRequestErrorResponse(w, errors2.BAD_REQUEST, description)
		return
	}
	if err := request.Validate(); err != nil {
		utils.HandleError(w, err)
		return
	}

	response, err := ch.service.Reconcile(r.Context(), request.EmailValue(), string(request.PhoneNumber))
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	log.GetLogger().Debug("Contact reconciled",
		log.Int64("primary_contact_id", response.Contact.PrimaryContactId),
		log.Int("secondary_contacts", len(response.Contact.SecondaryContactIds)))
	utils.RespondJSON(w, http.StatusOK, response)
}
