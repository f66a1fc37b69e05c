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

package model

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	errors2 "github.com/wso2/identity-reconciliation-service/internal/system/errors"
)

var identifyValidator = newIdentifyValidator()

func newIdentifyValidator() *validator.Validate {

	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// Normalize trims both identifiers. An email that is blank after trimming is treated as absent.
func (r *IdentifyRequest) Normalize() {

	email := strings.TrimSpace(r.EmailValue())
	if email == "" {
		r.Email = nil
	} else {
		r.Email = &email
	}
	r.PhoneNumber = PhoneNumber(strings.TrimSpace(string(r.PhoneNumber)))
}

// Validate normalizes the request and checks the identifier length limits. Emails are opaque
// identifiers, so their format is not checked. The returned error is a *errors.ClientError.
func (r *IdentifyRequest) Validate() error {

	r.Normalize()
	if err := identifyValidator.Struct(r); err != nil {
		return errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.INVALID_IDENTIFIER.Code,
			Message:     errors2.INVALID_IDENTIFIER.Message,
			Description: describeValidationError(err),
		}, http.StatusBadRequest)
	}
	return nil
}

func describeValidationError(err error) string {

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errors2.INVALID_IDENTIFIER.Description
	}
	problems := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		switch fe.Tag() {
		case "max":
			problems = append(problems, fmt.Sprintf("'%s' must be at most %s characters", fe.Field(), fe.Param()))
		default:
			problems = append(problems, fmt.Sprintf("'%s' failed the '%s' check", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(problems, "; ") + "."
}
