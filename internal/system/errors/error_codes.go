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

package errors

const errorPrefix = "IRS-"

var (
	// Server error codes

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Unable to initialize the database client.",
	}

	EXECUTE_QUERY = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while executing the database query.",
	}

	TX_BEGIN = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Unable to begin the reconciliation transaction.",
	}

	TX_COMMIT = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Unable to commit the reconciliation transaction.",
	}

	TX_ROLLBACK = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Unable to roll back the reconciliation transaction.",
	}

	FETCH_CONTACTS = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while fetching contacts.",
	}

	ADD_CONTACT = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while adding contact.",
	}

	DEMOTE_CONTACTS = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while linking contacts to the primary contact.",
	}

	LOCK_KEY_GEN = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while generating the reconciliation lock key.",
	}

	LOCK_ACQUIRE = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Unable to acquire the reconciliation lock.",
	}

	LOCK_RELEASE = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Unable to release the reconciliation lock.",
	}

	INVARIANT_VIOLATION = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Contact group is in an inconsistent state.",
	}

	UNSUPPORTED_STORE = ErrorMessage{
		Code:    errorPrefix + "15013",
		Message: "Unsupported datasource type.",
	}

	// Client error codes

	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "10001",
		Message: "Invalid request.",
	}

	MISSING_IDENTIFIER = ErrorMessage{
		Code:        errorPrefix + "10002",
		Message:     "Missing contact identifier.",
		Description: "Either email or phoneNumber must be provided.",
	}

	INVALID_IDENTIFIER = ErrorMessage{
		Code:        errorPrefix + "10003",
		Message:     "Invalid contact identifier.",
		Description: "The email or phoneNumber value exceeds its length limit.",
	}
)
