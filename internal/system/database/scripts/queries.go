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

package scripts

const contactColumns = `id, email, phone_number, linked_id, link_precedence, created_at, updated_at`

// FindContactsByEmailOrPhone takes the match clause as its only format verb. The clause is built from
// fixed column names; values are always bound as parameters.
var FindContactsByEmailOrPhone = map[string]string{
	"postgres": `SELECT ` + contactColumns + ` FROM contact WHERE %s ORDER BY created_at, id`,
}

var FindContactsByIdsOrLinkedIds = map[string]string{
	"postgres": `SELECT ` + contactColumns + ` FROM contact WHERE id = ANY($1) OR linked_id = ANY($1)
		ORDER BY created_at, id`,
}

var InsertContact = map[string]string{
	"postgres": `INSERT INTO contact (email, phone_number, linked_id, link_precedence)
		VALUES ($1, $2, $3, $4) RETURNING ` + contactColumns,
}

var DemoteContacts = map[string]string{
	"postgres": `UPDATE contact SET link_precedence = 'secondary', linked_id = $1, updated_at = NOW()
		WHERE id = ANY($2)`,
}

var AcquireReconcileLock = map[string]string{
	"postgres": `SELECT pg_advisory_xact_lock($1)`,
}

var Ping = map[string]string{
	"postgres": `SELECT 1`,
}
