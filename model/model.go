/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package model declares the users and orders tables and their relation.
package model

import "github.com/tomoncle/orderbook/database"

const (
	usersPriority  = 10
	ordersPriority = 20
)

// Models returns the models managed by migrations, parents first.
func Models() []database.SQLModel {
	return []database.SQLModel{
		database.NewModelAdapter((*User)(nil), usersPriority),
		database.NewModelAdapter((*Order)(nil), ordersPriority),
	}
}

// ForeignKeys returns the constraints between the registered tables.
// Deleting a user that still owns orders is rejected.
func ForeignKeys() []database.ForeignKeyConstraint {
	return []database.ForeignKeyConstraint{
		{
			Table:           "orders",
			Column:          "user_id",
			ReferenceTable:  "users",
			ReferenceColumn: "id",
			OnDelete:        "RESTRICT",
		},
	}
}

// Register adds the models and their foreign keys to m.
func Register(m database.AbstractDatabaseManager) {
	m.RegisterModels(Models()...)
	m.RegisterForeignKeys(ForeignKeys()...)
}
