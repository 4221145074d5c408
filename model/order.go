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

package model

import "github.com/uptrace/bun"

// Order belongs to exactly one user. UserID is set when the owning user is
// flushed and never changes afterwards.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID     int64  `bun:"id,pk,autoincrement" json:"order_id"`
	UserID int64  `bun:"user_id,notnull" json:"user_id"`
	Data   string `bun:"data" json:"data"`
	User   *User  `bun:"rel:belongs-to,join:user_id=id" json:"-"`
}
