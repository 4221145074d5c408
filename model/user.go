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

import (
	"time"

	"github.com/uptrace/bun"
)

// User owns zero or more orders. ID and CreateDate are assigned by the store
// when the row is flushed.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID         int64     `bun:"id,pk,autoincrement" json:"user_id"`
	Email      string    `bun:"email" json:"email"`
	Password   string    `bun:"password" json:"password"`
	Data       string    `bun:"data" json:"data"`
	CreateDate time.Time `bun:"create_date,nullzero,notnull,default:current_timestamp" json:"create_date"`
	Orders     []*Order  `bun:"rel:has-many,join:id=user_id" json:"orders"`
}

// StagedChildren returns the orders to insert right after the user row,
// pointing each of them at the freshly assigned user id.
func (u *User) StagedChildren() []interface{} {
	if len(u.Orders) == 0 {
		return nil
	}
	for _, order := range u.Orders {
		order.UserID = u.ID
		order.User = u
	}
	return []interface{}{&u.Orders}
}
