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

package repository

import (
	"context"
	"fmt"

	"github.com/tomoncle/orderbook/model"
	"github.com/tomoncle/orderbook/session"
)

// LoadUsersWithOrders returns every user with its orders populated. Orders
// come from a single IN query keyed by the loaded user ids, so the load
// costs two statements however many users there are. Users without orders
// get an empty, non-nil slice. Rows are unsorted unless order is given.
func LoadUsersWithOrders(ctx context.Context, uow *session.UnitOfWork, order ...string) ([]*model.User, error) {
	if err := uow.Err(); err != nil {
		return nil, err
	}

	users := make([]*model.User, 0)
	query := uow.NewSelect().Model(&users).Relation("Orders")
	if len(order) > 0 {
		query = query.Order(order...)
	}
	if err := query.Scan(uow.Bind(ctx)); err != nil {
		return nil, fmt.Errorf("%w: load users with orders: %w", session.ErrQueryFailed, err)
	}

	for _, user := range users {
		if user.Orders == nil {
			user.Orders = make([]*model.Order, 0)
		}
		for _, o := range user.Orders {
			o.User = user
		}
	}
	return users, nil
}
