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

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"

	"github.com/tomoncle/orderbook/types"
)

// ReadRepository reads entities inside the bound unit of work.
type ReadRepository[T any] interface {
	GetOne(ctx context.Context, id any) (*T, error)

	GetAll(ctx context.Context, order ...string) ([]*T, error)

	List(ctx context.Context, filter *types.QueryFilter, order ...string) ([]*T, error)

	Query(ctx context.Context, query string, args ...interface{}) ([]*T, error)

	Count(ctx context.Context, filter *types.QueryFilter) (int, error)
}

// WriteRepository stages writes on the bound unit of work. They reach the
// store on Commit.
type WriteRepository[T any] interface {
	Create(entity ...*T) error
	Update(entity *T, columns ...string) error
}

// Repository combines reads and staged writes and exposes the Bun select
// builder of the underlying transaction.
type Repository[T any] interface {
	ReadRepository[T]
	WriteRepository[T]
	Dialect() schema.Dialect
	NewSelect() *bun.SelectQuery
}
