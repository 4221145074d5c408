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

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"

	"github.com/tomoncle/orderbook/session"
	"github.com/tomoncle/orderbook/types"
)

type baseRepositoryImpl[T any] struct {
	uow *session.UnitOfWork
}

// NewRepository returns a generic repository bound to uow.
func NewRepository[T any](uow *session.UnitOfWork) Repository[T] {
	return &baseRepositoryImpl[T]{uow: uow}
}

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.uow.IDB().Dialect() }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.uow.NewSelect() }

func (r *baseRepositoryImpl[T]) GetOne(ctx context.Context, id any) (*T, error) {
	var entity T
	if err := r.uow.Query(ctx, &entity, types.NewQueryFilter("?TableAlias.id = ?", id)); err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[T]) GetAll(ctx context.Context, order ...string) ([]*T, error) {
	return r.List(ctx, nil, order...)
}

func (r *baseRepositoryImpl[T]) List(ctx context.Context, filter *types.QueryFilter, order ...string) ([]*T, error) {
	entities := make([]*T, 0)
	if err := r.uow.Query(ctx, &entities, filter, order...); err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) Query(ctx context.Context, query string, args ...interface{}) ([]*T, error) {
	return r.List(ctx, types.NewQueryFilter(query, args...))
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context, filter *types.QueryFilter) (int, error) {
	if err := r.uow.Err(); err != nil {
		return 0, err
	}
	query := r.uow.NewSelect().Model((*T)(nil))
	if filter != nil && filter.Schema != "" {
		query = query.Where(filter.Schema, filter.Args...)
	}
	n, err := query.Count(r.uow.Bind(ctx))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", session.ErrQueryFailed, err)
	}
	return n, nil
}

func (r *baseRepositoryImpl[T]) Create(entity ...*T) error {
	models := make([]interface{}, len(entity))
	for i, e := range entity {
		models[i] = e
	}
	return r.uow.Stage(models...)
}

func (r *baseRepositoryImpl[T]) Update(entity *T, columns ...string) error {
	return r.uow.StageUpdate(entity, columns...)
}
