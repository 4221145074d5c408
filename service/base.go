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

package service

import (
	"context"

	"github.com/tomoncle/orderbook/repository"
	"github.com/tomoncle/orderbook/session"
	"github.com/tomoncle/orderbook/types"
)

// Service runs each call in its own unit of work.
type Service[T any] interface {
	// Get returns a single entity by its identifier.
	Get(ctx context.Context, id any) (*T, error)

	// All returns all entities in the given order.
	All(ctx context.Context, order ...string) ([]*T, error)

	// List returns entities that match the provided filter.
	List(ctx context.Context, filter *types.QueryFilter, order ...string) ([]*T, error)

	// Count returns the number of entities that match the filter.
	Count(ctx context.Context, filter *types.QueryFilter) (int, error)

	// Save inserts entities and commits. Server-assigned columns are
	// written back onto them.
	Save(ctx context.Context, model ...*T) error

	// Update writes the given columns of an existing entity, or all of them.
	Update(ctx context.Context, model *T, columns ...string) error
}

type baseServiceImpl[T any] struct {
	sessions *session.SessionFactory
}

// NewService returns a Service whose calls check out units of work from
// sessions.
func NewService[T any](sessions *session.SessionFactory) Service[T] {
	return &baseServiceImpl[T]{sessions: sessions}
}

func (s *baseServiceImpl[T]) withRepo(ctx context.Context, fn func(ctx context.Context, repo repository.Repository[T]) error) error {
	return s.sessions.Run(ctx, func(ctx context.Context, uow *session.UnitOfWork) error {
		return fn(ctx, repository.NewRepository[T](uow))
	})
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, id any) (entity *T, err error) {
	err = s.withRepo(ctx, func(ctx context.Context, repo repository.Repository[T]) error {
		entity, err = repo.GetOne(ctx, id)
		return err
	})
	return entity, err
}

func (s *baseServiceImpl[T]) All(ctx context.Context, order ...string) ([]*T, error) {
	return s.List(ctx, nil, order...)
}

func (s *baseServiceImpl[T]) List(ctx context.Context, filter *types.QueryFilter, order ...string) (entities []*T, err error) {
	err = s.withRepo(ctx, func(ctx context.Context, repo repository.Repository[T]) error {
		entities, err = repo.List(ctx, filter, order...)
		return err
	})
	return entities, err
}

func (s *baseServiceImpl[T]) Count(ctx context.Context, filter *types.QueryFilter) (n int, err error) {
	err = s.withRepo(ctx, func(ctx context.Context, repo repository.Repository[T]) error {
		n, err = repo.Count(ctx, filter)
		return err
	})
	return n, err
}

func (s *baseServiceImpl[T]) Save(ctx context.Context, model ...*T) error {
	return s.withRepo(ctx, func(_ context.Context, repo repository.Repository[T]) error {
		return repo.Create(model...)
	})
}

func (s *baseServiceImpl[T]) Update(ctx context.Context, model *T, columns ...string) error {
	return s.withRepo(ctx, func(_ context.Context, repo repository.Repository[T]) error {
		return repo.Update(model, columns...)
	})
}
