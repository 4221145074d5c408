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
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/tomoncle/orderbook/database"
	"github.com/tomoncle/orderbook/model"
	"github.com/tomoncle/orderbook/repository"
	"github.com/tomoncle/orderbook/session"
)

// UserService implements the user and order operations behind the HTTP
// routes. Every operation uses its own unit of work.
type UserService struct {
	Service[model.User]

	manager  database.AbstractDatabaseManager
	sessions *session.SessionFactory
	logger   database.Logger
}

func NewUserService(manager database.AbstractDatabaseManager, sessions *session.SessionFactory, logger database.Logger) *UserService {
	if logger == nil {
		logger = database.NopLogger{}
	}
	return &UserService{
		Service:  NewService[model.User](sessions),
		manager:  manager,
		sessions: sessions,
		logger:   logger,
	}
}

// CreateTables recreates the schema and seeds three users owning two, one
// and two orders. The first user's data is then rewritten in a second unit
// of work.
func (s *UserService) CreateTables(ctx context.Context) error {
	if err := s.manager.ResetSchema(ctx); err != nil {
		return fmt.Errorf("reset schema: %w", err)
	}

	seed := []*model.User{
		newSeedUser("u1", 2),
		newSeedUser("u2", 1),
		newSeedUser("u3", 2),
	}
	if err := s.Save(ctx, seed...); err != nil {
		return err
	}

	return s.sessions.Run(ctx, func(ctx context.Context, uow *session.UnitOfWork) error {
		users, err := repository.LoadUsersWithOrders(ctx, uow, "u.id ASC")
		if err != nil {
			return err
		}
		for _, u := range users {
			s.logger.Debug("Seeded user", "user_id", u.ID, "data", u.Data, "created_at", u.CreateDate, "orders", len(u.Orders))
		}
		if len(users) == 0 {
			return nil
		}

		first := users[0]
		first.Data = "new data"
		return repository.NewRepository[model.User](uow).Update(first, "data")
	})
}

// ListUsers returns every user with its orders, ordered by user id.
func (s *UserService) ListUsers(ctx context.Context) (users []*model.User, err error) {
	err = s.sessions.Run(ctx, func(ctx context.Context, uow *session.UnitOfWork) error {
		users, err = repository.LoadUsersWithOrders(ctx, uow, "u.id ASC")
		return err
	})
	return users, err
}

// AddUser stores a user with one generated order and returns it with its
// assigned ids and creation date.
func (s *UserService) AddUser(ctx context.Context, email, password string) (*model.User, error) {
	switch {
	case strings.TrimSpace(email) == "":
		return nil, fmt.Errorf("%w: email is required", session.ErrValidationFailed)
	case password == "":
		return nil, fmt.Errorf("%w: password is required", session.ErrValidationFailed)
	}

	user := &model.User{
		Email:    email,
		Password: password,
		Data:     fmt.Sprintf("user_%d", randSuffix()),
		Orders:   []*model.Order{{Data: fmt.Sprintf("order_%d", randSuffix())}},
	}
	if err := s.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User added", "user_id", user.ID, "orders", len(user.Orders))
	return user, nil
}

// Health pings the store.
func (s *UserService) Health(ctx context.Context) *database.HealthStatus {
	return s.manager.HealthCheck(ctx)
}

func newSeedUser(data string, orders int) *model.User {
	u := &model.User{
		Email:    fmt.Sprintf("test_%d@gmail.com", randSuffix()),
		Password: fmt.Sprintf("pass_%d", randSuffix()),
		Data:     data,
		Orders:   make([]*model.Order, orders),
	}
	for i := range u.Orders {
		u.Orders[i] = &model.Order{}
	}
	return u
}

// randSuffix returns a value in [1, 10000].
func randSuffix() int {
	return rand.IntN(10000) + 1
}
