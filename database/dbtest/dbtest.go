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

// Package dbtest opens throwaway in-memory SQLite stores with the orderbook
// schema for tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/orderbook/database"
	"github.com/tomoncle/orderbook/model"
)

// Config returns an in-memory SQLite config whose database name is unique to
// t, with a pool of poolSize connections.
func Config(t testing.TB, poolSize int) *database.Config {
	cfg := database.DefaultConfig()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg.ConnectionConfig.Type = "sqlite"
	cfg.ConnectionConfig.DBName = fmt.Sprintf("%s_%s", name, uuid.NewString())
	cfg.ConnectionConfig.InMemory = true
	cfg.ConnectionConfig.MaxOpenConns = poolSize
	cfg.ConnectionConfig.MaxIdleConns = poolSize
	cfg.ConnectionConfig.HealthCheckInterval = 0
	cfg.ConnectionConfig.EnableReconnect = false
	cfg.ConnectionConfig.EnableQueryLog = false
	return cfg
}

// Open connects a manager for cfg, creates the schema and disconnects when
// the test ends.
func Open(t testing.TB, cfg *database.Config) database.AbstractDatabaseManager {
	t.Helper()
	m := database.NewDatabaseManager(cfg)
	model.Register(m)
	require.NoError(t, m.Connect(context.Background()))
	t.Cleanup(func() { _ = m.Disconnect() })
	require.NoError(t, m.RunMigrations(context.Background()))
	return m
}

// New is Open with Config(t, poolSize).
func New(t testing.TB, poolSize int) database.AbstractDatabaseManager {
	t.Helper()
	return Open(t, Config(t, poolSize))
}
