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

package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/orderbook/database"
	"github.com/tomoncle/orderbook/database/dbtest"
	"github.com/tomoncle/orderbook/model"
)

func TestManager_ConnectAndHealth(t *testing.T) {
	m := dbtest.New(t, 3)
	ctx := context.Background()

	require.NoError(t, m.Ping(ctx))
	status := m.HealthCheck(ctx)
	assert.True(t, status.Healthy)
	assert.Equal(t, 3, status.MaxOpenConns)

	stats := m.GetStats()
	require.NotNil(t, stats)
	assert.Equal(t, 3, stats.MaxOpenConns)
	assert.NotNil(t, m.GetSQLDB())
}

func TestManager_Disconnect(t *testing.T) {
	m := database.NewDatabaseManager(dbtest.Config(t, 2))
	model.Register(m)
	require.NoError(t, m.Connect(context.Background()))
	require.NoError(t, m.Disconnect())

	status := m.HealthCheck(context.Background())
	assert.False(t, status.Healthy)
	assert.Error(t, m.RunMigrations(context.Background()))
}

func TestManager_UnsupportedType(t *testing.T) {
	cfg := dbtest.Config(t, 1)
	cfg.ConnectionConfig.Type = "oracle"
	m := database.NewDatabaseManager(cfg)
	assert.Error(t, m.Connect(context.Background()))
}

func TestMigrations_Idempotent(t *testing.T) {
	m := dbtest.New(t, 2)
	ctx := context.Background()

	require.NoError(t, m.RunMigrations(ctx))
	mm := database.NewMigrationManager(m.GetDB(), nil, database.DefaultConfig().DataMigrateConfig, registryOf(), nil)
	applied, err := mm.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, "001", applied[0].Version)
}

func TestForeignKeyEnforced(t *testing.T) {
	m := dbtest.New(t, 2)
	ctx := context.Background()

	_, err := m.GetDB().NewInsert().Model(&model.Order{UserID: 999, Data: "orphan"}).Exec(ctx)
	require.Error(t, err)
	is, kind := database.IsSqlError(err)
	assert.True(t, is)
	assert.Equal(t, database.ForeignKeyViolationErr, kind)
}

func TestResetSchema(t *testing.T) {
	m := dbtest.New(t, 2)
	ctx := context.Background()
	db := m.GetDB()

	user := &model.User{Email: "a@x.com"}
	_, err := db.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(&model.Order{UserID: user.ID}).Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, m.ResetSchema(ctx))

	n, err := db.NewSelect().Model((*model.User)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = db.NewSelect().Model((*model.Order)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStatementCounterHook(t *testing.T) {
	m := dbtest.New(t, 2)
	db := m.GetDB()

	var counter database.StatementCounter
	ctx := database.WithStatementCounter(context.Background(), &counter)
	for i := 0; i < 3; i++ {
		_, err := db.NewSelect().Model((*model.User)(nil)).Count(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(3), counter.Load())

	// Statements run without a counter are not attributed to it.
	_, err := db.NewSelect().Model((*model.User)(nil)).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), counter.Load())

	got, ok := database.StatementCounterFrom(ctx)
	require.True(t, ok)
	assert.Same(t, &counter, got)
}

func registryOf() database.ModelRegistry {
	r := database.NewModelRegistry()
	r.Register(model.Models()...)
	return r
}
