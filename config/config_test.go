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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orderbook.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout.Duration())
	assert.Equal(t, "sqlite", cfg.Database.ConnectionConfig.Type)
	assert.True(t, cfg.Database.DataMigrateConfig.EnableMigrateOnStartup)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
http:
  port: "9090"
  read_timeout: 5
  idle_timeout: 2m
log:
  level: debug
database:
  connection:
    type: postgres
    host: db.internal
    port: 5432
    dbname: orders
    max_open_conns: 4
    acquire_timeout: 250ms
    reconnect_interval: 3
  migrate:
    enable_migrate_on_startup: false
`)
	t.Setenv("DB_HOST", "override.internal")
	t.Setenv("HTTP_WRITE_TIMEOUT", "7")
	t.Setenv("DB_CONNECT_TIMEOUT", "5")
	t.Setenv("DB_SLOW_QUERY_TIME", "750ms")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout.Duration())
	assert.Equal(t, 7*time.Second, cfg.HTTP.WriteTimeout.Duration())
	assert.Equal(t, 2*time.Minute, cfg.HTTP.IdleTimeout.Duration())
	assert.Equal(t, "debug", cfg.Log.Level)

	conn := cfg.Database.ConnectionConfig
	assert.Equal(t, "postgres", conn.Type)
	assert.Equal(t, "override.internal", conn.Host)
	assert.Equal(t, 5432, conn.Port)
	assert.Equal(t, "orders", conn.DBName)
	assert.Equal(t, 4, conn.MaxOpenConns)
	assert.Equal(t, 250*time.Millisecond, conn.AcquireTimeout.Duration())
	assert.Equal(t, 5*time.Second, conn.ConnectTimeout.Duration())
	assert.Equal(t, 750*time.Millisecond, conn.SlowQueryTime.Duration())
	assert.Equal(t, 3*time.Second, conn.ReconnectInterval.Duration())
	// Untouched keys keep their defaults.
	assert.Equal(t, time.Hour, conn.ConnMaxLifetime.Duration())
	assert.False(t, cfg.Database.DataMigrateConfig.EnableMigrateOnStartup)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "http: [port"},
		{"bad duration", "http:\n  read_timeout: soon\n"},
		{"bad db duration", "database:\n  connection:\n    acquire_timeout: soon\n"},
		{"unknown store", "database:\n  connection:\n    type: oracle\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
