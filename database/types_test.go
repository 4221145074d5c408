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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tomoncle/orderbook/database"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"10", 10 * time.Second},
		{"10s", 10 * time.Second},
		{`"5m"`, 5 * time.Minute},
		{" 1h ", time.Hour},
		{"250ms", 250 * time.Millisecond},
	}
	for _, tt := range tests {
		got, err := database.ParseDuration(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "soon", "5 minutes"} {
		_, err := database.ParseDuration(bad)
		assert.Error(t, err, bad)
	}
}

func TestDuration_Decode(t *testing.T) {
	var d database.Duration
	require.NoError(t, d.SetValue("5"))
	assert.Equal(t, 5*time.Second, d.Duration())

	var conn database.ConnectionConfig
	require.NoError(t, yaml.Unmarshal([]byte("acquire_timeout: 2\nslow_query_time: 1500ms\n"), &conn))
	assert.Equal(t, 2*time.Second, conn.AcquireTimeout.Duration())
	assert.Equal(t, 1500*time.Millisecond, conn.SlowQueryTime.Duration())
	assert.Equal(t, "1.5s", conn.SlowQueryTime.String())
}

func TestDefaultConnectionConfig_QueryLogFromEnv(t *testing.T) {
	t.Setenv("DB_ENABLE_QUERY_LOG", "")
	assert.False(t, database.DefaultConnectionConfig().EnableQueryLog)

	t.Setenv("DB_ENABLE_QUERY_LOG", "true")
	assert.True(t, database.DefaultConnectionConfig().EnableQueryLog)
}
