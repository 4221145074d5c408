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

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/orderbook/api"
	"github.com/tomoncle/orderbook/database"
	"github.com/tomoncle/orderbook/database/dbtest"
	"github.com/tomoncle/orderbook/model"
	"github.com/tomoncle/orderbook/service"
	"github.com/tomoncle/orderbook/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newServer(t *testing.T) http.Handler {
	t.Helper()
	m := dbtest.New(t, 4)
	svc := service.NewUserService(m, session.NewManagedSessionFactory(m), nil)
	return api.NewRouter(svc, quietLogger())
}

func get(t *testing.T, h http.Handler, target string, out interface{}) int {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func TestCreateTablesThenUsers(t *testing.T) {
	srv := newServer(t)

	var created map[string]string
	require.Equal(t, http.StatusOK, get(t, srv, "/create_tables", &created))
	assert.Equal(t, "tables created successfully", created["result"])

	var users []api.UserResponse
	require.Equal(t, http.StatusOK, get(t, srv, "/users", &users))
	require.Len(t, users, 3)
	for i, want := range []int{2, 1, 2} {
		assert.Len(t, users[i].Orders, want)
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`, users[i].CreateDate)
	}
	assert.Equal(t, "new data", users[0].Data)

	// Reseeding replaces the previous rows.
	require.Equal(t, http.StatusOK, get(t, srv, "/create_tables", nil))
	require.Equal(t, http.StatusOK, get(t, srv, "/users", &users))
	assert.Len(t, users, 3)
}

func TestAddUser(t *testing.T) {
	srv := newServer(t)

	var res map[string]string
	require.Equal(t, http.StatusOK, get(t, srv, "/add_user?email=a@x.com&password=p", &res))
	assert.Equal(t, map[string]string{
		"email":    "a@x.com",
		"password": "p",
		"status":   "user added.",
	}, res)

	var users []api.UserResponse
	require.Equal(t, http.StatusOK, get(t, srv, "/users", &users))
	require.Len(t, users, 1)
	assert.Equal(t, "a@x.com", users[0].Email)
	assert.Equal(t, "p", users[0].Password)
	assert.Regexp(t, `^user_\d+$`, users[0].Data)
	require.Len(t, users[0].Orders, 1)
	assert.NotZero(t, users[0].Orders[0].OrderID)
	assert.Regexp(t, `^order_\d+$`, users[0].Orders[0].Data)
}

func TestAddUser_MissingParams(t *testing.T) {
	srv := newServer(t)

	for _, target := range []string{
		"/add_user",
		"/add_user?email=a@x.com",
		"/add_user?password=p",
		"/add_user?email=&password=p",
	} {
		var res api.ErrorResponse
		assert.Equal(t, http.StatusBadRequest, get(t, srv, target, &res), target)
		assert.NotEmpty(t, res.Error, target)
	}

	var users []api.UserResponse
	require.Equal(t, http.StatusOK, get(t, srv, "/users", &users))
	assert.Empty(t, users)
}

func TestQuerys(t *testing.T) {
	srv := newServer(t)

	var res map[string]string
	require.Equal(t, http.StatusOK, get(t, srv, "/querys?a=1&b=2&a=3", &res))
	assert.Equal(t, map[string]string{"a": "3", "b": "2"}, res)

	require.Equal(t, http.StatusOK, get(t, srv, "/querys", &res))
	assert.Empty(t, res)
}

func TestHealth(t *testing.T) {
	srv := newServer(t)

	var status database.HealthStatus
	require.Equal(t, http.StatusOK, get(t, srv, "/health", &status))
	assert.True(t, status.Healthy)
}

type failingService struct {
	err    error
	health *database.HealthStatus
}

func (f *failingService) CreateTables(context.Context) error { return f.err }

func (f *failingService) ListUsers(context.Context) ([]*model.User, error) { return nil, f.err }

func (f *failingService) AddUser(context.Context, string, string) (*model.User, error) {
	return nil, f.err
}

func (f *failingService) Health(context.Context) *database.HealthStatus { return f.health }

func TestErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"pool exhausted", fmt.Errorf("%w: 10 connections checked out", session.ErrPoolExhausted), http.StatusServiceUnavailable},
		{"duplicate key", fmt.Errorf("%w: User: %w", session.ErrWriteFailed, errors.New("UNIQUE constraint failed: users.email")), http.StatusConflict},
		{"other write failure", fmt.Errorf("%w: commit: %w", session.ErrWriteFailed, errors.New("disk I/O error")), http.StatusInternalServerError},
		{"query failure", fmt.Errorf("%w: boom", session.ErrQueryFailed), http.StatusInternalServerError},
		{"validation", fmt.Errorf("%w: email is required", session.ErrValidationFailed), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := api.NewRouter(&failingService{err: tt.err}, quietLogger())
			for _, target := range []string{"/create_tables", "/users", "/add_user?email=a&password=b"} {
				var res api.ErrorResponse
				assert.Equal(t, tt.want, get(t, srv, target, &res), target)
				assert.Equal(t, tt.err.Error(), res.Error)
			}
		})
	}
}

func TestHealth_Unhealthy(t *testing.T) {
	srv := api.NewRouter(&failingService{health: &database.HealthStatus{LastError: "connection refused"}}, quietLogger())

	var status database.HealthStatus
	assert.Equal(t, http.StatusServiceUnavailable, get(t, srv, "/health", &status))
	assert.Equal(t, "connection refused", status.LastError)
}

func TestRequestID(t *testing.T) {
	srv := api.NewRouter(&failingService{}, quietLogger())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/querys", nil))
	assert.Len(t, rec.Header().Get(api.RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/querys", nil)
	req.Header.Set(api.RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(api.RequestIDHeader))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusOK, api.StatusFor(nil))
	assert.Equal(t, http.StatusGatewayTimeout, api.StatusFor(fmt.Errorf("%w: %w", session.ErrWriteFailed, context.DeadlineExceeded)))
	assert.Equal(t, http.StatusConflict, api.StatusFor(fmt.Errorf("%w: %w", session.ErrWriteFailed, errors.New("FOREIGN KEY constraint failed"))))
	// Constraint text outside a write is not a conflict.
	assert.Equal(t, http.StatusInternalServerError, api.StatusFor(fmt.Errorf("%w: %w", session.ErrQueryFailed, errors.New("FOREIGN KEY constraint failed"))))
	assert.Equal(t, http.StatusServiceUnavailable, api.StatusFor(fmt.Errorf("begin transaction: %w", session.ErrUnavailable)))
}
