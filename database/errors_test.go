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

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSqlError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		is     bool
		kind   SQLError
		strict bool
	}{
		{"nil", nil, false, UnknownErr, false},
		{"no rows", fmt.Errorf("get user: %w", sql.ErrNoRows), true, NoRowsErr, false},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true, DuplicateKeyErr, true},
		{"mysql fk", &mysql.MySQLError{Number: 1452}, true, ForeignKeyViolationErr, true},
		{"mysql unknown", &mysql.MySQLError{Number: 9999}, true, UnknownErr, false},
		{"pq unique", &pq.Error{Code: "23505"}, true, DuplicateKeyErr, true},
		{"pq fk", &pq.Error{Code: "23503"}, true, ForeignKeyViolationErr, true},
		{"pq missing table", &pq.Error{Code: "42P01"}, true, NoTableErr, false},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"), true, DuplicateKeyErr, true},
		{"sqlite fk", errors.New("FOREIGN KEY constraint failed"), true, ForeignKeyViolationErr, true},
		{"sqlite not null", errors.New("NOT NULL constraint failed: orders.user_id"), true, NotNullViolationErr, true},
		{"sqlite missing table", errors.New("SQL logic error: no such table: ghosts (1)"), true, NoTableErr, false},
		{"not a db error", errors.New("boom"), false, UnknownErr, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is, kind := IsSqlError(tt.err)
			assert.Equal(t, tt.is, is)
			assert.Equal(t, tt.kind, kind, kind.String())
			assert.Equal(t, tt.strict, kind.IsConstraintViolation())
		})
	}
}

func TestIsSqlError_Wrapped(t *testing.T) {
	write := errors.New("write failed")
	err := fmt.Errorf("%w: User: %w", write, &pq.Error{Code: "23505"})

	is, kind := IsSqlError(err)
	assert.True(t, is)
	assert.Equal(t, DuplicateKeyErr, kind)
	assert.Equal(t, "duplicate_key", kind.String())
}

func TestSQLError_String(t *testing.T) {
	assert.Equal(t, "foreign_key_violation", ForeignKeyViolationErr.String())
	assert.Equal(t, "unknown", SQLError(999).String())
}
