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

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/uptrace/bun"

	"github.com/tomoncle/orderbook/database"
	"github.com/tomoncle/orderbook/types"
)

// Parent is implemented by models that own rows in other tables. The
// returned slice pointers are inserted right after the parent, once the
// parent has its primary key.
type Parent interface {
	StagedChildren() []interface{}
}

type opKind int

const (
	opInsert opKind = iota
	opUpdate
)

type pendingOp struct {
	kind    opKind
	model   interface{}
	columns []string
}

// UnitOfWork is one transaction plus the writes staged against it. It is
// owned by a single request and is not safe for concurrent use.
type UnitOfWork struct {
	factory    *SessionFactory
	tx         bun.Tx
	returning  bool
	pending    []pendingOp
	statements database.StatementCounter
	committed  bool
	finished   bool
	closed     bool
	releaseOne sync.Once
}

// Bind returns ctx tagged so that statements run with it are counted
// against this unit of work.
func (u *UnitOfWork) Bind(ctx context.Context) context.Context {
	if c, ok := database.StatementCounterFrom(ctx); ok && c == &u.statements {
		return ctx
	}
	return database.WithStatementCounter(ctx, &u.statements)
}

// StatementCount returns the round trips issued so far, BEGIN included.
func (u *UnitOfWork) StatementCount() int64 {
	return u.statements.Load()
}

// IDB exposes the transaction for queries the unit of work does not wrap.
func (u *UnitOfWork) IDB() bun.IDB {
	return u.tx
}

// NewSelect starts a select inside the transaction.
func (u *UnitOfWork) NewSelect() *bun.SelectQuery {
	return u.tx.NewSelect()
}

// Err returns ErrClosed once the transaction has ended.
func (u *UnitOfWork) Err() error {
	switch {
	case u.closed:
		return ErrClosed
	case u.committed:
		return fmt.Errorf("%w: already committed", ErrClosed)
	case u.finished:
		return fmt.Errorf("%w: rolled back", ErrClosed)
	}
	return nil
}

// Pending returns the number of staged writes not yet flushed.
func (u *UnitOfWork) Pending() int {
	return len(u.pending)
}

// Stage queues models for insertion. Nothing is sent until Commit.
func (u *UnitOfWork) Stage(models ...interface{}) error {
	if err := u.Err(); err != nil {
		return err
	}
	for _, m := range models {
		u.pending = append(u.pending, pendingOp{kind: opInsert, model: m})
	}
	return nil
}

// StageUpdate queues an update by primary key. With no columns every
// column is written.
func (u *UnitOfWork) StageUpdate(model interface{}, columns ...string) error {
	if err := u.Err(); err != nil {
		return err
	}
	u.pending = append(u.pending, pendingOp{kind: opUpdate, model: model, columns: columns})
	return nil
}

// Commit flushes staged writes in order and commits. On any failure the
// transaction is rolled back and the error wraps ErrWriteFailed.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if err := u.Err(); err != nil {
		return err
	}
	ctx = u.Bind(ctx)
	if err := ctx.Err(); err != nil {
		u.rollback()
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	for i, op := range u.pending {
		if err := u.flush(ctx, op); err != nil {
			u.rollback()
			u.logFailure("Staged write failed", err, "index", i, "model", modelName(op.model))
			return fmt.Errorf("%w: %s: %w", ErrWriteFailed, modelName(op.model), err)
		}
	}
	if err := u.tx.Commit(); err != nil {
		u.rollback()
		u.logFailure("Commit failed", err)
		return fmt.Errorf("%w: commit: %w", ErrWriteFailed, err)
	}

	u.pending = nil
	u.committed = true
	u.finished = true
	u.releaseSlot()
	return nil
}

// Query scans rows matching filter into dest within the transaction.
func (u *UnitOfWork) Query(ctx context.Context, dest interface{}, filter *types.QueryFilter, order ...string) error {
	if err := u.Err(); err != nil {
		return err
	}
	q := u.tx.NewSelect().Model(dest)
	if filter != nil && filter.Schema != "" {
		q = q.Where(filter.Schema, filter.Args...)
	}
	if len(order) > 0 {
		q = q.Order(order...)
	}
	if err := q.Scan(u.Bind(ctx)); err != nil {
		return fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return nil
}

// Close rolls back an uncommitted transaction and returns the connection
// slot. Calling it again is a no-op.
func (u *UnitOfWork) Close() error {
	if u.closed {
		return nil
	}
	u.closed = true
	defer u.releaseSlot()

	if u.finished {
		return nil
	}
	u.finished = true
	u.pending = nil
	if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		u.factory.logger.Warn("Rollback failed", "error", err)
		return err
	}
	return nil
}

func (u *UnitOfWork) flush(ctx context.Context, op pendingOp) error {
	if op.kind == opUpdate {
		q := u.tx.NewUpdate().Model(op.model).WherePK()
		if len(op.columns) > 0 {
			q = q.Column(op.columns...)
		}
		_, err := q.Exec(ctx)
		return err
	}
	return u.insertTree(ctx, op.model)
}

// insertTree inserts model, then the children of every inserted row.
func (u *UnitOfWork) insertTree(ctx context.Context, model interface{}) error {
	if err := u.insert(ctx, model); err != nil {
		return err
	}
	return each(model, func(row interface{}) error {
		parent, ok := row.(Parent)
		if !ok {
			return nil
		}
		for _, children := range parent.StagedChildren() {
			if err := u.insertTree(ctx, children); err != nil {
				return err
			}
		}
		return nil
	})
}

// insert writes model and loads server-assigned columns back into it.
func (u *UnitOfWork) insert(ctx context.Context, model interface{}) error {
	if isEmptySlice(model) {
		return nil
	}
	if u.returning {
		_, err := u.tx.NewInsert().Model(model).Returning("*").Exec(ctx)
		return err
	}
	// Without RETURNING, rows go one at a time so each gets its insert id.
	return each(model, func(row interface{}) error {
		if _, err := u.tx.NewInsert().Model(row).Exec(ctx); err != nil {
			return err
		}
		return u.tx.NewSelect().Model(row).WherePK().Scan(ctx)
	})
}

func (u *UnitOfWork) rollback() {
	if u.finished {
		return
	}
	u.finished = true
	u.pending = nil
	if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		u.factory.logger.Warn("Rollback failed", "error", err)
	}
	u.releaseSlot()
}

func (u *UnitOfWork) releaseSlot() {
	u.releaseOne.Do(u.factory.release)
}

func (u *UnitOfWork) logFailure(msg string, err error, fields ...interface{}) {
	if ok, kind := database.IsSqlError(err); ok {
		fields = append(fields, "sql_error", kind.String())
	}
	fields = append(fields, "error", err)
	u.factory.logger.Warn(msg, fields...)
}

// each calls fn for every element of a slice pointer, or for model itself.
func each(model interface{}, fn func(interface{}) error) error {
	v := reflect.ValueOf(model)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Slice {
		return fn(model)
	}
	s := v.Elem()
	for i := 0; i < s.Len(); i++ {
		elem := s.Index(i)
		if elem.Kind() != reflect.Ptr {
			elem = elem.Addr()
		}
		if err := fn(elem.Interface()); err != nil {
			return err
		}
	}
	return nil
}

func isEmptySlice(model interface{}) bool {
	v := reflect.ValueOf(model)
	return v.Kind() == reflect.Ptr && v.Elem().Kind() == reflect.Slice && v.Elem().Len() == 0
}

func modelName(model interface{}) string {
	t := reflect.TypeOf(model)
	for t != nil && (t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice) {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	return t.Name()
}
