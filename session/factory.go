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
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"golang.org/x/sync/semaphore"

	"github.com/tomoncle/orderbook/database"
)

// DBProvider resolves the live database handle. The connection manager
// satisfies it and may swap the handle on reconnect.
type DBProvider interface {
	GetDB() *bun.DB
}

type staticDB struct {
	db *bun.DB
}

func (s staticDB) GetDB() *bun.DB {
	return s.db
}

// SessionFactory hands out units of work bound to one pooled database.
// It is safe for concurrent use.
type SessionFactory struct {
	provider       DBProvider
	slots          *semaphore.Weighted
	size           int64
	acquireTimeout time.Duration
	txOptions      *sql.TxOptions
	logger         database.Logger
}

// Option configures a SessionFactory.
type Option func(*SessionFactory)

// WithPoolSize overrides the number of concurrent units of work. It defaults
// to the MaxOpenConns of the underlying pool; zero means unbounded.
func WithPoolSize(n int) Option {
	return func(f *SessionFactory) {
		f.size = int64(n)
	}
}

// WithAcquireTimeout bounds how long Begin waits for a free slot.
// Zero fails immediately.
func WithAcquireTimeout(d time.Duration) Option {
	return func(f *SessionFactory) {
		f.acquireTimeout = d
	}
}

func WithTxOptions(opts *sql.TxOptions) Option {
	return func(f *SessionFactory) {
		f.txOptions = opts
	}
}

func WithLogger(logger database.Logger) Option {
	return func(f *SessionFactory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewSessionFactory binds the factory to a fixed handle. It opens no
// connection.
func NewSessionFactory(db *bun.DB, opts ...Option) *SessionFactory {
	return NewManagedSessionFactory(staticDB{db: db}, opts...)
}

// NewManagedSessionFactory resolves the handle from p on every Begin, so
// units of work follow the manager across Reconnect. The pool capacity is
// read from the handle current at construction.
func NewManagedSessionFactory(p DBProvider, opts ...Option) *SessionFactory {
	f := &SessionFactory{
		provider: p,
		logger:   database.NopLogger{},
	}
	if db := p.GetDB(); db != nil {
		f.size = int64(db.Stats().MaxOpenConnections)
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.size > 0 {
		f.slots = semaphore.NewWeighted(f.size)
	}
	return f
}

// DB returns the current database handle, or nil while disconnected.
func (f *SessionFactory) DB() *bun.DB {
	return f.provider.GetDB()
}

// PoolSize returns the slot count, or zero when unbounded.
func (f *SessionFactory) PoolSize() int {
	return int(f.size)
}

// Begin checks out a connection and opens a transaction on it. It returns
// ErrPoolExhausted when every slot stays busy past the acquire timeout.
func (f *SessionFactory) Begin(ctx context.Context) (*UnitOfWork, error) {
	if err := f.acquire(ctx); err != nil {
		return nil, err
	}

	db := f.provider.GetDB()
	if db == nil {
		f.release()
		return nil, fmt.Errorf("begin transaction: %w", ErrUnavailable)
	}

	u := &UnitOfWork{factory: f, returning: db.HasFeature(feature.InsertReturning)}
	tx, err := db.BeginTx(u.Bind(ctx), f.txOptions)
	if err != nil {
		f.release()
		f.logger.Error("Failed to begin transaction", "error", err)
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	u.tx = tx
	return u, nil
}

// Run begins a unit of work, passes it to fn and commits whatever fn staged
// when fn returns nil. The unit of work is closed on every path.
func (f *SessionFactory) Run(ctx context.Context, fn func(ctx context.Context, uow *UnitOfWork) error) error {
	uow, err := f.Begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Close()

	ctx = uow.Bind(ctx)
	if err := fn(ctx, uow); err != nil {
		return err
	}
	if uow.Pending() == 0 {
		return nil
	}
	return uow.Commit(ctx)
}

func (f *SessionFactory) acquire(ctx context.Context) error {
	if f.slots == nil {
		return nil
	}
	if f.acquireTimeout <= 0 {
		if f.slots.TryAcquire(1) {
			return nil
		}
		f.logger.Warn("Connection pool exhausted", "size", f.size)
		return fmt.Errorf("%w: %d connections checked out", ErrPoolExhausted, f.size)
	}

	waitCtx, cancel := context.WithTimeout(ctx, f.acquireTimeout)
	defer cancel()
	if err := f.slots.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		f.logger.Warn("Connection pool exhausted", "size", f.size, "waited", f.acquireTimeout)
		return fmt.Errorf("%w: no connection within %s", ErrPoolExhausted, f.acquireTimeout)
	}
	return nil
}

func (f *SessionFactory) release() {
	if f.slots != nil {
		f.slots.Release(1)
	}
}
