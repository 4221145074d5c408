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
	"context"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/uptrace/bun"
)

type statementCounterKey struct{}

// StatementCounter accumulates the number of statements sent to the store on
// behalf of one caller.
type StatementCounter struct {
	n atomic.Int64
}

func (c *StatementCounter) Load() int64 {
	return c.n.Load()
}

// WithStatementCounter returns a ctx whose queries are counted by c when the
// DB carries a StatementCounterHook.
func WithStatementCounter(ctx context.Context, c *StatementCounter) context.Context {
	return context.WithValue(ctx, statementCounterKey{}, c)
}

// StatementCounterFrom returns the counter bound to ctx, if any.
func StatementCounterFrom(ctx context.Context) (*StatementCounter, bool) {
	c, ok := ctx.Value(statementCounterKey{}).(*StatementCounter)
	return c, ok
}

// StatementCounterHook increments the counter carried by the query context.
// Failed statements count too: they still cost a round trip.
type StatementCounterHook struct{}

var _ bun.QueryHook = (*StatementCounterHook)(nil)

func (h *StatementCounterHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *StatementCounterHook) AfterQuery(ctx context.Context, _ *bun.QueryEvent) {
	if c, ok := StatementCounterFrom(ctx); ok {
		c.n.Add(1)
	}
}

var slowQueryColor = color.New(color.FgYellow, color.Bold)

// SlowQueryHook logs statements that ran longer than slowTime.
type SlowQueryHook struct {
	slowTime time.Duration
	logger   Logger
}

func NewSlowQueryHook(slowTime time.Duration, logger Logger) *SlowQueryHook {
	return &SlowQueryHook{slowTime: slowTime, logger: logger}
}

var _ bun.QueryHook = (*SlowQueryHook)(nil)

func (h *SlowQueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *SlowQueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	if event.Err != nil || h.logger == nil {
		return
	}
	duration := time.Since(event.StartTime)
	if duration > h.slowTime {
		h.logger.Warn(slowQueryColor.Sprint("Database slow query detected"),
			"duration", duration.Round(time.Microsecond),
			"slow_threshold", h.slowTime,
			"operation", event.Operation(),
			"query", event.Query,
		)
	}
}
