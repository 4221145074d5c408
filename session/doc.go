// Package session provides request-scoped units of work over a pooled Bun
// database: staged inserts flushed in one transaction, reads within the same
// transaction, and fail-fast checkout when the pool is exhausted.
package session
