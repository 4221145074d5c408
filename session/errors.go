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

import "errors"

var (
	// ErrPoolExhausted is returned by Begin when no connection slot frees
	// up within the acquire timeout. Callers may retry after a backoff.
	ErrPoolExhausted = errors.New("connection pool exhausted")

	// ErrUnavailable is returned by Begin while the database is disconnected,
	// for example in the middle of a reconnect.
	ErrUnavailable = errors.New("database unavailable")

	// ErrWriteFailed is returned by Commit. The whole transaction has been
	// rolled back.
	ErrWriteFailed = errors.New("write failed")

	// ErrQueryFailed is returned by reads inside a unit of work.
	ErrQueryFailed = errors.New("query failed")

	// ErrValidationFailed marks missing or malformed caller input.
	ErrValidationFailed = errors.New("validation failed")

	// ErrClosed is returned when a unit of work is used after it committed,
	// rolled back or closed.
	ErrClosed = errors.New("unit of work closed")
)
