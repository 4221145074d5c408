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

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomoncle/orderbook/database"
	"github.com/tomoncle/orderbook/session"
)

// StatusFor maps an error returned by the service layer to an HTTP status.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, session.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrPoolExhausted), errors.Is(err, session.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, session.ErrWriteFailed):
		if ok, kind := database.IsSqlError(err); ok && kind.IsConstraintViolation() {
			return http.StatusConflict
		}
	}
	return http.StatusInternalServerError
}
