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
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tomoncle/orderbook/database"
	"github.com/tomoncle/orderbook/model"
)

// UserService is the subset of service.UserService the handlers call.
type UserService interface {
	CreateTables(ctx context.Context) error
	ListUsers(ctx context.Context) ([]*model.User, error)
	AddUser(ctx context.Context, email, password string) (*model.User, error)
	Health(ctx context.Context) *database.HealthStatus
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateTables drops and recreates the schema, then seeds it.
func (h *UserHandler) CreateTables(c *gin.Context) {
	if err := h.svc.CreateTables(c.Request.Context()); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "tables created successfully"})
}

// Users lists every user with its orders.
func (h *UserHandler) Users(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, usersToResponses(users))
}

// AddUser creates a user from the email and password query parameters and
// echoes the parameters back.
func (h *UserHandler) AddUser(c *gin.Context) {
	var req AddUserRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if _, err := h.svc.AddUser(c.Request.Context(), req.Email, req.Password); err != nil {
		abortWithError(c, err)
		return
	}

	res := lastValues(c)
	res["status"] = "user added."
	c.JSON(http.StatusOK, res)
}

// Querys echoes the query parameters. Repeated keys keep their last value.
func (h *UserHandler) Querys(c *gin.Context) {
	c.JSON(http.StatusOK, lastValues(c))
}

// Health reports store connectivity, answering 503 when the store is down.
func (h *UserHandler) Health(c *gin.Context) {
	status := h.svc.Health(c.Request.Context())
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

func lastValues(c *gin.Context) map[string]string {
	query := c.Request.URL.Query()
	res := make(map[string]string, len(query)+1)
	for key, values := range query {
		if len(values) > 0 {
			res[key] = values[len(values)-1]
		}
	}
	return res
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(StatusFor(err), ErrorResponse{Error: err.Error()})
}
