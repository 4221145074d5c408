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
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tomoncle/orderbook/utils"
)

// NewRouter builds the gin engine serving svc. A nil logger uses the
// "HTTP" logger.
func NewRouter(svc UserService, logger *logrus.Logger) *gin.Engine {
	if logger == nil {
		logger = utils.NewLogger("HTTP")
	}
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(logger))
	Setup(r, NewUserHandler(svc))
	return r
}

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, h *UserHandler) {
	r.GET("/create_tables", h.CreateTables)
	r.GET("/users", h.Users)
	r.GET("/add_user", h.AddUser)
	r.GET("/querys", h.Querys)
	r.GET("/health", h.Health)
}
