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

import "github.com/tomoncle/orderbook/model"

const createDateLayout = "2006-01-02 15:04:05"

// AddUserRequest is bound from the /add_user query string.
type AddUserRequest struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type OrderResponse struct {
	OrderID int64  `json:"order_id"`
	Data    string `json:"data"`
}

type UserResponse struct {
	UserID     int64           `json:"user_id"`
	Email      string          `json:"email"`
	Password   string          `json:"password"`
	Data       string          `json:"data"`
	CreateDate string          `json:"create_date"`
	Orders     []OrderResponse `json:"orders"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func userToResponse(u *model.User) UserResponse {
	orders := make([]OrderResponse, 0, len(u.Orders))
	for _, o := range u.Orders {
		orders = append(orders, OrderResponse{OrderID: o.ID, Data: o.Data})
	}
	return UserResponse{
		UserID:     u.ID,
		Email:      u.Email,
		Password:   u.Password,
		Data:       u.Data,
		CreateDate: u.CreateDate.Format(createDateLayout),
		Orders:     orders,
	}
}

func usersToResponses(users []*model.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userToResponse(u))
	}
	return out
}
