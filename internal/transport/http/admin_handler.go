// Copyright 2026 The PostBoy Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// AdminStats returns a platform usage snapshot
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context(), GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, stats)
}

// AdminListUsers lists user accounts with pagination
func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	users, err := h.adminService.ListUsers(r.Context(), GetUserID(r.Context()), limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, users)
}

// AdminPromoteUser grants a user the platform admin role
func (h *Handler) AdminPromoteUser(w http.ResponseWriter, r *http.Request) {
	err := h.adminService.PromoteUser(r.Context(), GetUserID(r.Context()), chi.URLParam(r, "userID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "user promoted")
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
