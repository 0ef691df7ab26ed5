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
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/postboy/postboy/internal/collection"
)

// CreateCollectionRequest represents collection creation data
type CreateCollectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateCollection creates a collection in a workspace
func (h *Handler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "collection name is required")
		return
	}

	c, err := h.collectionService.CreateCollection(r.Context(), GetUserID(r.Context()), chi.URLParam(r, "workspaceID"), req.Name, req.Description)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusCreated, c)
}

// ListCollections lists a workspace's collections
func (h *Handler) ListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.collectionService.ListCollections(r.Context(), GetUserID(r.Context()), chi.URLParam(r, "workspaceID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, collections)
}

// UpdateCollectionRequest represents a partial collection update
type UpdateCollectionRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// UpdateCollection renames or re-describes a collection
func (h *Handler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	var req UpdateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.collectionService.UpdateCollection(r.Context(), GetUserID(r.Context()), chi.URLParam(r, "collectionID"), req.Name, req.Description)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, c)
}

// DeleteCollection deletes a collection and its saved requests
func (h *Handler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	err := h.collectionService.DeleteCollection(r.Context(), GetUserID(r.Context()), chi.URLParam(r, "collectionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "collection deleted")
}

// SavedRequestBody represents a saved request definition
type SavedRequestBody struct {
	Name    string            `json:"name"`
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

func (b SavedRequestBody) params() collection.RequestParams {
	return collection.RequestParams{
		Name:    b.Name,
		Method:  b.Method,
		URL:     b.URL,
		Headers: b.Headers,
		Body:    b.Body,
	}
}

// CreateRequest saves a request in a collection
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req SavedRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.URL == "" {
		respondError(w, http.StatusBadRequest, "request name and url are required")
		return
	}

	saved, err := h.collectionService.CreateRequest(r.Context(), GetUserID(r.Context()), chi.URLParam(r, "collectionID"), req.params())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusCreated, saved)
}

// ListRequests lists the saved requests in a collection
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.collectionService.ListRequests(r.Context(), GetUserID(r.Context()), chi.URLParam(r, "collectionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, requests)
}

// UpdateRequest updates a saved request
func (h *Handler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	var req SavedRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := h.collectionService.UpdateRequest(r.Context(), GetUserID(r.Context()), chi.URLParam(r, "requestID"), req.params())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, saved)
}

// DeleteRequest deletes a saved request
func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	err := h.collectionService.DeleteRequest(r.Context(), GetUserID(r.Context()), chi.URLParam(r, "requestID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "request deleted")
}
