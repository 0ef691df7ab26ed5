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
	"github.com/postboy/postboy/internal/authz"
	"github.com/postboy/postboy/internal/workspace"
)

// CreateWorkspaceRequest represents workspace creation data
type CreateWorkspaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateWorkspace creates a workspace owned by the caller
func (h *Handler) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "workspace name is required")
		return
	}

	ws, err := h.workspaceService.Create(r.Context(), GetUserID(r.Context()), req.Name, req.Description)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusCreated, ws)
}

// ListWorkspaces lists workspaces the caller owns or belongs to
func (h *Handler) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	workspaces, err := h.workspaceService.List(r.Context(), GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, workspaces)
}

// GetWorkspace retrieves a single workspace
func (h *Handler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workspaceService.Get(r.Context(), GetUserID(r.Context()), chi.URLParam(r, "workspaceID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, ws)
}

// UpdateWorkspaceRequest represents a partial workspace update
type UpdateWorkspaceRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// UpdateWorkspace updates workspace name or description
func (h *Handler) UpdateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req UpdateWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws, err := h.workspaceService.Update(r.Context(), GetUserID(r.Context()), chi.URLParam(r, "workspaceID"), workspace.UpdateParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, ws)
}

// DeleteWorkspace deletes a workspace. Owner only.
func (h *Handler) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	err := h.workspaceService.Delete(r.Context(), GetUserID(r.Context()), chi.URLParam(r, "workspaceID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "workspace deleted")
}

// ListMembers lists workspace members and the owner
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	list, err := h.workspaceService.Members(r.Context(), GetUserID(r.Context()), chi.URLParam(r, "workspaceID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, list)
}

// InviteMemberRequest represents an invitation
type InviteMemberRequest struct {
	Email string     `json:"email"`
	Role  authz.Role `json:"role"`
}

// InviteMember issues an invitation token for an email address
func (h *Handler) InviteMember(w http.ResponseWriter, r *http.Request) {
	var req InviteMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "email is required")
		return
	}

	token, err := h.workspaceService.InviteMember(r.Context(), GetUserID(r.Context()), chi.URLParam(r, "workspaceID"), req.Email, req.Role)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusCreated, map[string]string{"token": token})
}

// AcceptInviteRequest carries the invitation token
type AcceptInviteRequest struct {
	Token string `json:"token"`
}

// AcceptInvite redeems an invitation and joins the workspace
func (h *Handler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	var req AcceptInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	member, err := h.workspaceService.AcceptInvite(r.Context(), GetUserID(r.Context()), req.Token)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusCreated, member)
}

// UpdateMemberRoleRequest represents a role change
type UpdateMemberRoleRequest struct {
	Role authz.Role `json:"role"`
}

// UpdateMemberRole changes a member's role
func (h *Handler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateMemberRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	member, err := h.workspaceService.UpdateMemberRole(
		r.Context(),
		GetUserID(r.Context()),
		chi.URLParam(r, "workspaceID"),
		chi.URLParam(r, "userID"),
		req.Role,
	)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, member)
}

// RemoveMember removes a member from the workspace
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	err := h.workspaceService.RemoveMember(
		r.Context(),
		GetUserID(r.Context()),
		chi.URLParam(r, "workspaceID"),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "member removed")
}

// LeaveWorkspace removes the caller's own membership
func (h *Handler) LeaveWorkspace(w http.ResponseWriter, r *http.Request) {
	err := h.workspaceService.Leave(r.Context(), GetUserID(r.Context()), chi.URLParam(r, "workspaceID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "left workspace")
}

// GetPermissions reports the caller's effective role and permissions
func (h *Handler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	summary, err := h.workspaceService.Permissions(r.Context(), GetUserID(r.Context()), chi.URLParam(r, "workspaceID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, summary)
}
