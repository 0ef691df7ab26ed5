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

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/postboy/postboy/internal/authz"
	"github.com/postboy/postboy/internal/workspace"
)

// AuthzStore implements authz.MembershipStore, the narrow read-only
// view the evaluator gates against.
type AuthzStore struct {
	db *DB
}

// NewAuthzStore creates a new authorization store
func NewAuthzStore(db *DB) *AuthzStore {
	return &AuthzStore{db: db}
}

// WorkspaceOwner returns the owner user ID of a workspace
func (s *AuthzStore) WorkspaceOwner(ctx context.Context, workspaceID string) (string, error) {
	var ownerID string
	err := s.db.pool.QueryRow(ctx, `
		SELECT owner_id FROM workspaces WHERE id = $1
	`, workspaceID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", workspace.ErrWorkspaceNotFound
		}
		return "", fmt.Errorf("failed to get workspace owner: %w", err)
	}
	return ownerID, nil
}

// MemberRole returns the stored role of a membership, or
// authz.ErrNotAMember when no row exists.
func (s *AuthzStore) MemberRole(ctx context.Context, userID, workspaceID string) (authz.Role, error) {
	var role authz.Role
	err := s.db.pool.QueryRow(ctx, `
		SELECT role FROM workspace_members
		WHERE user_id = $1 AND workspace_id = $2
	`, userID, workspaceID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", authz.ErrNotAMember
		}
		return "", fmt.Errorf("failed to get member role: %w", err)
	}
	return role, nil
}
