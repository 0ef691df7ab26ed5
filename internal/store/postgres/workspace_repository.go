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
	"github.com/postboy/postboy/internal/workspace"
)

// WorkspaceRepository implements workspace.Repository
type WorkspaceRepository struct {
	db *DB
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(db *DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

// Create creates a new workspace
func (r *WorkspaceRepository) Create(ctx context.Context, ws *workspace.Workspace) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO workspaces (id, name, description, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ws.ID, ws.Name, ws.Description, ws.OwnerID, ws.CreatedAt, ws.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert workspace: %w", err)
	}
	return nil
}

// GetByID retrieves a workspace by ID
func (r *WorkspaceRepository) GetByID(ctx context.Context, id string) (*workspace.Workspace, error) {
	var ws workspace.Workspace
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM workspaces WHERE id = $1
	`, id).Scan(&ws.ID, &ws.Name, &ws.Description, &ws.OwnerID, &ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, workspace.ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return &ws, nil
}

// Update updates workspace information
func (r *WorkspaceRepository) Update(ctx context.Context, ws *workspace.Workspace) error {
	tag, err := r.db.pool.Exec(ctx, `
		UPDATE workspaces SET name = $2, description = $3, updated_at = $4
		WHERE id = $1
	`, ws.ID, ws.Name, ws.Description, ws.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workspace.ErrWorkspaceNotFound
	}
	return nil
}

// Delete deletes a workspace. Members, collections and requests go
// with it via ON DELETE CASCADE.
func (r *WorkspaceRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.pool.Exec(ctx, `DELETE FROM workspaces WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workspace.ErrWorkspaceNotFound
	}
	return nil
}

// ListByUser retrieves workspaces the user owns or is a member of
func (r *WorkspaceRepository) ListByUser(ctx context.Context, userID string) ([]*workspace.Workspace, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT w.id, w.name, w.description, w.owner_id, w.created_at, w.updated_at
		FROM workspaces w
		LEFT JOIN workspace_members m ON m.workspace_id = w.id AND m.user_id = $1
		WHERE w.owner_id = $1 OR m.user_id IS NOT NULL
		ORDER BY w.created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []*workspace.Workspace
	for rows.Next() {
		var ws workspace.Workspace
		if err := rows.Scan(&ws.ID, &ws.Name, &ws.Description, &ws.OwnerID, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		workspaces = append(workspaces, &ws)
	}
	return workspaces, rows.Err()
}
