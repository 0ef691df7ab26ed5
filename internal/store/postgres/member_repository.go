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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/postboy/postboy/internal/authz"
	"github.com/postboy/postboy/internal/workspace"
)

// MemberRepository implements workspace.MemberRepository
type MemberRepository struct {
	db *DB
}

// NewMemberRepository creates a new membership repository
func NewMemberRepository(db *DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Add inserts a membership. The composite primary key on
// (user_id, workspace_id) turns a duplicate-membership race into a
// unique violation, reported as ErrAlreadyMember.
func (r *MemberRepository) Add(ctx context.Context, m *workspace.Member) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO workspace_members (user_id, workspace_id, role, created_at)
		VALUES ($1, $2, $3, $4)
	`, m.UserID, m.WorkspaceID, m.Role, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return workspace.ErrAlreadyMember
		}
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// Get retrieves a membership
func (r *MemberRepository) Get(ctx context.Context, userID, workspaceID string) (*workspace.Member, error) {
	var m workspace.Member
	err := r.db.pool.QueryRow(ctx, `
		SELECT user_id, workspace_id, role, created_at
		FROM workspace_members WHERE user_id = $1 AND workspace_id = $2
	`, userID, workspaceID).Scan(&m.UserID, &m.WorkspaceID, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, workspace.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return &m, nil
}

// UpdateRole changes a member's role
func (r *MemberRepository) UpdateRole(ctx context.Context, userID, workspaceID string, role authz.Role) error {
	tag, err := r.db.pool.Exec(ctx, `
		UPDATE workspace_members SET role = $3
		WHERE user_id = $1 AND workspace_id = $2
	`, userID, workspaceID, role)
	if err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workspace.ErrMemberNotFound
	}
	return nil
}

// Remove deletes a membership
func (r *MemberRepository) Remove(ctx context.Context, userID, workspaceID string) error {
	tag, err := r.db.pool.Exec(ctx, `
		DELETE FROM workspace_members
		WHERE user_id = $1 AND workspace_id = $2
	`, userID, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workspace.ErrMemberNotFound
	}
	return nil
}

// ListByWorkspace retrieves all memberships with user details,
// highest role first, then join order.
func (r *MemberRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]*workspace.MemberInfo, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT m.user_id, m.workspace_id, m.role, m.created_at,
			u.id, u.name, u.email, u.image
		FROM workspace_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.workspace_id = $1
		ORDER BY
			CASE m.role WHEN 'ADMIN' THEN 3 WHEN 'EDITOR' THEN 2 ELSE 1 END DESC,
			m.created_at
	`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*workspace.MemberInfo
	for rows.Next() {
		var info workspace.MemberInfo
		if err := rows.Scan(
			&info.UserID, &info.WorkspaceID, &info.Role, &info.CreatedAt,
			&info.User.ID, &info.User.Name, &info.User.Email, &info.User.Image,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, &info)
	}
	return members, rows.Err()
}

// isUniqueViolation reports whether err is a postgres unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
