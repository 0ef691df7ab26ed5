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

package workspace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/postboy/postboy/internal/audit"
	"github.com/postboy/postboy/internal/authz"
	"github.com/postboy/postboy/internal/id"
	"github.com/postboy/postboy/internal/identity"
)

// Service provides workspace and membership business logic. Every
// mutation gates itself through the authorization evaluator before
// touching persisted state.
type Service struct {
	repo        Repository
	members     MemberRepository
	users       UserDirectory
	evaluator   *authz.Evaluator
	invites     InviteIssuer
	auditLogger audit.Logger
}

// NewService creates a new workspace service.
func NewService(
	repo Repository,
	members MemberRepository,
	users UserDirectory,
	evaluator *authz.Evaluator,
	invites InviteIssuer,
	auditLogger audit.Logger,
) *Service {
	return &Service{
		repo:        repo,
		members:     members,
		users:       users,
		evaluator:   evaluator,
		invites:     invites,
		auditLogger: auditLogger,
	}
}

// Create creates a new workspace owned by the actor.
func (s *Service) Create(ctx context.Context, actorID, name, description string) (*Workspace, error) {
	if actorID == "" {
		return nil, authz.ErrUnauthenticated
	}
	if name == "" {
		return nil, fmt.Errorf("workspace name is required")
	}

	now := time.Now()
	ws := &Workspace{
		ID:          id.NewUUIDv7(),
		Name:        name,
		Description: description,
		OwnerID:     actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, ws); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:        audit.TypeWorkspaceCreated,
		ActorID:     actorID,
		WorkspaceID: ws.ID,
	})

	return ws, nil
}

// Get retrieves a workspace. Requires workspace:view.
func (s *Service) Get(ctx context.Context, actorID, workspaceID string) (*Workspace, error) {
	if err := s.evaluator.RequirePermission(authz.PermWorkspaceView)(ctx, actorID, workspaceID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, workspaceID)
}

// List returns all workspaces the actor owns or belongs to.
func (s *Service) List(ctx context.Context, actorID string) ([]*Workspace, error) {
	if actorID == "" {
		return nil, authz.ErrUnauthenticated
	}
	return s.repo.ListByUser(ctx, actorID)
}

// UpdateParams holds the mutable workspace fields. Nil means unchanged.
type UpdateParams struct {
	Name        *string
	Description *string
}

// Update updates workspace name or description. Requires workspace:edit.
func (s *Service) Update(ctx context.Context, actorID, workspaceID string, params UpdateParams) (*Workspace, error) {
	if err := s.evaluator.RequirePermission(authz.PermWorkspaceEdit)(ctx, actorID, workspaceID); err != nil {
		return nil, err
	}

	ws, err := s.repo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if params.Name != nil {
		ws.Name = *params.Name
	}
	if params.Description != nil {
		ws.Description = *params.Description
	}
	ws.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, ws); err != nil {
		return nil, fmt.Errorf("failed to update workspace: %w", err)
	}
	return ws, nil
}

// Delete deletes a workspace. Ownership-only: this gate deliberately
// bypasses the role system, since the owner may hold no membership row.
func (s *Service) Delete(ctx context.Context, actorID, workspaceID string) error {
	if err := s.evaluator.RequireOwnership(ctx, actorID, workspaceID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, workspaceID); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:        audit.TypeWorkspaceDeleted,
		ActorID:     actorID,
		WorkspaceID: workspaceID,
	})
	return nil
}

// InviteMember issues an invitation token for an email address.
// Requires workspace:invite_members. The target must not already be a
// member (or the owner).
func (s *Service) InviteMember(ctx context.Context, actorID, workspaceID, email string, role authz.Role) (string, error) {
	if err := s.evaluator.RequirePermission(authz.PermWorkspaceInviteMembers)(ctx, actorID, workspaceID); err != nil {
		return "", err
	}
	if !role.Valid() {
		return "", ErrInvalidRole
	}

	// The invitee may not have an account yet; an unknown email is
	// still invitable.
	targetID, err := s.users.LookupByEmail(ctx, email)
	if err != nil && !errors.Is(err, identity.ErrUserNotFound) {
		return "", fmt.Errorf("failed to look up invitee: %w", err)
	}
	if targetID != "" {
		ws, err := s.repo.GetByID(ctx, workspaceID)
		if err != nil {
			return "", err
		}
		if targetID == ws.OwnerID {
			return "", ErrAlreadyMember
		}
		if _, err := s.members.Get(ctx, targetID, workspaceID); err == nil {
			return "", ErrAlreadyMember
		} else if !errors.Is(err, ErrMemberNotFound) {
			return "", err
		}
	}

	token, err := s.invites.Issue(ctx, Invite{WorkspaceID: workspaceID, Email: email, Role: role})
	if err != nil {
		return "", fmt.Errorf("failed to issue invite: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:        audit.TypeMemberInvited,
		ActorID:     actorID,
		WorkspaceID: workspaceID,
		Metadata:    map[string]any{"email": email, "role": role},
	})
	return token, nil
}

// AcceptInvite redeems an invitation token and creates the membership.
// A duplicate acceptance race resolves through the store's uniqueness
// constraint: exactly one Add succeeds, the other reports
// ErrAlreadyMember.
func (s *Service) AcceptInvite(ctx context.Context, actorID, token string) (*Member, error) {
	if actorID == "" {
		return nil, authz.ErrUnauthenticated
	}

	inv, err := s.invites.Redeem(ctx, token)
	if err != nil {
		return nil, ErrInvalidInvite
	}

	ws, err := s.repo.GetByID(ctx, inv.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if actorID == ws.OwnerID {
		// The owner never holds a membership row.
		return nil, ErrAlreadyMember
	}

	m := &Member{
		UserID:      actorID,
		WorkspaceID: inv.WorkspaceID,
		Role:        inv.Role,
		CreatedAt:   time.Now(),
	}
	if err := s.members.Add(ctx, m); err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:        audit.TypeMemberJoined,
		ActorID:     actorID,
		WorkspaceID: inv.WorkspaceID,
		Metadata:    map[string]any{"role": inv.Role},
	})
	return m, nil
}

// UpdateMemberRole changes a member's role. Requires
// workspace:change_roles. The owner's role is immutable and actors can
// never change their own role.
func (s *Service) UpdateMemberRole(ctx context.Context, actorID, workspaceID, targetUserID string, role authz.Role) (*Member, error) {
	if err := s.evaluator.RequirePermission(authz.PermWorkspaceChangeRoles)(ctx, actorID, workspaceID); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	ws, err := s.repo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if targetUserID == ws.OwnerID {
		return nil, ErrOwnerRoleImmutable
	}
	if targetUserID == actorID {
		return nil, ErrSelfRoleChange
	}

	if err := s.members.UpdateRole(ctx, targetUserID, workspaceID, role); err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:        audit.TypeRoleChanged,
		ActorID:     actorID,
		WorkspaceID: workspaceID,
		Metadata:    map[string]any{"user_id": targetUserID, "role": role},
	})
	return s.members.Get(ctx, targetUserID, workspaceID)
}

// RemoveMember removes a member from the workspace. Requires
// workspace:remove_members. The owner cannot be removed; actors remove
// themselves by leaving, not by removal.
func (s *Service) RemoveMember(ctx context.Context, actorID, workspaceID, targetUserID string) error {
	if err := s.evaluator.RequirePermission(authz.PermWorkspaceRemoveMembers)(ctx, actorID, workspaceID); err != nil {
		return err
	}

	ws, err := s.repo.GetByID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if targetUserID == ws.OwnerID {
		return ErrOwnerUnremovable
	}
	if targetUserID == actorID {
		return ErrSelfRemoval
	}

	if err := s.members.Remove(ctx, targetUserID, workspaceID); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:        audit.TypeMemberRemoved,
		ActorID:     actorID,
		WorkspaceID: workspaceID,
		Metadata:    map[string]any{"user_id": targetUserID},
	})
	return nil
}

// Leave removes the actor's own membership. No permission is needed
// beyond the membership itself; the owner cannot leave.
func (s *Service) Leave(ctx context.Context, actorID, workspaceID string) error {
	if actorID == "" {
		return authz.ErrUnauthenticated
	}

	ws, err := s.repo.GetByID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if actorID == ws.OwnerID {
		return ErrOwnerCannotLeave
	}
	if _, err := s.members.Get(ctx, actorID, workspaceID); err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return authz.ErrNotAMember
		}
		return err
	}

	if err := s.members.Remove(ctx, actorID, workspaceID); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:        audit.TypeMemberLeft,
		ActorID:     actorID,
		WorkspaceID: workspaceID,
	})
	return nil
}

// MemberList is the result of a member listing: the stored memberships
// plus the owner, who is reported separately because no membership row
// exists for them.
type MemberList struct {
	Members []*MemberInfo `json:"members"`
	Owner   *UserInfo     `json:"owner"`
}

// Members lists workspace members and the owner. Requires
// workspace:view.
func (s *Service) Members(ctx context.Context, actorID, workspaceID string) (*MemberList, error) {
	if err := s.evaluator.RequirePermission(authz.PermWorkspaceView)(ctx, actorID, workspaceID); err != nil {
		return nil, err
	}

	members, err := s.members.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	ws, err := s.repo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	owner, err := s.users.Lookup(ctx, ws.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up owner: %w", err)
	}

	return &MemberList{Members: members, Owner: owner}, nil
}

// PermissionSummary describes the actor's effective access to a
// workspace. The permission list is computed server-side from the
// evaluator, which is the single source of truth for the role map.
type PermissionSummary struct {
	Role        authz.Role         `json:"role"`
	IsOwner     bool               `json:"is_owner"`
	Permissions []authz.Permission `json:"permissions"`
}

// Permissions reports the actor's own effective role and permissions.
func (s *Service) Permissions(ctx context.Context, actorID, workspaceID string) (*PermissionSummary, error) {
	if actorID == "" {
		return nil, authz.ErrUnauthenticated
	}
	role, isOwner, err := s.evaluator.ResolveEffectiveRole(ctx, actorID, workspaceID)
	if err != nil {
		return nil, err
	}
	return &PermissionSummary{
		Role:        role,
		IsOwner:     isOwner,
		Permissions: authz.PermissionsOf(role),
	}, nil
}
