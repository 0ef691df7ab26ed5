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

package authz

import (
	"context"
	"fmt"
)

// MembershipStore is the narrow persistence view the evaluator needs.
// Implemented by the postgres store; tests provide fakes.
type MembershipStore interface {
	// WorkspaceOwner returns the owner user ID of a workspace.
	WorkspaceOwner(ctx context.Context, workspaceID string) (string, error)

	// MemberRole returns the role of a user's membership in a
	// workspace, or ErrNotAMember when no membership exists.
	MemberRole(ctx context.Context, userID, workspaceID string) (Role, error)
}

// HasPermission reports whether an actor with the given role holds a
// permission. The owner bypass is absolute: owners hold every
// permission regardless of the role argument.
func HasPermission(role Role, isOwner bool, p Permission) bool {
	if isOwner {
		return true
	}
	for _, granted := range PermissionsOf(role) {
		if granted == p {
			return true
		}
	}
	return false
}

// HasRoleLevel reports whether the actor's role is at or above the
// required role in the hierarchy.
func HasRoleLevel(actor, required Role) bool {
	return actor.Level() >= required.Level()
}

// Evaluator answers allow/deny questions for workspace access. Every
// gate resolves the actor's effective role through one code path so the
// owner bypass cannot drift between call sites.
type Evaluator struct {
	store MembershipStore
}

// NewEvaluator creates a new authorization evaluator.
func NewEvaluator(store MembershipStore) *Evaluator {
	return &Evaluator{store: store}
}

// ResolveEffectiveRole determines the role a user acts with in a
// workspace. The owner never has a membership row; their effective role
// is always ADMIN with isOwner true. Non-members fail with
// ErrNotAMember.
func (e *Evaluator) ResolveEffectiveRole(ctx context.Context, userID, workspaceID string) (Role, bool, error) {
	ownerID, err := e.store.WorkspaceOwner(ctx, workspaceID)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve workspace owner: %w", err)
	}
	if userID == ownerID {
		return RoleAdmin, true, nil
	}

	role, err := e.store.MemberRole(ctx, userID, workspaceID)
	if err != nil {
		return "", false, err
	}
	return role, false, nil
}

// RequirePermission returns a gate that fails unless the actor holds
// the permission in the workspace.
func (e *Evaluator) RequirePermission(p Permission) func(ctx context.Context, actorID, workspaceID string) error {
	return func(ctx context.Context, actorID, workspaceID string) error {
		if actorID == "" {
			return ErrUnauthenticated
		}
		role, isOwner, err := e.ResolveEffectiveRole(ctx, actorID, workspaceID)
		if err != nil {
			return err
		}
		if !HasPermission(role, isOwner, p) {
			return &PermissionDeniedError{Permission: p}
		}
		return nil
	}
}

// RequireRole returns a gate that fails unless the actor's effective
// role is at or above the required role.
func (e *Evaluator) RequireRole(required Role) func(ctx context.Context, actorID, workspaceID string) error {
	return func(ctx context.Context, actorID, workspaceID string) error {
		if actorID == "" {
			return ErrUnauthenticated
		}
		role, isOwner, err := e.ResolveEffectiveRole(ctx, actorID, workspaceID)
		if err != nil {
			return err
		}
		if isOwner {
			return nil
		}
		if !HasRoleLevel(role, required) {
			return &RoleTooLowError{Required: required, Actual: role}
		}
		return nil
	}
}

// RequireOwnership fails with ErrNotOwner unless the actor is the
// workspace owner. Ownership-only operations (workspace deletion) must
// bypass the role system entirely: the owner may hold no membership row
// at all.
func (e *Evaluator) RequireOwnership(ctx context.Context, actorID, workspaceID string) error {
	if actorID == "" {
		return ErrUnauthenticated
	}
	ownerID, err := e.store.WorkspaceOwner(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to resolve workspace owner: %w", err)
	}
	if actorID != ownerID {
		return ErrNotOwner
	}
	return nil
}
