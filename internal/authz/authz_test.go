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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory MembershipStore for evaluator tests.
type fakeStore struct {
	owners  map[string]string          // workspaceID -> ownerID
	members map[string]map[string]Role // workspaceID -> userID -> role
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		owners:  make(map[string]string),
		members: make(map[string]map[string]Role),
	}
}

func (s *fakeStore) addMember(workspaceID, userID string, role Role) {
	if s.members[workspaceID] == nil {
		s.members[workspaceID] = make(map[string]Role)
	}
	s.members[workspaceID][userID] = role
}

func (s *fakeStore) WorkspaceOwner(ctx context.Context, workspaceID string) (string, error) {
	owner, ok := s.owners[workspaceID]
	if !ok {
		return "", errors.New("workspace not found")
	}
	return owner, nil
}

func (s *fakeStore) MemberRole(ctx context.Context, userID, workspaceID string) (Role, error) {
	role, ok := s.members[workspaceID][userID]
	if !ok {
		return "", ErrNotAMember
	}
	return role, nil
}

// TestPurpose: Validates the total ordering of workspace roles.
// Scope: Unit Test
// Expected: VIEWER < EDITOR < ADMIN, unknown roles rank below everything.
// Test Case ID: AUTHZ-01
func TestRole_Level_Ordering(t *testing.T) {
	assert.Less(t, RoleViewer.Level(), RoleEditor.Level())
	assert.Less(t, RoleEditor.Level(), RoleAdmin.Level())
	assert.Equal(t, 0, Role("OWNER").Level())
	assert.Equal(t, 0, Role("").Level())

	assert.True(t, RoleViewer.Valid())
	assert.True(t, RoleEditor.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("SUPERUSER").Valid())
}

// TestPurpose: Validates that each role's permission set is a strict
// superset of the role below it.
// Scope: Unit Test
// Expected: viewer permissions are contained in editor permissions,
// editor permissions are contained in admin permissions.
// Test Case ID: AUTHZ-02
func TestPermissionsOf_Monotonic(t *testing.T) {
	viewer := PermissionsOf(RoleViewer)
	editor := PermissionsOf(RoleEditor)
	admin := PermissionsOf(RoleAdmin)

	require.NotEmpty(t, viewer)
	assert.Greater(t, len(editor), len(viewer))
	assert.Greater(t, len(admin), len(editor))

	for _, p := range viewer {
		assert.Contains(t, editor, p, "editor must hold viewer permission %s", p)
	}
	for _, p := range editor {
		assert.Contains(t, admin, p, "admin must hold editor permission %s", p)
	}

	assert.Nil(t, PermissionsOf(Role("UNKNOWN")))
}

// TestPurpose: Validates that callers cannot corrupt the internal
// permission tables through the returned slice.
// Scope: Unit Test
// Expected: Mutating the returned slice leaves later calls unchanged.
// Test Case ID: AUTHZ-03
func TestPermissionsOf_ReturnsCopy(t *testing.T) {
	first := PermissionsOf(RoleViewer)
	first[0] = Permission("tampered:tampered")

	second := PermissionsOf(RoleViewer)
	assert.NotContains(t, second, Permission("tampered:tampered"))
}

// TestPurpose: Validates role permission boundaries for member
// management operations.
// Scope: Unit Test
// Security: Only ADMIN-level roles may manage membership.
// Expected: VIEWER and EDITOR lack management permissions, ADMIN holds them.
// Test Case ID: AUTHZ-04
func TestHasPermission_RoleBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		role       Role
		permission Permission
		want       bool
	}{
		{"viewer can view workspace", RoleViewer, PermWorkspaceView, true},
		{"viewer cannot change roles", RoleViewer, PermWorkspaceChangeRoles, false},
		{"viewer cannot create collections", RoleViewer, PermCollectionCreate, false},
		{"viewer cannot send requests", RoleViewer, PermRequestSend, false},
		{"editor can send requests", RoleEditor, PermRequestSend, true},
		{"editor can edit collections", RoleEditor, PermCollectionEdit, true},
		{"editor cannot invite members", RoleEditor, PermWorkspaceInviteMembers, false},
		{"editor cannot edit workspace", RoleEditor, PermWorkspaceEdit, false},
		{"admin can change roles", RoleAdmin, PermWorkspaceChangeRoles, true},
		{"admin can delete history", RoleAdmin, PermHistoryDelete, true},
		{"unknown role grants nothing", Role("GHOST"), PermWorkspaceView, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.role, false, tt.permission))
		})
	}
}

// TestPurpose: Validates that the owner bypass grants every permission
// regardless of the role argument.
// Scope: Unit Test
// Security: Ownership must never be weakened by a missing membership row.
// Expected: isOwner grants all permissions, even with an empty role.
// Test Case ID: AUTHZ-05
func TestHasPermission_OwnerBypass(t *testing.T) {
	for p := range Descriptions {
		assert.True(t, HasPermission("", true, p), "owner must hold %s", p)
	}
}

// TestPurpose: Validates effective role resolution for owners, members
// and strangers.
// Scope: Unit Test
// Expected: Owner resolves to ADMIN with isOwner, members resolve to
// their stored role, non-members fail with ErrNotAMember.
// Test Case ID: AUTHZ-06
func TestEvaluator_ResolveEffectiveRole(t *testing.T) {
	store := newFakeStore()
	store.owners["ws-1"] = "owner-1"
	store.addMember("ws-1", "editor-1", RoleEditor)
	e := NewEvaluator(store)
	ctx := context.Background()

	role, isOwner, err := e.ResolveEffectiveRole(ctx, "owner-1", "ws-1")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)
	assert.True(t, isOwner)

	role, isOwner, err = e.ResolveEffectiveRole(ctx, "editor-1", "ws-1")
	require.NoError(t, err)
	assert.Equal(t, RoleEditor, role)
	assert.False(t, isOwner)

	_, _, err = e.ResolveEffectiveRole(ctx, "stranger", "ws-1")
	assert.ErrorIs(t, err, ErrNotAMember)
}

// TestPurpose: Validates the permission gate across all caller classes.
// Scope: Unit Test
// Security: Fail-closed on anonymous and non-member access.
// Expected: Owner always passes, members pass per role, strangers and
// anonymous callers are rejected with typed errors.
// Test Case ID: AUTHZ-07
func TestEvaluator_RequirePermission(t *testing.T) {
	store := newFakeStore()
	store.owners["ws-1"] = "owner-1"
	store.addMember("ws-1", "viewer-1", RoleViewer)
	store.addMember("ws-1", "editor-1", RoleEditor)
	e := NewEvaluator(store)
	ctx := context.Background()

	gate := e.RequirePermission(PermCollectionCreate)

	assert.NoError(t, gate(ctx, "owner-1", "ws-1"))
	assert.NoError(t, gate(ctx, "editor-1", "ws-1"))

	err := gate(ctx, "viewer-1", "ws-1")
	var denied *PermissionDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, PermCollectionCreate, denied.Permission)

	assert.ErrorIs(t, gate(ctx, "stranger", "ws-1"), ErrNotAMember)
	assert.ErrorIs(t, gate(ctx, "", "ws-1"), ErrUnauthenticated)
}

// TestPurpose: Validates the role-level gate and its owner bypass.
// Scope: Unit Test
// Expected: Roles at or above the requirement pass, lower roles fail
// with RoleTooLowError, the owner passes regardless.
// Test Case ID: AUTHZ-08
func TestEvaluator_RequireRole(t *testing.T) {
	store := newFakeStore()
	store.owners["ws-1"] = "owner-1"
	store.addMember("ws-1", "viewer-1", RoleViewer)
	store.addMember("ws-1", "admin-1", RoleAdmin)
	e := NewEvaluator(store)
	ctx := context.Background()

	gate := e.RequireRole(RoleEditor)

	assert.NoError(t, gate(ctx, "admin-1", "ws-1"))
	assert.NoError(t, gate(ctx, "owner-1", "ws-1"))

	err := gate(ctx, "viewer-1", "ws-1")
	var tooLow *RoleTooLowError
	require.ErrorAs(t, err, &tooLow)
	assert.Equal(t, RoleEditor, tooLow.Required)
	assert.Equal(t, RoleViewer, tooLow.Actual)
}

// TestPurpose: Validates the ownership-only gate used for workspace
// deletion.
// Scope: Unit Test
// Security: Workspace ADMIN members must not pass an ownership check.
// Expected: Only the owner passes; even ADMIN members get ErrNotOwner.
// Test Case ID: AUTHZ-09
func TestEvaluator_RequireOwnership(t *testing.T) {
	store := newFakeStore()
	store.owners["ws-1"] = "owner-1"
	store.addMember("ws-1", "admin-1", RoleAdmin)
	e := NewEvaluator(store)
	ctx := context.Background()

	assert.NoError(t, e.RequireOwnership(ctx, "owner-1", "ws-1"))
	assert.ErrorIs(t, e.RequireOwnership(ctx, "admin-1", "ws-1"), ErrNotOwner)
	assert.ErrorIs(t, e.RequireOwnership(ctx, "", "ws-1"), ErrUnauthenticated)
}

// TestPurpose: Validates the permission string format and catalog
// completeness.
// Scope: Unit Test
// Expected: Every described permission parses as resource:action and
// Describe panics on unknown permissions.
// Test Case ID: AUTHZ-10
func TestPermission_Catalog(t *testing.T) {
	for p := range Descriptions {
		assert.NotEmpty(t, p.Category(), "permission %s must carry a category", p)
		assert.NotEmpty(t, Describe(p))
	}

	assert.Panics(t, func() { Describe(Permission("nope:nope")) })
}
