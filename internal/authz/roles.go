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

// Role is a workspace-scoped role stored on a membership record.
// Roles are totally ordered: VIEWER < EDITOR < ADMIN. The workspace
// owner holds no membership row; ownership is resolved separately and
// always evaluates as ADMIN.
type Role string

const (
	RoleViewer Role = "VIEWER"
	RoleEditor Role = "EDITOR"
	RoleAdmin  Role = "ADMIN"
)

// Level returns the position of the role in the hierarchy. Higher
// levels include all capabilities of lower ones. Unknown roles map to
// level 0 and therefore never satisfy a role requirement.
func (r Role) Level() int {
	switch r {
	case RoleViewer:
		return 1
	case RoleEditor:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r.Level() > 0
}

// RoleDescriptions maps each role to a short description for display.
var RoleDescriptions = map[Role]string{
	RoleViewer: "Can view workspace contents read-only",
	RoleEditor: "Can create and edit collections, requests and environments",
	RoleAdmin:  "Full workspace control, including member management",
}

// Role permission sets are built by extension: each tier starts from a
// copy of the tier below it, so the superset invariant
// (viewer ⊆ editor ⊆ admin) holds by construction.
var viewerPermissions = []Permission{
	PermWorkspaceView,
	PermCollectionView,
	PermRequestView,
	PermEnvironmentView,
	PermWebSocketView,
	PermHistoryView,
}

var editorPermissions = extend(viewerPermissions,
	PermCollectionCreate,
	PermCollectionEdit,
	PermCollectionDelete,
	PermRequestCreate,
	PermRequestEdit,
	PermRequestDelete,
	PermRequestSend,
	PermEnvironmentCreate,
	PermEnvironmentEdit,
	PermEnvironmentDelete,
	PermWebSocketConnect,
)

var adminPermissions = extend(editorPermissions,
	PermWorkspaceEdit,
	PermWorkspaceDelete,
	PermWorkspaceInviteMembers,
	PermWorkspaceRemoveMembers,
	PermWorkspaceChangeRoles,
	PermHistoryDelete,
)

func extend(base []Permission, extra ...Permission) []Permission {
	out := make([]Permission, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}

// PermissionsOf returns the permission set granted by a role. The
// returned slice is a copy; callers may not mutate the underlying
// tables. Unknown roles grant nothing.
func PermissionsOf(r Role) []Permission {
	var set []Permission
	switch r {
	case RoleViewer:
		set = viewerPermissions
	case RoleEditor:
		set = editorPermissions
	case RoleAdmin:
		set = adminPermissions
	default:
		return nil
	}
	out := make([]Permission, len(set))
	copy(out, set)
	return out
}
