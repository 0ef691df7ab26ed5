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
	"fmt"
	"strings"
)

// Permission is a fine-grained capability string of the form
// "<resource>:<action>". The set of permissions is fixed at compile time;
// permissions are never persisted.
type Permission string

// Workspace permissions
const (
	PermWorkspaceView          Permission = "workspace:view"
	PermWorkspaceEdit          Permission = "workspace:edit"
	PermWorkspaceDelete        Permission = "workspace:delete"
	PermWorkspaceInviteMembers Permission = "workspace:invite_members"
	PermWorkspaceRemoveMembers Permission = "workspace:remove_members"
	PermWorkspaceChangeRoles   Permission = "workspace:change_roles"
)

// Collection permissions
const (
	PermCollectionView   Permission = "collection:view"
	PermCollectionCreate Permission = "collection:create"
	PermCollectionEdit   Permission = "collection:edit"
	PermCollectionDelete Permission = "collection:delete"
)

// Request permissions
const (
	PermRequestView   Permission = "request:view"
	PermRequestCreate Permission = "request:create"
	PermRequestEdit   Permission = "request:edit"
	PermRequestDelete Permission = "request:delete"
	PermRequestSend   Permission = "request:send"
)

// Environment permissions
const (
	PermEnvironmentView   Permission = "environment:view"
	PermEnvironmentCreate Permission = "environment:create"
	PermEnvironmentEdit   Permission = "environment:edit"
	PermEnvironmentDelete Permission = "environment:delete"
)

// WebSocket permissions
const (
	PermWebSocketView    Permission = "websocket:view"
	PermWebSocketConnect Permission = "websocket:connect"
)

// History permissions
const (
	PermHistoryView   Permission = "history:view"
	PermHistoryDelete Permission = "history:delete"
)

// Descriptions maps every permission to a human-readable description,
// used by the UI to explain what a role grants.
var Descriptions = map[Permission]string{
	PermWorkspaceView:          "View workspace details and members",
	PermWorkspaceEdit:          "Edit workspace name and description",
	PermWorkspaceDelete:        "Delete the workspace",
	PermWorkspaceInviteMembers: "Invite new members to the workspace",
	PermWorkspaceRemoveMembers: "Remove members from the workspace",
	PermWorkspaceChangeRoles:   "Change member roles",
	PermCollectionView:         "View collections",
	PermCollectionCreate:       "Create new collections",
	PermCollectionEdit:         "Edit collections",
	PermCollectionDelete:       "Delete collections",
	PermRequestView:            "View API requests",
	PermRequestCreate:          "Create new API requests",
	PermRequestEdit:            "Edit API requests",
	PermRequestDelete:          "Delete API requests",
	PermRequestSend:            "Send API requests",
	PermEnvironmentView:        "View environments",
	PermEnvironmentCreate:      "Create new environments",
	PermEnvironmentEdit:        "Edit environments and variables",
	PermEnvironmentDelete:      "Delete environments",
	PermWebSocketView:          "View WebSocket connections",
	PermWebSocketConnect:       "Open WebSocket connections",
	PermHistoryView:            "View request history",
	PermHistoryDelete:          "Delete request history",
}

// Describe returns the description for a permission. Asking for an
// unknown permission is a programming error and panics.
func Describe(p Permission) string {
	desc, ok := Descriptions[p]
	if !ok {
		panic(fmt.Sprintf("authz: unknown permission %q", p))
	}
	return desc
}

// Category returns the resource prefix of a permission, e.g.
// "workspace" for "workspace:edit". Used for grouping in the UI.
func (p Permission) Category() string {
	if i := strings.IndexByte(string(p), ':'); i > 0 {
		return string(p)[:i]
	}
	return string(p)
}
