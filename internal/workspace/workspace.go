package workspace

import (
	"context"
	"errors"
	"time"

	"github.com/postboy/postboy/internal/authz"
)

// Domain errors
var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrMemberNotFound    = errors.New("member not found")
	ErrAlreadyMember     = errors.New("user is already a member of this workspace")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidInvite     = errors.New("invite is invalid or has expired")
)

// InvariantError reports a structural membership rule violation. These
// hold regardless of the actor's permissions.
type InvariantError struct {
	Kind    string
	Message string
}

func (e *InvariantError) Error() string {
	return e.Message
}

// Structural invariants enforced by the membership operations.
var (
	ErrOwnerRoleImmutable = &InvariantError{Kind: "owner_role_immutable", Message: "cannot change the workspace owner's role"}
	ErrSelfRoleChange     = &InvariantError{Kind: "self_role_change", Message: "cannot change your own role"}
	ErrOwnerUnremovable   = &InvariantError{Kind: "owner_unremovable", Message: "cannot remove the workspace owner"}
	ErrSelfRemoval        = &InvariantError{Kind: "self_removal", Message: "cannot remove yourself; leave the workspace instead"}
	ErrOwnerCannotLeave   = &InvariantError{Kind: "owner_cannot_leave", Message: "the workspace owner cannot leave; transfer ownership or delete the workspace instead"}
)

// Workspace is a collaborative container owned by exactly one user.
// The owner never appears in the members table; their ADMIN-equivalent
// role is computed, never stored.
type Workspace struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Member ties a user to a workspace with exactly one role. At most one
// membership exists per (user, workspace) pair; the store enforces
// uniqueness.
type Member struct {
	UserID      string     `json:"user_id"`
	WorkspaceID string     `json:"workspace_id"`
	Role        authz.Role `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
}

// UserInfo is the public subset of a user shown in member listings.
type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// MemberInfo is a membership joined with the member's user details.
type MemberInfo struct {
	Member
	User UserInfo `json:"user"`
}

// Repository defines the interface for workspace persistence.
type Repository interface {
	Create(ctx context.Context, ws *Workspace) error
	GetByID(ctx context.Context, id string) (*Workspace, error)
	Update(ctx context.Context, ws *Workspace) error

	// Delete removes the workspace and, by cascade, its memberships,
	// collections and requests.
	Delete(ctx context.Context, id string) error

	// ListByUser returns workspaces the user owns or is a member of.
	ListByUser(ctx context.Context, userID string) ([]*Workspace, error)
}

// MemberRepository defines the interface for membership persistence.
// The store enforces the (user_id, workspace_id) uniqueness constraint;
// Add returns ErrAlreadyMember when it is violated, which is the sole
// concurrency guard against duplicate-membership races.
type MemberRepository interface {
	Add(ctx context.Context, m *Member) error
	Get(ctx context.Context, userID, workspaceID string) (*Member, error)
	UpdateRole(ctx context.Context, userID, workspaceID string, role authz.Role) error
	Remove(ctx context.Context, userID, workspaceID string) error
	ListByWorkspace(ctx context.Context, workspaceID string) ([]*MemberInfo, error)
}

// UserDirectory resolves user identities for invitations and member
// listings. Implemented by the identity store.
type UserDirectory interface {
	// LookupByEmail returns the user ID for an email address, or
	// identity.ErrUserNotFound.
	LookupByEmail(ctx context.Context, email string) (string, error)

	// Lookup returns the public details of a user.
	Lookup(ctx context.Context, userID string) (*UserInfo, error)
}

// Invite is an invitation to join a workspace with a given role.
type Invite struct {
	WorkspaceID string
	Email       string
	Role        authz.Role
}

// InviteIssuer issues and redeems opaque invitation tokens. Tokens are
// unguessable and bound to a workspace; the workspace service treats
// them as opaque strings.
type InviteIssuer interface {
	Issue(ctx context.Context, inv Invite) (string, error)
	Redeem(ctx context.Context, token string) (*Invite, error)
}
