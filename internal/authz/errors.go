package authz

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrNotAMember      = errors.New("not a member of this workspace")
	ErrNotOwner        = errors.New("only the workspace owner can perform this action")
)

// PermissionDeniedError reports that the actor's effective role lacks a
// required permission.
type PermissionDeniedError struct {
	Permission Permission
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("permission denied: %s required", e.Permission)
}

// RoleTooLowError reports that the actor's role level is below the
// required level.
type RoleTooLowError struct {
	Required Role
	Actual   Role
}

func (e *RoleTooLowError) Error() string {
	return fmt.Sprintf("role %s required, but actor has %s", e.Required, e.Actual)
}
