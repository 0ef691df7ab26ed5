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

package identity

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password does not meet security requirements")
)

// PlatformRole is the platform-wide role of a user. It is unrelated to
// workspace roles: platform admins see the admin dashboard, nothing
// more. Workspace access is always decided per membership.
type PlatformRole string

const (
	PlatformUser  PlatformRole = "USER"
	PlatformAdmin PlatformRole = "ADMIN"
)

// User represents an account on the platform
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	Image        string       `json:"image,omitempty"`
	PlatformRole PlatformRole `json:"platform_role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Credentials represents user authentication credentials
type Credentials struct {
	UserID       string
	PasswordHash string
	UpdatedAt    time.Time
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user account
	Create(user *User) error

	// AddCredentials adds credentials for a user
	AddCredentials(credentials *Credentials) error

	// GetByID retrieves a user by ID
	GetByID(id string) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(email string) (*User, error)

	// GetCredentials retrieves a user's credentials
	GetCredentials(userID string) (*Credentials, error)

	// Update updates user information
	Update(user *User) error

	// List retrieves users with pagination, newest first
	List(ctx context.Context, limit, offset int) ([]*User, error)
}
