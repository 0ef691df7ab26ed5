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
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/postboy/postboy/internal/identity"
	"github.com/postboy/postboy/internal/workspace"
)

// UserRepository implements identity.UserRepository and the
// workspace.UserDirectory lookups.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user account
func (r *UserRepository) Create(user *identity.User) error {
	ctx := context.Background()
	now := time.Now()

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO users (id, email, name, image, platform_role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, user.ID, user.Email, user.Name, user.Image, user.PlatformRole, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return identity.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// AddCredentials stores or replaces a user's credentials
func (r *UserRepository) AddCredentials(credentials *identity.Credentials) error {
	ctx := context.Background()
	now := time.Now()

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO credentials (user_id, password_hash, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET password_hash = $2, updated_at = $3
	`, credentials.UserID, credentials.PasswordHash, now)
	if err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	credentials.UpdatedAt = now
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id string) (*identity.User, error) {
	return r.get(`WHERE id = $1`, id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*identity.User, error) {
	return r.get(`WHERE email = $1`, email)
}

func (r *UserRepository) get(where string, arg any) (*identity.User, error) {
	ctx := context.Background()

	var user identity.User
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, email, name, image, platform_role, created_at, updated_at
		FROM users `+where,
		arg,
	).Scan(&user.ID, &user.Email, &user.Name, &user.Image, &user.PlatformRole, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetCredentials retrieves a user's credentials
func (r *UserRepository) GetCredentials(userID string) (*identity.Credentials, error) {
	ctx := context.Background()

	var creds identity.Credentials
	err := r.db.pool.QueryRow(ctx, `
		SELECT user_id, password_hash, updated_at
		FROM credentials WHERE user_id = $1
	`, userID).Scan(&creds.UserID, &creds.PasswordHash, &creds.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get credentials: %w", err)
	}
	return &creds, nil
}

// Update updates user information
func (r *UserRepository) Update(user *identity.User) error {
	ctx := context.Background()

	tag, err := r.db.pool.Exec(ctx, `
		UPDATE users SET name = $2, image = $3, platform_role = $4, updated_at = $5
		WHERE id = $1
	`, user.ID, user.Name, user.Image, user.PlatformRole, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return identity.ErrUserNotFound
	}
	return nil
}

// List retrieves users with pagination, newest first
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*identity.User, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, email, name, image, platform_role, created_at, updated_at
		FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*identity.User
	for rows.Next() {
		var user identity.User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.Image, &user.PlatformRole, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

// LookupByEmail implements workspace.UserDirectory
func (r *UserRepository) LookupByEmail(ctx context.Context, email string) (string, error) {
	var id string
	err := r.db.pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", identity.ErrUserNotFound
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}
	return id, nil
}

// Lookup implements workspace.UserDirectory
func (r *UserRepository) Lookup(ctx context.Context, userID string) (*workspace.UserInfo, error) {
	var info workspace.UserInfo
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, name, email, image FROM users WHERE id = $1
	`, userID).Scan(&info.ID, &info.Name, &info.Email, &info.Image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return &info, nil
}
