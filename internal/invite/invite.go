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

// Package invite issues signed workspace invitation tokens. Tokens are
// HMAC-signed JWTs carrying the workspace, invited email and role; to
// everything outside this package they are opaque strings.
package invite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/postboy/postboy/internal/authz"
	"github.com/postboy/postboy/internal/id"
	"github.com/postboy/postboy/internal/workspace"
)

var ErrInvalidToken = errors.New("invalid invite token")

type claims struct {
	WorkspaceID string     `json:"workspace_id"`
	Email       string     `json:"email,omitempty"`
	Role        authz.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issuer implements workspace.InviteIssuer with signed JWTs.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an invite issuer. The secret must be shared by all
// instances that redeem tokens.
func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

// Issue creates a new invitation token.
func (i *Issuer) Issue(ctx context.Context, inv workspace.Invite) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		WorkspaceID: inv.WorkspaceID,
		Email:       inv.Email,
		Role:        inv.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.NewUUIDv7(),
			Issuer:    "postboy",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign invite token: %w", err)
	}
	return signed, nil
}

// Redeem validates a token and returns the invitation it carries.
func (i *Issuer) Redeem(ctx context.Context, tokenString string) (*workspace.Invite, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithIssuer("postboy"), jwt.WithExpirationRequired())
	if err != nil {
		return nil, ErrInvalidToken
	}

	c, ok := token.Claims.(*claims)
	if !ok || c.WorkspaceID == "" || !c.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return &workspace.Invite{
		WorkspaceID: c.WorkspaceID,
		Email:       c.Email,
		Role:        c.Role,
	}, nil
}
