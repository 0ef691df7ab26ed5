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

package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/postboy/postboy/internal/audit"
	"github.com/postboy/postboy/internal/authz"
	"github.com/postboy/postboy/internal/identity"
)

// Service provides platform administration. Access is gated on the
// user's platform role, which is independent of any workspace role.
type Service struct {
	users       identity.UserRepository
	stats       StatsRepository
	auditLogger audit.Logger
}

// NewService creates a new admin service
func NewService(users identity.UserRepository, stats StatsRepository, auditLogger audit.Logger) *Service {
	return &Service{
		users:       users,
		stats:       stats,
		auditLogger: auditLogger,
	}
}

// RequireAdmin fails unless the actor is a platform admin.
func (s *Service) RequireAdmin(ctx context.Context, actorID string) error {
	if actorID == "" {
		return authz.ErrUnauthenticated
	}
	user, err := s.users.GetByID(actorID)
	if err != nil {
		return authz.ErrUnauthenticated
	}
	if user.PlatformRole != identity.PlatformAdmin {
		return ErrNotPlatformAdmin
	}
	return nil
}

// Stats returns a platform usage snapshot for the admin dashboard.
func (s *Service) Stats(ctx context.Context, actorID string) (*Stats, error) {
	if err := s.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	users, err := s.stats.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	workspaces, err := s.stats.CountWorkspaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count workspaces: %w", err)
	}
	collections, err := s.stats.CountCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count collections: %w", err)
	}
	requests, err := s.stats.CountRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count requests: %w", err)
	}
	signups, err := s.stats.SignupsByDay(ctx, 30)
	if err != nil {
		return nil, fmt.Errorf("failed to load signups: %w", err)
	}

	return &Stats{
		Users:       users,
		Workspaces:  workspaces,
		Collections: collections,
		Requests:    requests,
		Signups:     signups,
	}, nil
}

// ListUsers returns a page of user accounts, newest first.
func (s *Service) ListUsers(ctx context.Context, actorID string, limit, offset int) ([]*identity.User, error) {
	if err := s.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.users.List(ctx, limit, offset)
}

// PromoteUser grants a user the platform admin role.
func (s *Service) PromoteUser(ctx context.Context, actorID, targetUserID string) error {
	if err := s.RequireAdmin(ctx, actorID); err != nil {
		return err
	}

	user, err := s.users.GetByID(targetUserID)
	if err != nil {
		return err
	}
	if user.PlatformRole == identity.PlatformAdmin {
		return nil
	}

	user.PlatformRole = identity.PlatformAdmin
	user.UpdatedAt = time.Now()
	if err := s.users.Update(user); err != nil {
		return fmt.Errorf("failed to promote user: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:    audit.TypeUserPromoted,
		ActorID: actorID,
		Metadata: map[string]any{
			"user_id": targetUserID,
		},
	})
	return nil
}
