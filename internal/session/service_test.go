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

package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{sessions: make(map[string]*Session)}
}

func (r *memoryRepo) Create(ctx context.Context, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *s
	r.sessions[s.ID] = &copied
	return nil
}

func (r *memoryRepo) Get(ctx context.Context, sessionID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *memoryRepo) Touch(ctx context.Context, sessionID string, lastSeen time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	s.LastSeenAt = lastSeen
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}

func (r *memoryRepo) DeleteByUserID(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}

func (r *memoryRepo) DeleteExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for id, s := range r.sessions {
		if s.ExpiresAt.Before(now) {
			delete(r.sessions, id)
		}
	}
	return nil
}

// TestPurpose: Validates session creation and ID uniqueness.
// Scope: Unit Test
// Security: Session IDs must be unguessable and unique.
// Expected: Two sessions for the same user get distinct long IDs.
// Test Case ID: SES-01
func TestService_Create(t *testing.T) {
	service := NewService(newMemoryRepo(), time.Hour, 30*time.Minute)
	ctx := context.Background()

	first, err := service.Create(ctx, "user-1", "10.0.0.1", "test-agent")
	require.NoError(t, err)
	second, err := service.Create(ctx, "user-1", "10.0.0.1", "test-agent")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.GreaterOrEqual(t, len(first.ID), 40)
	assert.Equal(t, "user-1", first.UserID)
	assert.True(t, first.ExpiresAt.After(time.Now()))
}

// TestPurpose: Validates retrieval and lazy expiry of sessions.
// Scope: Unit Test
// Expected: Live sessions are returned; expired and idle sessions are
// deleted on access and reported as expired.
// Test Case ID: SES-02
func TestService_Get_Expiry(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo, time.Hour, 30*time.Minute)
	ctx := context.Background()

	live, err := service.Create(ctx, "user-1", "10.0.0.1", "test-agent")
	require.NoError(t, err)

	got, err := service.Get(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, live.ID, got.ID)

	// Lifetime exceeded.
	expired := &Session{
		ID:         "expired-session",
		UserID:     "user-1",
		ExpiresAt:  time.Now().Add(-time.Minute),
		CreatedAt:  time.Now().Add(-2 * time.Hour),
		LastSeenAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, expired))

	_, err = service.Get(ctx, "expired-session")
	assert.ErrorIs(t, err, ErrSessionExpired)
	_, err = repo.Get(ctx, "expired-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Idle timeout exceeded.
	idle := &Session{
		ID:         "idle-session",
		UserID:     "user-1",
		ExpiresAt:  time.Now().Add(time.Hour),
		CreatedAt:  time.Now().Add(-2 * time.Hour),
		LastSeenAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.Create(ctx, idle))

	_, err = service.Get(ctx, "idle-session")
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = service.Get(ctx, "never-existed")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

// TestPurpose: Validates session teardown paths.
// Scope: Unit Test
// Expected: Destroy removes one session, DestroyAll removes every
// session of a user, CleanupExpired sweeps only dead sessions.
// Test Case ID: SES-03
func TestService_Destroy(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo, time.Hour, 30*time.Minute)
	ctx := context.Background()

	first, err := service.Create(ctx, "user-1", "10.0.0.1", "test-agent")
	require.NoError(t, err)
	second, err := service.Create(ctx, "user-1", "10.0.0.2", "test-agent")
	require.NoError(t, err)

	require.NoError(t, service.Destroy(ctx, first.ID))
	_, err = service.Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = service.Get(ctx, second.ID)
	assert.NoError(t, err)

	require.NoError(t, service.DestroyAll(ctx, "user-1"))
	_, err = service.Get(ctx, second.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

// TestPurpose: Validates refreshing keeps a session from idling out.
// Scope: Unit Test
// Expected: Touching a session advances its last seen time.
// Test Case ID: SES-04
func TestService_Refresh(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo, time.Hour, 30*time.Minute)
	ctx := context.Background()

	sess, err := service.Create(ctx, "user-1", "10.0.0.1", "test-agent")
	require.NoError(t, err)

	before := sess.LastSeenAt
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, service.Refresh(ctx, sess.ID))

	got, err := repo.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, got.LastSeenAt.After(before))
}
