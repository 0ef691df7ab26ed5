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
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/postboy/postboy/internal/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepo is an in-memory UserRepository for service tests.
type memoryRepo struct {
	mu    sync.Mutex
	users map[string]*User
	creds map[string]*Credentials
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		users: make(map[string]*User),
		creds: make(map[string]*Credentials),
	}
}

func (r *memoryRepo) Create(user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrUserAlreadyExists
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memoryRepo) AddCredentials(credentials *Credentials) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *credentials
	r.creds[credentials.UserID] = &copied
	return nil
}

func (r *memoryRepo) GetByID(id string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memoryRepo) GetByEmail(email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memoryRepo) GetCredentials(userID string) (*Credentials, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.creds[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *memoryRepo) Update(user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memoryRepo) List(ctx context.Context, limit, offset int) ([]*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*User
	for _, u := range r.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

type nopAudit struct{}

func (nopAudit) Log(context.Context, audit.Event) {}

func testHasher() *PasswordHasher {
	// Reduced parameters keep the test suite fast.
	return NewPasswordHasher(16*1024, 1, 1, 16, 32)
}

func newTestService() (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	return NewService(repo, testHasher(), nopAudit{}), repo
}

// TestPurpose: Validates Argon2id hashing and verification.
// Scope: Unit Test
// Security: Password hashes must verify the original and reject others;
// two hashes of the same password must differ (random salt).
// Test Case ID: IDN-01
func TestPasswordHasher_RoundTrip(t *testing.T) {
	hasher := testHasher()

	hash, err := hasher.Hash("correct horse battery")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := hasher.Verify("correct horse battery", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	second, err := hasher.Hash("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, hash, second)

	_, err = hasher.Verify("anything", "not-a-hash")
	assert.Error(t, err)
}

// TestPurpose: Validates registration input checks and ID generation.
// Scope: Unit Test
// Expected: Valid input yields a UUIDv7 user with the USER platform
// role; invalid emails, weak passwords and duplicates are rejected.
// Test Case ID: IDN-02
func TestService_Register(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	user, err := service.Register(ctx, "dev@example.com", "Dev", "s3cret-pass")
	require.NoError(t, err)
	uid, err := uuid.Parse(user.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), uid.Version())
	assert.Equal(t, PlatformUser, user.PlatformRole)

	_, err = service.Register(ctx, "dev@example.com", "Dev", "s3cret-pass")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = service.Register(ctx, "not-an-email", "Dev", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = service.Register(ctx, "other@example.com", "Dev", "short")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

// TestPurpose: Validates authentication behavior.
// Scope: Unit Test
// Security: Unknown emails and wrong passwords must be
// indistinguishable to the caller.
// Expected: Both failure modes return ErrInvalidCredentials.
// Test Case ID: IDN-03
func TestService_Authenticate(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	registered, err := service.Register(ctx, "dev@example.com", "Dev", "s3cret-pass")
	require.NoError(t, err)

	user, err := service.Authenticate(ctx, "dev@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = service.Authenticate(ctx, "dev@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Authenticate(ctx, "ghost@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// TestPurpose: Validates password changes.
// Scope: Unit Test
// Expected: The old password is required, the new one must be strong,
// and the change takes effect immediately.
// Test Case ID: IDN-04
func TestService_ChangePassword(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	user, err := service.Register(ctx, "dev@example.com", "Dev", "s3cret-pass")
	require.NoError(t, err)

	assert.ErrorIs(t, service.ChangePassword(ctx, user.ID, "wrong-pass", "new-password"), ErrInvalidCredentials)
	assert.ErrorIs(t, service.ChangePassword(ctx, user.ID, "s3cret-pass", "short"), ErrWeakPassword)

	require.NoError(t, service.ChangePassword(ctx, user.ID, "s3cret-pass", "new-password"))

	_, err = service.Authenticate(ctx, "dev@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Authenticate(ctx, "dev@example.com", "new-password")
	assert.NoError(t, err)
}
