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
	"testing"
	"time"

	"github.com/postboy/postboy/internal/audit"
	"github.com/postboy/postboy/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(user *identity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockUserRepo) AddCredentials(credentials *identity.Credentials) error {
	args := m.Called(credentials)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(id string) (*identity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Return a copy so callers mutating the result (as PromoteUser does)
	// don't alias the shared fixture, mirroring a real repository.
	user := *args.Get(0).(*identity.User)
	return &user, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(email string) (*identity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepo) GetCredentials(userID string) (*identity.Credentials, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Credentials), args.Error(1)
}

func (m *mockUserRepo) Update(user *identity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]*identity.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.User), args.Error(1)
}

type mockStatsRepo struct {
	mock.Mock
}

func (m *mockStatsRepo) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStatsRepo) CountWorkspaces(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStatsRepo) CountCollections(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStatsRepo) CountRequests(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStatsRepo) SignupsByDay(ctx context.Context, days int) ([]DayCount, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DayCount), args.Error(1)
}

type nopAudit struct{}

func (nopAudit) Log(context.Context, audit.Event) {}

func adminUser(id string) *identity.User {
	return &identity.User{ID: id, Email: id + "@example.com", PlatformRole: identity.PlatformAdmin}
}

func regularUser(id string) *identity.User {
	return &identity.User{ID: id, Email: id + "@example.com", PlatformRole: identity.PlatformUser}
}

// TestPurpose: Validates the platform admin gate.
// Scope: Unit Test
// Security: Platform administration is independent of workspace roles.
// Expected: Admins pass, regular users fail with ErrNotPlatformAdmin,
// anonymous and unknown actors fail closed.
// Test Case ID: ADM-01
func TestService_RequireAdmin(t *testing.T) {
	users := new(mockUserRepo)
	service := NewService(users, new(mockStatsRepo), nopAudit{})
	ctx := context.Background()

	users.On("GetByID", "admin-1").Return(adminUser("admin-1"), nil)
	users.On("GetByID", "user-1").Return(regularUser("user-1"), nil)
	users.On("GetByID", "ghost").Return(nil, identity.ErrUserNotFound)

	assert.NoError(t, service.RequireAdmin(ctx, "admin-1"))
	assert.ErrorIs(t, service.RequireAdmin(ctx, "user-1"), ErrNotPlatformAdmin)
	assert.Error(t, service.RequireAdmin(ctx, "ghost"))
	assert.Error(t, service.RequireAdmin(ctx, ""))
}

// TestPurpose: Validates the platform stats snapshot.
// Scope: Unit Test
// Expected: All counters and the 30-day signup series are aggregated;
// non-admins are rejected before any query runs.
// Test Case ID: ADM-02
func TestService_Stats(t *testing.T) {
	users := new(mockUserRepo)
	stats := new(mockStatsRepo)
	service := NewService(users, stats, nopAudit{})
	ctx := context.Background()

	users.On("GetByID", "admin-1").Return(adminUser("admin-1"), nil)
	users.On("GetByID", "user-1").Return(regularUser("user-1"), nil)

	// Non-admins are rejected before any query runs.
	_, err := service.Stats(ctx, "user-1")
	assert.ErrorIs(t, err, ErrNotPlatformAdmin)
	stats.AssertNotCalled(t, "CountUsers", mock.Anything)

	stats.On("CountUsers", ctx).Return(int64(12), nil)
	stats.On("CountWorkspaces", ctx).Return(int64(4), nil)
	stats.On("CountCollections", ctx).Return(int64(9), nil)
	stats.On("CountRequests", ctx).Return(int64(31), nil)
	stats.On("SignupsByDay", ctx, 30).Return([]DayCount{{Day: time.Now(), Count: 3}}, nil)

	snapshot, err := service.Stats(ctx, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, int64(12), snapshot.Users)
	assert.Equal(t, int64(31), snapshot.Requests)
	assert.Len(t, snapshot.Signups, 1)
}

// TestPurpose: Validates user promotion semantics.
// Scope: Unit Test
// Expected: Promotion sets the ADMIN platform role, promoting an admin
// again is a no-op, and only admins may promote.
// Test Case ID: ADM-03
func TestService_PromoteUser(t *testing.T) {
	users := new(mockUserRepo)
	service := NewService(users, new(mockStatsRepo), nopAudit{})
	ctx := context.Background()

	users.On("GetByID", "admin-1").Return(adminUser("admin-1"), nil)
	users.On("GetByID", "admin-2").Return(adminUser("admin-2"), nil)
	users.On("GetByID", "user-1").Return(regularUser("user-1"), nil)

	users.On("Update", mock.MatchedBy(func(u *identity.User) bool {
		return u.ID == "user-1" && u.PlatformRole == identity.PlatformAdmin
	})).Return(nil).Once()

	require.NoError(t, service.PromoteUser(ctx, "admin-1", "user-1"))

	// Already an admin: nothing to update.
	require.NoError(t, service.PromoteUser(ctx, "admin-1", "admin-2"))
	users.AssertNumberOfCalls(t, "Update", 1)

	assert.ErrorIs(t, service.PromoteUser(ctx, "user-1", "admin-2"), ErrNotPlatformAdmin)
}

// TestPurpose: Validates user listing pagination bounds.
// Scope: Unit Test
// Expected: Out-of-range limits are clamped to the default page size.
// Test Case ID: ADM-04
func TestService_ListUsers(t *testing.T) {
	users := new(mockUserRepo)
	service := NewService(users, new(mockStatsRepo), nopAudit{})
	ctx := context.Background()

	users.On("GetByID", "admin-1").Return(adminUser("admin-1"), nil)
	users.On("List", ctx, 50, 0).Return([]*identity.User{regularUser("user-1")}, nil)

	listed, err := service.ListUsers(ctx, "admin-1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	listed, err = service.ListUsers(ctx, "admin-1", 10000, 0)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}
