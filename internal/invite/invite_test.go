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

package invite

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/postboy/postboy/internal/authz"
	"github.com/postboy/postboy/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPurpose: Validates the invite token round trip.
// Scope: Unit Test
// Expected: A freshly issued token redeems to the original invitation.
// Test Case ID: INV-01
func TestIssuer_RoundTrip(t *testing.T) {
	issuer := NewIssuer([]byte("test-secret"), time.Hour)
	ctx := context.Background()

	token, err := issuer.Issue(ctx, workspace.Invite{
		WorkspaceID: "ws-1",
		Email:       "new@example.com",
		Role:        authz.RoleEditor,
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	inv, err := issuer.Redeem(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "ws-1", inv.WorkspaceID)
	assert.Equal(t, "new@example.com", inv.Email)
	assert.Equal(t, authz.RoleEditor, inv.Role)
}

// TestPurpose: Validates token signature verification.
// Scope: Unit Test
// Security: Tokens signed with another secret or tampered with must not
// redeem.
// Expected: ErrInvalidToken for wrong-secret, tampered and garbage
// tokens.
// Test Case ID: INV-02
func TestIssuer_RejectsForgedTokens(t *testing.T) {
	issuer := NewIssuer([]byte("real-secret"), time.Hour)
	forger := NewIssuer([]byte("other-secret"), time.Hour)
	ctx := context.Background()

	forged, err := forger.Issue(ctx, workspace.Invite{WorkspaceID: "ws-1", Role: authz.RoleAdmin})
	require.NoError(t, err)

	_, err = issuer.Redeem(ctx, forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	good, err := issuer.Issue(ctx, workspace.Invite{WorkspaceID: "ws-1", Role: authz.RoleViewer})
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	_, err = issuer.Redeem(ctx, tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Redeem(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// TestPurpose: Validates invitation expiry.
// Scope: Unit Test
// Expected: Tokens past their TTL fail with ErrInvalidToken.
// Test Case ID: INV-03
func TestIssuer_ExpiredToken(t *testing.T) {
	issuer := NewIssuer([]byte("test-secret"), -time.Minute)
	ctx := context.Background()

	token, err := issuer.Issue(ctx, workspace.Invite{WorkspaceID: "ws-1", Role: authz.RoleViewer})
	require.NoError(t, err)

	_, err = issuer.Redeem(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// TestPurpose: Validates claim sanity checks on redemption.
// Scope: Unit Test
// Expected: Tokens carrying an unknown role are rejected even with a
// valid signature.
// Test Case ID: INV-04
func TestIssuer_RejectsInvalidRole(t *testing.T) {
	issuer := NewIssuer([]byte("test-secret"), time.Hour)
	ctx := context.Background()

	token, err := issuer.Issue(ctx, workspace.Invite{WorkspaceID: "ws-1", Role: authz.Role("OWNER")})
	require.NoError(t, err)

	_, err = issuer.Redeem(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
