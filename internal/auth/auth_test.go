package auth_test

import (
	"net/http"
	"testing"
	"time"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newAuth(t *testing.T) (*auth.Auth, *clock) {
	t.Helper()
	clk := &clock{t: time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)}
	a, err := auth.NewAuth("test-secret")
	require.NoError(t, err)
	return a.WithClock(clk.now), clk
}

func TestEphemeralTokenExpiry(t *testing.T) {
	a, clk := newAuth(t)
	start := clk.t

	token, err := a.IssueAction("acc-1", auth.RoleAdmin, "SEDE_EDIT")
	require.NoError(t, err)

	clk.t = start.Add(59 * time.Second)
	claims, err := a.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.Subject)
	assert.Equal(t, auth.ScopeAction, claims.Scope)
	assert.Equal(t, "SEDE_EDIT", claims.Action)
	assert.Equal(t, start.Add(auth.EphemeralTTL).Unix(), claims.ExpiresAt)

	clk.t = start.Add(61 * time.Second)
	_, err = a.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	a, clk := newAuth(t)
	other, err := auth.NewAuth("another-secret")
	require.NoError(t, err)
	other.WithClock(clk.now)

	token, err := other.IssueSession("acc-1", auth.RoleEmployee, time.Hour)
	require.NoError(t, err)

	_, err = a.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)

	_, err = a.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestRevealClaims(t *testing.T) {
	a, _ := newAuth(t)

	token, err := a.IssueReveal("admin-1", "emp-9", auth.RoleAdmin)
	require.NoError(t, err)

	claims, err := a.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, auth.ScopeRevealPII, claims.Scope)
	assert.Equal(t, "emp-9", claims.TargetSubject)
	assert.Equal(t, auth.RoleAdmin, claims.ActorRole)
	assert.Empty(t, claims.Role)
}

func TestAuthorized(t *testing.T) {
	claims := auth.Claims{Role: auth.RoleAdmin}
	assert.True(t, claims.Authorized(auth.RoleAdmin, auth.RoleSuperAdmin))
	assert.False(t, claims.Authorized(auth.RoleSuperAdmin))
	assert.False(t, claims.Authorized())
}

func TestPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, auth.VerifyPassword("s3cret-pass", hash))
	assert.False(t, auth.VerifyPassword("wrong", hash))
	assert.False(t, auth.VerifyPassword("s3cret-pass", ""))
}

func TestNewAuthRequiresSecret(t *testing.T) {
	_, err := auth.NewAuth("")
	assert.Error(t, err)
}

func TestParseBearer(t *testing.T) {
	tok, err := auth.ParseBearer("bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	for _, h := range []string{"", "abc", "Basic abc", "Bearer a b"} {
		_, err = auth.ParseBearer(h)
		assert.Equal(t, http.StatusUnauthorized, web.StatusOf(err), h)
	}
}
