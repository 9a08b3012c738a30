package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-bff/internal/clock"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return tok
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("operator")
	require.NoError(t, err)
	assert.Equal(t, RoleOperator, r)

	_, err = ParseRole("SUPERUSER")
	assert.Error(t, err)
}

func TestRoleCapabilities(t *testing.T) {
	cases := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{RoleUser, CapBook, true},
		{RoleUser, CapViewAllBookings, false},
		{RoleUser, CapProcessRefund, false},
		{RoleAdmin, CapBook, false},
		{RoleAdmin, CapViewAllBookings, true},
		{RoleAdmin, CapManageOperators, true},
		{RoleAdmin, CapProcessRefund, false},
		{RoleOperator, CapProcessRefund, true},
		{RoleOperator, CapManageFleet, true},
		{RoleOperator, CapManageOperators, false},
		{RoleOperator, CapDeleteBookings, false},
		{Role("GUEST"), CapViewOwnBookings, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.role.Can(tc.cap), "%s %s", tc.role, tc.cap)
	}
}

func TestSessionRequire(t *testing.T) {
	var none *Session
	assert.ErrorIs(t, none.Require(CapBook), ErrUnauthenticated)

	s := &Session{Token: "t", Role: RoleAdmin}
	assert.NoError(t, s.Require(CapDeleteBookings))
	assert.ErrorIs(t, s.Require(CapBook), ErrForbidden)
}

func TestSessionAuthenticated(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	s := &Session{Token: "t", ExpiresAt: now.Add(time.Minute)}

	assert.True(t, s.Authenticated(now))
	assert.False(t, s.Authenticated(now.Add(time.Hour)))
	assert.False(t, (&Session{}).Authenticated(now))
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	s := &Session{ID: "abc"}
	got, ok := FromContext(WithSession(context.Background(), s))
	require.True(t, ok)
	assert.Same(t, s, got)
}

func TestClaimsFromToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signedToken(t, jwt.MapClaims{"sub": "alice", "userId": float64(42), "role": "USER", "exp": exp.Unix()})

	c, err := ClaimsFromToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", c.Subject)
	assert.Equal(t, int64(42), c.UserID)
	assert.Equal(t, "USER", c.Role)
	assert.True(t, exp.Equal(c.ExpiresAt))

	_, err = ClaimsFromToken("not-a-jwt")
	assert.Error(t, err)
}

func TestFromLogin(t *testing.T) {
	tok := signedToken(t, jwt.MapClaims{"sub": "7"})

	s, err := FromLogin("sid", tok, "USER", "bob", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(7), s.UserID)
	assert.Equal(t, RoleUser, s.Role)

	_, err = FromLogin("sid", "", "USER", "bob", 1)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = FromLogin("sid", "opaque", "ROOT", "bob", 1)
	assert.Error(t, err)

	// tokens opacos continuam válidos
	s, err = FromLogin("sid", "opaque", "ADMIN", "root", 1)
	require.NoError(t, err)
	assert.True(t, s.ExpiresAt.IsZero())
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	mc := clock.NewMockClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	store := NewMemoryStore(time.Hour, mc)

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, &Session{ID: "s1", Token: "t", Role: RoleUser, Username: "u"}))
	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "u", got.Username)

	require.NoError(t, store.PushFlash(ctx, "s1", "booking_success", "Booking confirmed"))
	msg, ok, err := store.PopFlash(ctx, "s1", "booking_success")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Booking confirmed", msg)

	_, ok, err = store.PopFlash(ctx, "s1", "booking_success")
	require.NoError(t, err)
	assert.False(t, ok, "flash messages are consumed once")

	require.NoError(t, store.PushFlash(ctx, "s1", "a", "1"))
	all, err := store.PopAllFlashes(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1"}, all)

	mc.Advance(2 * time.Hour)
	_, err = store.Load(ctx, "s1")
	assert.True(t, errors.Is(err, ErrNotFound), "expired sessions are dropped")
}

func TestMemoryStoreDeleteClearsFlashes(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0, nil)

	require.NoError(t, store.Save(ctx, &Session{ID: "s1", Token: "t", Role: RoleUser}))
	require.NoError(t, store.PushFlash(ctx, "s1", "k", "v"))
	require.NoError(t, store.Delete(ctx, "s1"))

	_, err := store.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.PushFlash(ctx, "s1", "k", "v"), ErrNotFound)
}

func TestDecodeSession(t *testing.T) {
	s, err := decodeSession("sid", map[string]string{
		"token": "t", "role": "OPERATOR", "username": "op", "userId": "9", "expiresAt": "0",
	})
	require.NoError(t, err)
	assert.Equal(t, RoleOperator, s.Role)
	assert.Equal(t, int64(9), s.UserID)
	assert.True(t, s.ExpiresAt.IsZero())

	_, err = decodeSession("sid", map[string]string{"role": "nobody"})
	assert.Error(t, err)
}
