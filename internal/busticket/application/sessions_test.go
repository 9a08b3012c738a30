package application

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-bff/internal/backend"
	"github.com/mateusmacedo/go-bff/internal/clock"
	"github.com/mateusmacedo/go-bff/internal/session"
	pkgApp "github.com/mateusmacedo/go-bff/pkg/application"
)

type tokenGateway struct {
	*fakeGateway
	token string
}

func (g *tokenGateway) Login(ctx context.Context, username, password string) (backend.LoginResponse, error) {
	resp, err := g.fakeGateway.Login(ctx, username, password)
	if err == nil {
		resp.Token = g.token
		resp.UserID = 0
	}
	return resp, err
}

func newSessions(t *testing.T, gateway AuthGateway) (*Sessions, *clock.MockClock) {
	t.Helper()
	c := clock.NewMockClock(testNow)
	store := session.NewMemoryStore(24*time.Hour, c)
	return NewSessions(gateway, store, func() string { return "sess-1" }, c, pkgApp.NopLogger{}), c
}

func TestSessions_LoginAndResolve(t *testing.T) {
	sessions, _ := newSessions(t, newFakeGateway())
	ctx := context.Background()

	s, err := sessions.Login(ctx, "asha", "secret")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", s.ID)
	assert.Equal(t, session.RoleUser, s.Role)
	assert.Equal(t, int64(7), s.UserID)

	resolved, err := sessions.Resolve(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "asha", resolved.Username)

	require.NoError(t, sessions.Logout(ctx, "sess-1"))
	_, err = sessions.Resolve(ctx, "sess-1")
	assert.ErrorIs(t, err, session.ErrUnauthenticated)
}

func TestSessions_LoginValidation(t *testing.T) {
	g := newFakeGateway()
	sessions, _ := newSessions(t, g)

	_, err := sessions.Login(context.Background(), " ", "")
	var verr ValidationErrors
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr, 2)
	assert.Empty(t, g.Calls())
}

func TestSessions_RejectedCredentials(t *testing.T) {
	sessions, _ := newSessions(t, newFakeGateway())

	_, err := sessions.Login(context.Background(), "intruder", "guess")
	assert.ErrorIs(t, err, session.ErrUnauthenticated)
	assert.Equal(t, 401, backend.StatusOf(err))
	assert.Contains(t, err.Error(), "Invalid credentials")
}

func TestSessions_ExpiryFromToken(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    "asha",
		"userId": 42,
		"exp":    testNow.Add(time.Hour).Unix(),
	}).SignedString([]byte("any-key"))
	require.NoError(t, err)

	sessions, c := newSessions(t, &tokenGateway{fakeGateway: newFakeGateway(), token: token})
	ctx := context.Background()

	s, err := sessions.Login(ctx, "asha", "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(42), s.UserID)
	assert.Equal(t, testNow.Add(time.Hour).Unix(), s.ExpiresAt.Unix())

	_, err = sessions.Resolve(ctx, s.ID)
	require.NoError(t, err)

	c.Advance(2 * time.Hour)
	_, err = sessions.Resolve(ctx, s.ID)
	assert.ErrorIs(t, err, session.ErrUnauthenticated)
}

func TestSessions_Flashes(t *testing.T) {
	h := newHarness(t, "")
	ctx := h.login(t, session.RoleUser, 7)
	id := openWithSeats(t, h, ctx, "A1")
	_, err := h.workflow.Checkout(ctx, CheckoutBookingData{CheckoutID: id, Form: validForm()})
	require.NoError(t, err)

	sessions := NewSessions(h.gateway, h.sessions, nil, h.clock, pkgApp.NopLogger{})
	flashes, err := sessions.Flashes(ctx, "sess-USER-7")
	require.NoError(t, err)
	assert.Equal(t, "Booking #101 confirmed. Payment #501 received.", flashes[FlashBookingSuccess])

	flashes, err = sessions.Flashes(ctx, "sess-USER-7")
	require.NoError(t, err)
	assert.Empty(t, flashes, "flash messages are consumed once")
}
