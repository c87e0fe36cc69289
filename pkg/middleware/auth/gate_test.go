package authmw

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/pkg/response"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevocations) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[jti], nil
}

type gateEnv struct {
	e       *echo.Echo
	ts      *tokens.Service
	revoked *fakeRevocations
	calls   int
	seen    string
}

func newGateEnv(t *testing.T) *gateEnv {
	t.Helper()

	ts, err := tokens.NewService([]byte("test-jwt-secret"), time.Hour)
	require.NoError(t, err)

	env := &gateEnv{e: echo.New(), ts: ts, revoked: &fakeRevocations{revoked: map[string]bool{}}}
	gate := NewGate(ts, env.revoked)

	env.e.GET("/private", func(c echo.Context) error {
		env.calls++
		env.seen = UserID(c)
		return c.NoContent(http.StatusOK)
	}, gate.RequireAuth)
	return env
}

func (env *gateEnv) do(token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if token != "" {
		req.Header.Set(HeaderName, token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestGate_NoToken_ShortCircuits(t *testing.T) {
	env := newGateEnv(t)

	rec := env.do("")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, MsgNoToken, body.Error)
	assert.Zero(t, env.calls)
}

func TestGate_InvalidToken_ShortCircuits(t *testing.T) {
	env := newGateEnv(t)

	rec := env.do("garbage.token.value")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, MsgInvalidToken, body.Error)
	assert.Zero(t, env.calls)
}

func TestGate_ValidToken_InjectsIdentity(t *testing.T) {
	env := newGateEnv(t)

	token, err := env.ts.Issue("user-42")
	require.NoError(t, err)

	rec := env.do(token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, env.calls)
	assert.Equal(t, "user-42", env.seen)
}

func TestGate_RevokedToken(t *testing.T) {
	env := newGateEnv(t)

	token, err := env.ts.Issue("user-42")
	require.NoError(t, err)
	claims, err := env.ts.Parse(token)
	require.NoError(t, err)
	env.revoked.revoked[claims.ID] = true

	rec := env.do(token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, MsgInvalidToken, decode(t, rec).Error)
	assert.Zero(t, env.calls)
}

func TestGate_LookupFailure_Is500(t *testing.T) {
	env := newGateEnv(t)
	env.revoked.err = errors.New("db down")

	token, err := env.ts.Issue("user-42")
	require.NoError(t, err)

	rec := env.do(token)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "db down", body.Error)
	assert.Zero(t, env.calls)
}

func TestGate_Check(t *testing.T) {
	ts, err := tokens.NewService([]byte("test-jwt-secret"), time.Hour)
	require.NoError(t, err)
	revoked := &fakeRevocations{revoked: map[string]bool{}}
	gate := NewGate(ts, revoked)
	ctx := context.Background()

	token, err := ts.Issue("u")
	require.NoError(t, err)

	ok, err := gate.Check(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = gate.Check(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	claims, err := ts.Parse(token)
	require.NoError(t, err)
	revoked.revoked[claims.ID] = true
	ok, err = gate.Check(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
}
