package httpserver

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmw "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

func TestHealth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "")

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/health/ready", "", nil).Code)
}

func TestUnmatchedRouteWithoutClient(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "")

	rec := env.do(http.MethodGet, "/nowhere", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	res := env.envelope(rec)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestWebClientFallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>shop</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))
	env := newTestEnv(t, dir)

	for _, path := range []string{"/", "/cart", "/landing/123"} {
		rec := env.do(http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "<html>shop</html>", path)
	}

	rec := env.do(http.MethodGet, "/app.js", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log(1)", rec.Body.String())

	rec = env.do(http.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPost, "/nowhere", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.envelope(rec).Success)
}

func TestCORSAllowsTokenHeader(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/cart/add", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	req.Header.Set(echo.HeaderAccessControlRequestHeaders, authmw.HeaderName)
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowHeaders), authmw.HeaderName)
}
