package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/payment"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
	authmw "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

type fakePayments struct {
	mu       sync.Mutex
	requests []payment.ChargeRequest
	err      error
}

func (f *fakePayments) CreateIntent(_ context.Context, req payment.ChargeRequest) (*payment.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &payment.Intent{ID: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

type testEnv struct {
	t        *testing.T
	e        *echo.Echo
	repo     *repo.GormRepo
	payments *fakePayments
}

func newTestEnv(t *testing.T, staticDir string) *testEnv {
	t.Helper()

	gdb, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.New(gdb)
	require.NoError(t, r.Migrate(context.Background()))

	ts, err := tokens.NewService([]byte("test-jwt-secret"), time.Hour)
	require.NoError(t, err)

	pay := &fakePayments{}
	auth := &service.AuthService{Repo: r, Tokens: ts}
	id := &Identity{Users: auth}
	gate := authmw.NewGate(ts, r)

	deps := &Deps{
		Users:   &UserHTTP{Svc: auth, Gate: gate, ID: id},
		Catalog: &CatalogHTTP{Svc: &service.CatalogService{Repo: r}},
		Cart: &CartHTTP{
			Svc:      &service.CartService{Repo: r},
			Checkout: &service.CheckoutService{Repo: r, Payments: pay, Currency: "cad"},
			ID:       id,
		},
		Reviews:   &ReviewHTTP{Svc: &service.ReviewService{Repo: r}, ID: id},
		Gate:      gate,
		Ready:     r.Ping,
		StaticDir: staticDir,
	}

	l := logging.NewWithWriter(io.Discard, "error")
	return &testEnv{t: t, e: New(l, deps), repo: r, payments: pay}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (env *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	env.t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(env.t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(authmw.HeaderName, token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) envelope(rec *httptest.ResponseRecorder) envelope {
	env.t.Helper()
	var out envelope
	require.NoError(env.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func decodeData[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

// signUp registers and logs in a user and returns its token.
func (env *testEnv) signUp(username string) string {
	env.t.Helper()
	rec := env.do(http.MethodPost, "/users/register", "", map[string]string{"username": username, "password": "secret1"})
	require.Equal(env.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPost, "/users/login", "", map[string]string{"username": username, "password": "secret1"})
	require.Equal(env.t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Token string `json:"token"`
	}
	require.NoError(env.t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(env.t, res.Token)
	return res.Token
}

func (env *testEnv) seedProduct(name, price string) models.Product {
	env.t.Helper()
	p := models.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: name + " description",
		Image:       "/img/" + name + ".png",
		Price:       decimal.RequireFromString(price),
	}
	require.NoError(env.t, env.repo.UpsertProducts(context.Background(), []models.Product{p}))
	return p
}
