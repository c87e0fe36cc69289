package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/payment"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	gdb, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.New(gdb)
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func newTestTokens(t *testing.T) *tokens.Service {
	t.Helper()
	ts, err := tokens.NewService([]byte("test-jwt-secret"), time.Hour)
	require.NoError(t, err)
	return ts
}

func seedProduct(t *testing.T, r *repo.GormRepo, name, price string) models.Product {
	t.Helper()
	p := models.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: name + " description",
		Image:       name + ".png",
		Price:       decimal.RequireFromString(price),
	}
	require.NoError(t, r.UpsertProducts(context.Background(), []models.Product{p}))
	return p
}

type publishedEvent struct {
	Topic string
	Key   string
	Event events.Event
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, e events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{Topic: topic, Key: key, Event: e})
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Event.Type)
	}
	return out
}

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
	return &payment.Intent{ID: "pi_" + req.IdempotencyKey[:16], ClientSecret: "secret_" + req.IdempotencyKey[:16]}, nil
}

type fakeIndex struct {
	ensured int
	indexed []models.Product
	hits    []uuid.UUID
	total   int64
	err     error
}

func (f *fakeIndex) EnsureIndex(context.Context) error {
	f.ensured++
	return nil
}

func (f *fakeIndex) IndexProducts(_ context.Context, products []models.Product) error {
	f.indexed = append(f.indexed, products...)
	return nil
}

func (f *fakeIndex) Search(context.Context, string, int, int) (int64, []uuid.UUID, error) {
	return f.total, f.hits, f.err
}
