package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mylaundry/order-system/internal/core/domain"
)

// fakeClient is an in-memory stand-in for the go-redis client.
type fakeClient struct {
	values  map[string]string
	getErr  error
	setErr  error
	sets    int
	deleted []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{values: make(map[string]string)}
}

func (f *fakeClient) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeClient) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.sets++
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.values, k)
		f.deleted = append(f.deleted, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

type countingCatalog struct {
	services []domain.Service
	calls    int
	err      error
}

func (c *countingCatalog) ListActive(context.Context) ([]domain.Service, error) {
	c.calls++
	return c.services, c.err
}
func (c *countingCatalog) List(context.Context) ([]domain.Service, error) { return c.services, nil }
func (c *countingCatalog) FindByID(_ context.Context, id int64) (*domain.Service, error) {
	return nil, domain.ErrServiceNotFound
}
func (c *countingCatalog) Count(context.Context) (int64, error) { return int64(len(c.services)), nil }
func (c *countingCatalog) Create(_ context.Context, s *domain.Service) error {
	s.ID = int64(len(c.services) + 1)
	c.services = append(c.services, *s)
	return nil
}

func sampleCatalog() []domain.Service {
	return []domain.Service{
		{ID: 1, Name: "Cuci Kering", Unit: "kg", Price: decimal.NewFromInt(6000), IsActive: true},
		{ID: 2, Name: "Bed Cover", Unit: "pcs", Price: decimal.NewFromInt(25000), IsActive: true},
	}
}

func TestCatalogCache_ReadThrough(t *testing.T) {
	repo := &countingCatalog{services: sampleCatalog()}
	client := newFakeClient()
	cache := NewCatalogCache(repo, client, time.Minute, zerolog.Nop())

	for i := 0; i < 3; i++ {
		got, err := cache.ListActive(context.Background())
		if err != nil {
			t.Fatalf("ListActive returned error: %v", err)
		}
		if len(got) != 2 || got[1].Name != "Bed Cover" || !got[1].Price.Equal(decimal.NewFromInt(25000)) {
			t.Fatalf("unexpected services: %+v", got)
		}
	}

	if repo.calls != 1 {
		t.Fatalf("expected one store hit, got %d", repo.calls)
	}
	if client.sets != 1 {
		t.Fatalf("expected one cache write, got %d", client.sets)
	}
}

func TestCatalogCache_FallsBackOnRedisError(t *testing.T) {
	repo := &countingCatalog{services: sampleCatalog()}
	client := newFakeClient()
	client.getErr = errors.New("connection refused")
	client.setErr = errors.New("connection refused")
	cache := NewCatalogCache(repo, client, time.Minute, zerolog.Nop())

	got, err := cache.ListActive(context.Background())
	if err != nil {
		t.Fatalf("expected fallback to store, got error: %v", err)
	}
	if len(got) != 2 || repo.calls != 1 {
		t.Fatalf("expected store result, got %d services after %d calls", len(got), repo.calls)
	}
}

func TestCatalogCache_DiscardsCorruptEntry(t *testing.T) {
	repo := &countingCatalog{services: sampleCatalog()}
	client := newFakeClient()
	client.values[activeCatalogKey] = "not json"
	cache := NewCatalogCache(repo, client, time.Minute, zerolog.Nop())

	if _, err := cache.ListActive(context.Background()); err != nil {
		t.Fatalf("ListActive returned error: %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected store to be consulted")
	}

	var cached []domain.Service
	if err := json.Unmarshal([]byte(client.values[activeCatalogKey]), &cached); err != nil || len(cached) != 2 {
		t.Fatalf("expected cache to be repaired, got %q", client.values[activeCatalogKey])
	}
}

func TestCatalogCache_StoreErrorPropagates(t *testing.T) {
	repo := &countingCatalog{err: errors.New("db down")}
	cache := NewCatalogCache(repo, newFakeClient(), time.Minute, zerolog.Nop())

	if _, err := cache.ListActive(context.Background()); err == nil {
		t.Fatalf("expected store error")
	}
}

func TestCatalogCache_CreateInvalidates(t *testing.T) {
	repo := &countingCatalog{services: sampleCatalog()}
	client := newFakeClient()
	cache := NewCatalogCache(repo, client, time.Minute, zerolog.Nop())

	_, _ = cache.ListActive(context.Background())
	if err := cache.Create(context.Background(), &domain.Service{Name: "Karpet", Unit: "m2", Price: decimal.NewFromInt(15000), IsActive: true}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, ok := client.values[activeCatalogKey]; ok {
		t.Fatalf("expected cached listing to be dropped")
	}

	got, _ := cache.ListActive(context.Background())
	if len(got) != 3 || repo.calls != 2 {
		t.Fatalf("expected fresh listing of 3, got %d after %d calls", len(got), repo.calls)
	}
}
