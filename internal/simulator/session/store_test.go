package session

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"simulador_solar_backend/internal/simulator/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)
	ctx := context.Background()
	id := uuid.New()

	if _, err := store.Load(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Save(ctx, id, []byte(`{"v":1}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists(keyPrefix + id.String()) {
		t.Fatalf("expected prefixed key in redis")
	}

	got, err := store.Load(ctx, id)
	if err != nil || string(got) != `{"v":1}` {
		t.Fatalf("load: %q %v", got, err)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRedisStoreSlidingTTL(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)
	ctx := context.Background()
	id := uuid.New()

	_ = store.Save(ctx, id, []byte("x"))
	mr.FastForward(50 * time.Minute)
	if _, err := store.Load(ctx, id); err != nil {
		t.Fatalf("load before expiry: %v", err)
	}
	mr.FastForward(50 * time.Minute)
	if _, err := store.Load(ctx, id); err != nil {
		t.Fatalf("load should have refreshed ttl: %v", err)
	}
	mr.FastForward(2 * time.Hour)
	if _, err := store.Load(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()
	id := uuid.New()

	_ = store.Save(ctx, id, []byte("payload"))
	now = now.Add(30 * time.Second)
	if _, err := store.Load(ctx, id); err != nil {
		t.Fatalf("load: %v", err)
	}
	now = now.Add(45 * time.Second)
	if _, err := store.Load(ctx, id); err != nil {
		t.Fatalf("ttl should slide on load: %v", err)
	}
	now = now.Add(2 * time.Minute)
	store.Sweep()
	if store.Len() != 0 {
		t.Fatalf("expected sweep to drop expired session")
	}
}

func TestMemoryStoreCopiesPayload(t *testing.T) {
	store := NewMemoryStore(0)
	id := uuid.New()
	buf := []byte("abc")
	_ = store.Save(context.Background(), id, buf)
	buf[0] = 'z'

	got, _ := store.Load(context.Background(), id)
	if string(got) != "abc" {
		t.Fatalf("store must not alias caller buffers, got %q", got)
	}
}

func TestAttributionFromQuery(t *testing.T) {
	q, _ := url.ParseQuery("utm_source=google&utm_medium=cpc&utm_campaign=solar+verao&utm_term=%20energia%20&utm_content=banner&other=1")
	got := AttributionFromQuery(q)
	want := domain.Attribution{Source: "google", Medium: "cpc", Campaign: "solar verao", Term: "energia", Content: "banner"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	long := url.Values{"utm_source": {strings.Repeat("ã", 300)}}
	if n := len([]rune(AttributionFromQuery(long).Source)); n != maxAttributionValue {
		t.Fatalf("expected clipped value, got %d runes", n)
	}
}
