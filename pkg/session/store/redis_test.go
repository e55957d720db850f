package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/cfgview/pkg/errors"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	m := miniredis.RunT(t)
	s := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: m.Addr()}))
	t.Cleanup(func() { s.Close() })
	return s, m
}

func TestRedisStore(t *testing.T) {
	s, _ := newRedisStore(t)
	testContract(t, s)
}

func TestRedisStoreKeyExpires(t *testing.T) {
	ctx := context.Background()
	s, m := newRedisStore(t)
	if err := s.Set(ctx, record("ttl", time.Hour)); err != nil {
		t.Fatal(err)
	}
	if ttl := m.TTL(redisKeyPrefix + "ttl"); ttl <= 0 || ttl > time.Hour {
		t.Errorf("key TTL = %v, want within an hour", ttl)
	}
	m.FastForward(2 * time.Hour)
	if m.Exists(redisKeyPrefix + "ttl") {
		t.Error("key outlived its TTL")
	}
	if got, err := s.Get(ctx, "ttl"); err != nil || got != nil {
		t.Errorf("Get after expiry = %v, %v", got, err)
	}
}

func TestRedisStoreExpiredSetDeletes(t *testing.T) {
	ctx := context.Background()
	s, m := newRedisStore(t)
	_ = s.Set(ctx, record("x", time.Hour))
	if err := s.Set(ctx, record("x", -time.Second)); err != nil {
		t.Fatal(err)
	}
	if m.Exists(redisKeyPrefix + "x") {
		t.Error("expired record kept")
	}
}

func TestRedisStoreCorrupt(t *testing.T) {
	s, m := newRedisStore(t)
	_ = m.Set(redisKeyPrefix+"bad", "{")
	if _, err := s.Get(context.Background(), "bad"); !errors.IsParse(err) {
		t.Errorf("Get(bad) = %v, want parse error", err)
	}
}

func TestOpenRedis(t *testing.T) {
	ctx := context.Background()
	m := miniredis.RunT(t)
	s, err := Open(ctx, Config{Backend: BackendRedis, RedisAddr: m.Addr()})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, ok := s.(*RedisStore); !ok {
		t.Errorf("Open(redis) = %T, want *RedisStore", s)
	}

	m.Close()
	if _, err := NewRedisStore(ctx, RedisConfig{Addr: m.Addr()}); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("NewRedisStore on a closed server = %v, want INTERNAL_ERROR", err)
	}
}
