package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tajoco/contacts/internal/model"
	"github.com/tajoco/contacts/pkg/redis"
)

type fakeKV struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	deletes []string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string][]byte)}
}

func (kv *fakeKV) Get(ctx context.Context, key string) ([]byte, error) {
	if kv.getErr != nil {
		return nil, kv.getErr
	}
	data, ok := kv.data[key]
	if !ok {
		return nil, redis.ErrNil
	}
	return data, nil
}

func (kv *fakeKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if kv.setErr != nil {
		return kv.setErr
	}
	kv.data[key] = value
	return nil
}

func (kv *fakeKV) Delete(ctx context.Context, keys ...string) error {
	kv.deletes = append(kv.deletes, keys...)
	for _, key := range keys {
		delete(kv.data, key)
	}
	return nil
}

func TestUserCacheRoundTrip(t *testing.T) {
	kv := newFakeKV()
	c := NewUserCache(kv, time.Minute)
	ctx := context.Background()

	user := &model.User{
		Username:  "tester",
		Email:     "user@example.com",
		Password:  "bcrypt-digest",
		Confirmed: true,
	}
	c.Set(ctx, user)

	got, ok := c.Get(ctx, "user@example.com")
	if !ok {
		t.Fatal("Expected cache hit")
	}
	if got.Email != "user@example.com" || !got.Confirmed {
		t.Errorf("Expected cached snapshot, got %+v", got)
	}
}

func TestUserCacheExcludesSecrets(t *testing.T) {
	kv := newFakeKV()
	c := NewUserCache(kv, time.Minute)
	ctx := context.Background()

	token := "refresh-token-value"
	c.Set(ctx, &model.User{
		Email:        "user@example.com",
		Password:     "bcrypt-digest",
		RefreshToken: &token,
	})

	for key, raw := range kv.data {
		if strings.Contains(string(raw), "bcrypt-digest") {
			t.Errorf("Expected password excluded from snapshot %s", key)
		}
		if strings.Contains(string(raw), "refresh-token-value") {
			t.Errorf("Expected refresh token excluded from snapshot %s", key)
		}
	}
}

func TestUserCacheMiss(t *testing.T) {
	c := NewUserCache(newFakeKV(), time.Minute)

	if _, ok := c.Get(context.Background(), "nobody@example.com"); ok {
		t.Error("Expected miss for absent key")
	}
}

func TestUserCacheBackendErrorIsMiss(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = errors.New("connection refused")
	c := NewUserCache(kv, time.Minute)

	if _, ok := c.Get(context.Background(), "user@example.com"); ok {
		t.Error("Expected backend failure to read as a miss")
	}
}

func TestUserCacheCorruptEntryDropped(t *testing.T) {
	kv := newFakeKV()
	c := NewUserCache(kv, time.Minute)
	ctx := context.Background()

	kv.data["contacts:user:user@example.com"] = []byte("{not json")

	if _, ok := c.Get(ctx, "user@example.com"); ok {
		t.Error("Expected corrupt entry to read as a miss")
	}
	if len(kv.deletes) != 1 {
		t.Errorf("Expected corrupt entry to be deleted, got %d deletes", len(kv.deletes))
	}
}

func TestUserCacheDelete(t *testing.T) {
	kv := newFakeKV()
	c := NewUserCache(kv, time.Minute)
	ctx := context.Background()

	c.Set(ctx, &model.User{Email: "user@example.com"})
	c.Delete(ctx, "user@example.com")

	if _, ok := c.Get(ctx, "user@example.com"); ok {
		t.Error("Expected miss after delete")
	}
}
