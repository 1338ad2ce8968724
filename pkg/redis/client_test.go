package redis

import (
	"context"
	"testing"
	"time"

	"github.com/chirayupatel9/palm-cafe-pos/pkg/config"
	"github.com/redis/go-redis/v9"
)

type mockCmdable struct {
	values map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{values: map[string]string{}}
}

func (m *mockCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	str, ok := value.(string)
	if !ok {
		if bytes, isBytes := value.([]byte); isBytes {
			str = string(bytes)
			ok = true
		}
	}
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	m.values[key] = str
	cmd.SetVal("OK")
	return cmd
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	value, ok := m.values[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(value)
	return cmd
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	var removed int64
	for _, key := range keys {
		if _, ok := m.values[key]; ok {
			delete(m.values, key)
			removed++
		}
	}
	cmd.SetVal(removed)
	return cmd
}

func TestSetGetDelRoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	if err := client.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, err := client.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value != "v" {
		t.Fatalf("expected v got %q", value)
	}

	if err := client.Del(ctx, "k"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, "k"); err != redis.Nil {
		t.Fatalf("expected redis.Nil after delete, got %v", err)
	}
}

func TestSessionKeyNamespacing(t *testing.T) {
	client := &Client{}

	key := client.SessionKey("palm-cafe", "cart")
	if key != "palmcafe:session:palm-cafe:cart" {
		t.Fatalf("unexpected key %q", key)
	}

	other := client.SessionKey("other-cafe", "cart")
	if other == key {
		t.Fatalf("tenant keys must not collide")
	}

	empty := client.SessionKey("", "")
	if empty != "palmcafe:session" {
		t.Fatalf("unexpected empty key %q", empty)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	ctx := context.Background()
	client := &Client{}

	if err := client.Set(ctx, "k", "v", 0); err == nil {
		t.Fatalf("expected error for uninitialized client")
	}
	if _, err := client.Get(ctx, "k"); err == nil {
		t.Fatalf("expected error for uninitialized client")
	}
	if err := client.Del(ctx, "k"); err == nil {
		t.Fatalf("expected error for uninitialized client")
	}
	if err := client.Ping(ctx); err == nil {
		t.Fatalf("expected error for uninitialized client")
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatalf("expected error when url and address are missing")
	}

	opts, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", PoolSize: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.PoolSize != 5 {
		t.Fatalf("expected pool size carried over, got %d", opts.PoolSize)
	}
}
