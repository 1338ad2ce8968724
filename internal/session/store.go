// Package session persists the active customer and cart across terminal
// reloads, scoped per tenant and expired at read time.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chirayupatel9/palm-cafe-pos/pkg/enums"
	redislib "github.com/redis/go-redis/v9"
)

type kvStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type keyBuilder interface {
	SessionKey(tenant, kind string) string
}

// envelope wraps a persisted record with its write time so expiry is
// enforced when the record is read back, not only by the backing store.
type envelope[T any] struct {
	Data    T     `json:"data"`
	SavedAt int64 `json:"savedAt"`
}

// Store persists one record kind per tenant with a fixed TTL.
type Store[T any] struct {
	kv      kvStore
	keyer   keyBuilder
	kind    enums.SessionKind
	ttl     time.Duration
	now     func() time.Time
	isEmpty func(T) bool
}

// Option tweaks store construction.
type Option[T any] func(*Store[T])

// WithClock overrides the time source. Tests use this to step past the TTL.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(s *Store[T]) {
		s.now = now
	}
}

// WithEmptyCheck registers a predicate for payloads that should not be
// persisted. A record judged empty is skipped on save so a stale empty
// state cannot mask a cart left by a previous tenant context.
func WithEmptyCheck[T any](isEmpty func(T) bool) Option[T] {
	return func(s *Store[T]) {
		s.isEmpty = isEmpty
	}
}

// NewStore builds a session store for one record kind.
func NewStore[T any](kv kvStore, keyer keyBuilder, kind enums.SessionKind, ttl time.Duration, opts ...Option[T]) (*Store[T], error) {
	if kv == nil {
		return nil, fmt.Errorf("kv store is required")
	}
	if keyer == nil {
		return nil, fmt.Errorf("key builder is required")
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid session kind %q", kind)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	store := &Store[T]{
		kv:    kv,
		keyer: keyer,
		kind:  kind,
		ttl:   ttl,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// Save writes the record under the tenant's key. Writes are skipped when
// no tenant context exists or the payload is judged empty.
func (s *Store[T]) Save(ctx context.Context, tenant string, data T) error {
	if strings.TrimSpace(tenant) == "" {
		return nil
	}
	if s.isEmpty != nil && s.isEmpty(data) {
		return nil
	}
	record := envelope[T]{Data: data, SavedAt: s.now().UnixMilli()}
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}
	return s.kv.Set(ctx, s.key(tenant), string(raw), s.ttl)
}

// Load reads the record back. Missing, malformed, and expired records all
// return nil; malformed and expired records are deleted on the way out.
func (s *Store[T]) Load(ctx context.Context, tenant string) (*T, error) {
	if strings.TrimSpace(tenant) == "" {
		return nil, nil
	}
	key := s.key(tenant)
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session record: %w", err)
	}

	var record envelope[T]
	if err := json.Unmarshal([]byte(raw), &record); err != nil || record.SavedAt == 0 {
		_ = s.kv.Del(ctx, key)
		return nil, nil
	}

	savedAt := time.UnixMilli(record.SavedAt)
	if s.now().Sub(savedAt) > s.ttl {
		_ = s.kv.Del(ctx, key)
		return nil, nil
	}
	return &record.Data, nil
}

// Clear deletes the record explicitly, e.g. on logout or cart clear.
func (s *Store[T]) Clear(ctx context.Context, tenant string) error {
	if strings.TrimSpace(tenant) == "" {
		return nil
	}
	return s.kv.Del(ctx, s.key(tenant))
}

func (s *Store[T]) key(tenant string) string {
	return s.keyer.SessionKey(tenant, s.kind.String())
}
