package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Service defines cache operations interface. Values are stored as JSON.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Memoize returns the cached value for key, or calls fn and caches its result
// for ttl. A non-positive ttl or a nil cache bypasses caching entirely.
// Cache read/write failures never mask the result of fn.
func Memoize[T any](ctx context.Context, c Service, key string, ttl time.Duration, fn func(context.Context) (T, error)) (T, bool, error) {
	var result T
	if c == nil || ttl <= 0 {
		result, err := fn(ctx)
		return result, false, err
	}

	if Bypassed(ctx) {
		_ = c.Delete(ctx, key)
	} else if err := c.Get(ctx, key, &result); err == nil {
		return result, true, nil
	}

	result, err := fn(ctx)
	if err != nil {
		return result, false, err
	}

	_ = c.Set(ctx, key, result, ttl)
	return result, false, nil
}

// Key joins a prefix and its parameters with colons.
func Key(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key = fmt.Sprintf("%s:%v", key, param)
	}
	return key
}

func encode(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return json.Marshal(value)
	}
}

func decode(data []byte, dest interface{}) error {
	switch d := dest.(type) {
	case *[]byte:
		*d = append((*d)[:0], data...)
		return nil
	case *string:
		*d = string(data)
		return nil
	default:
		return json.Unmarshal(data, dest)
	}
}

type bypassKey struct{}

// WithBypass marks ctx so that Memoize drops the entry and refreshes it.
func WithBypass(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassKey{}, true)
}

// Bypassed reports whether ctx was marked by WithBypass.
func Bypassed(ctx context.Context) bool {
	v, _ := ctx.Value(bypassKey{}).(bool)
	return v
}
