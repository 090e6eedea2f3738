package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

func TestMemoryCacheRoundTripsStructs(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()

	require.NoError(t, mc.Set(ctx, "fred:GDP", observation{Date: "2024-04-01", Value: 28629.2}, time.Minute))

	var got observation
	require.NoError(t, mc.Get(ctx, "fred:GDP", &got))
	assert.Equal(t, observation{Date: "2024-04-01", Value: 28629.2}, got)
}

func TestMemoryCacheExpires(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return now }

	require.NoError(t, mc.Set(ctx, "k", "v", time.Second))
	now = now.Add(2 * time.Second)

	var s string
	assert.ErrorIs(t, mc.Get(ctx, "k", &s), ErrCacheMiss)
	assert.Zero(t, mc.Len())
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { now = now.Add(time.Millisecond); return now }

	require.NoError(t, mc.Set(ctx, "a", "1", time.Hour))
	require.NoError(t, mc.Set(ctx, "b", "2", time.Hour))

	var s string
	require.NoError(t, mc.Get(ctx, "a", &s)) // a is now fresher than b
	require.NoError(t, mc.Set(ctx, "c", "3", time.Hour))

	assert.ErrorIs(t, mc.Get(ctx, "b", &s), ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, "a", &s))
	assert.NoError(t, mc.Get(ctx, "c", &s))
}

func TestMemoizeCachesSuccessOnly(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	calls := 0
	fn := func(context.Context) (observation, error) {
		calls++
		return observation{Date: "2024-01-01", Value: 1}, nil
	}

	_, hit, err := Memoize(ctx, mc, "k", time.Minute, fn)
	require.NoError(t, err)
	assert.False(t, hit)

	got, hit, err := Memoize(ctx, mc, "k", time.Minute, fn)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1.0, got.Value)
	assert.Equal(t, 1, calls)

	boom := errors.New("boom")
	_, _, err = Memoize(ctx, mc, "other", time.Minute, func(context.Context) (observation, error) {
		return observation{}, boom
	})
	assert.ErrorIs(t, err, boom)
	var o observation
	assert.ErrorIs(t, mc.Get(ctx, "other", &o), ErrCacheMiss)
}

func TestMemoizeBypassesWithoutTTL(t *testing.T) {
	calls := 0
	fn := func(context.Context) (int, error) { calls++; return calls, nil }

	for i := 0; i < 3; i++ {
		_, hit, err := Memoize(context.Background(), NewMemoryCache(), "k", 0, fn)
		require.NoError(t, err)
		assert.False(t, hit)
	}
	_, _, _ = Memoize[int](context.Background(), nil, "k", time.Minute, fn)
	assert.Equal(t, 4, calls)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "fred:GDP:2020-01-01", Key("fred", "GDP", "2020-01-01"))
}

func TestMemoizeBypassRefreshesEntry(t *testing.T) {
	mc := NewMemoryCache()
	n := 0
	fn := func(context.Context) (int, error) { n++; return n, nil }

	_, _, _ = Memoize(context.Background(), mc, "k", time.Minute, fn)
	got, hit, err := Memoize(WithBypass(context.Background()), mc, "k", time.Minute, fn)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, got)

	got, hit, _ = Memoize(context.Background(), mc, "k", time.Minute, fn)
	assert.True(t, hit)
	assert.Equal(t, 2, got)
}

func TestMemoizeBypassDropsEntryWhenRefreshFails(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	_, _, _ = Memoize(ctx, mc, "k", time.Minute, func(context.Context) (int, error) { return 1, nil })

	boom := errors.New("boom")
	_, _, err := Memoize(WithBypass(ctx), mc, "k", time.Minute, func(context.Context) (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)

	var v int
	assert.ErrorIs(t, mc.Get(ctx, "k", &v), ErrCacheMiss)
}
