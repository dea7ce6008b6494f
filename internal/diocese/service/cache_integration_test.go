//go:build integration

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	decreemodels "chancery/internal/decree/models"
	platformredis "chancery/internal/platform/redis"
	"chancery/pkg/testutil/containers"
)

func redisCacheForTest(t *testing.T) Cache {
	t.Helper()
	rc := containers.GetRedis(t)
	t.Cleanup(func() {
		require.NoError(t, rc.FlushAll(context.Background()))
	})
	return NewRedisCache(&platformredis.Client{Client: rc.Client})
}

func TestRedisCache_ReadThrough(t *testing.T) {
	cache := redisCacheForTest(t)

	f := newAggregatorFixture()
	p1 := f.addParish(t, "San Miguel Arcángel", "Heredia")
	f.lister.corrections[p1] = []*decreemodels.CorrectionDecree{
		correctionFixture(p1, "7", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "Juan Pérez"),
	}

	agg := NewAggregator(f.directory, f.lister, WithCache(cache, time.Minute))

	first, err := agg.ListDecrees(context.Background(), f.dioceseID)
	require.NoError(t, err)
	require.Len(t, first, 1)
	callsAfterFirst := f.lister.calls

	second, err := agg.ListDecrees(context.Background(), f.dioceseID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, f.lister.calls, "second read should come from redis")

	agg.Invalidate(context.Background(), f.dioceseID)
	_, err = agg.ListDecrees(context.Background(), f.dioceseID)
	require.NoError(t, err)
	assert.Greater(t, f.lister.calls, callsAfterFirst)
}

func TestRedisCache_MissOnUnknownKey(t *testing.T) {
	cache := redisCacheForTest(t)

	_, ok, err := cache.Get(context.Background(), "chancery:diocese:unknown:decrees")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_EntryExpires(t *testing.T) {
	cache := redisCacheForTest(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "chancery:test:ttl", []byte("[]"), 100*time.Millisecond))

	_, ok, err := cache.Get(ctx, "chancery:test:ttl")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok, err := cache.Get(ctx, "chancery:test:ttl")
		return err == nil && !ok
	}, time.Second, 50*time.Millisecond)
}
