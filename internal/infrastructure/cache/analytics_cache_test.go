package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
	"github.com/jhoicas/distribuidora-api/internal/infrastructure/cache"
)

type fakeRedis struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failGet error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.failGet != nil {
		return redis.NewStringResult("", f.failGet)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	f.data[key] = string(value.([]byte))
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

type countingAnalytics struct {
	calls   map[string]int
	summary repository.InventorySummaryResult
	fail    error
}

func (r *countingAnalytics) InventorySummary(_ context.Context, threshold int) (*repository.InventorySummaryResult, error) {
	r.calls["inventory"]++
	if r.fail != nil {
		return nil, r.fail
	}
	s := r.summary
	s.LowStockCount = threshold
	return &s, nil
}

func (r *countingAnalytics) ProductStats(context.Context) (*repository.ProductStatsResult, error) {
	r.calls["products"]++
	return &repository.ProductStatsResult{Total: 3, Active: 2, Inactive: 1}, nil
}

func (r *countingAnalytics) ClientStats(context.Context, []string) (*repository.ClientStatsResult, error) {
	r.calls["clients"]++
	return &repository.ClientStatsResult{TotalClients: 4, TotalRevenue: decimal.RequireFromString("1500.50")}, nil
}

func (r *countingAnalytics) TopClients(context.Context, []string, int) ([]repository.ClientSummary, error) {
	r.calls["top"]++
	return nil, nil
}

func (r *countingAnalytics) PriceHistory(context.Context, int64, int64) ([]repository.PriceHistoryRow, error) {
	r.calls["history"]++
	return nil, nil
}

func newCounting() *countingAnalytics {
	return &countingAnalytics{
		calls:   map[string]int{},
		summary: repository.InventorySummaryResult{TotalProducts: 7, StockTotal: 120, InventoryValue: decimal.RequireFromString("98000.25")},
	}
}

func TestInventorySummary_SegundaLecturaDesdeCache(t *testing.T) {
	ctx := context.Background()
	repo, rdb := newCounting(), newFakeRedis()
	c := cache.NewAnalyticsCache(repo, rdb, 30*time.Second, nil)

	first, err := c.InventorySummary(ctx, 20)
	require.NoError(t, err)
	second, err := c.InventorySummary(ctx, 20)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls["inventory"])
	assert.Equal(t, first.TotalProducts, second.TotalProducts)
	assert.True(t, first.InventoryValue.Equal(second.InventoryValue))
	assert.Equal(t, 20, second.LowStockCount)
	assert.Equal(t, 30*time.Second, rdb.ttls["distribuidora:stats:inventory:20"])

	_, err = c.InventorySummary(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls["inventory"], "otro umbral es otra clave")
}

func TestClientStats_ClaveIndependienteDelOrden(t *testing.T) {
	ctx := context.Background()
	repo := newCounting()
	c := cache.NewAnalyticsCache(repo, newFakeRedis(), time.Minute, nil)

	_, err := c.ClientStats(ctx, []string{"CANCELADO", "COTIZADO"})
	require.NoError(t, err)
	got, err := c.ClientStats(ctx, []string{"COTIZADO", "CANCELADO"})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls["clients"])
	assert.Equal(t, "1500.5", got.TotalRevenue.String())
}

func TestRedisCaido_ConsultaLaBD(t *testing.T) {
	ctx := context.Background()
	repo, rdb := newCounting(), newFakeRedis()
	rdb.failGet = errors.New("connection refused")
	c := cache.NewAnalyticsCache(repo, rdb, time.Minute, nil)

	for i := 0; i < 2; i++ {
		res, err := c.ProductStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, res.Total)
	}
	assert.Equal(t, 2, repo.calls["products"])
}

func TestErrorDeBD_NoSeCachea(t *testing.T) {
	ctx := context.Background()
	repo, rdb := newCounting(), newFakeRedis()
	repo.fail = errors.New("timeout")
	c := cache.NewAnalyticsCache(repo, rdb, time.Minute, nil)

	_, err := c.InventorySummary(ctx, 20)
	require.Error(t, err)
	assert.Empty(t, rdb.data)
}

func TestPriceHistory_SinCache(t *testing.T) {
	ctx := context.Background()
	repo := newCounting()
	c := cache.NewAnalyticsCache(repo, newFakeRedis(), time.Minute, nil)

	_, _ = c.PriceHistory(ctx, 1, 2)
	_, _ = c.PriceHistory(ctx, 1, 2)
	assert.Equal(t, 2, repo.calls["history"])
}
