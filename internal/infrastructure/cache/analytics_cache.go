// Package cache caché de lectura en Redis para los reportes agregados.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
	"github.com/jhoicas/distribuidora-api/pkg/logger"
)

const keyPrefix = "distribuidora:stats:"

// Store operaciones de Redis que usa la caché (*redis.Client las cumple).
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

var _ repository.AnalyticsRepository = (*AnalyticsCache)(nil)

// AnalyticsCache envuelve un AnalyticsRepository. Los totales globales se guardan ttl;
// el historial de precios siempre va a la BD.
// Si Redis falla se consulta la BD y el error solo se registra.
type AnalyticsCache struct {
	next repository.AnalyticsRepository
	rdb  Store
	ttl  time.Duration
	log  *logger.Logger
}

// NewAnalyticsCache construye la caché.
func NewAnalyticsCache(next repository.AnalyticsRepository, rdb Store, ttl time.Duration, log *logger.Logger) *AnalyticsCache {
	if log == nil {
		log = logger.Nop()
	}
	return &AnalyticsCache{next: next, rdb: rdb, ttl: ttl, log: log.Component("cache")}
}

// InventorySummary resumen de inventario cacheado por umbral de stock bajo.
func (c *AnalyticsCache) InventorySummary(ctx context.Context, lowStockThreshold int) (*repository.InventorySummaryResult, error) {
	key := fmt.Sprintf("%sinventory:%d", keyPrefix, lowStockThreshold)
	return readThrough(ctx, c, key, func() (*repository.InventorySummaryResult, error) {
		return c.next.InventorySummary(ctx, lowStockThreshold)
	})
}

// ProductStats conteos del catálogo cacheados.
func (c *AnalyticsCache) ProductStats(ctx context.Context) (*repository.ProductStatsResult, error) {
	return readThrough(ctx, c, keyPrefix+"products", func() (*repository.ProductStatsResult, error) {
		return c.next.ProductStats(ctx)
	})
}

// ClientStats estadísticas de clientes cacheadas por conjunto de estados excluidos.
func (c *AnalyticsCache) ClientStats(ctx context.Context, excludedStatuses []string) (*repository.ClientStatsResult, error) {
	key := keyPrefix + "clients:" + statusKey(excludedStatuses)
	return readThrough(ctx, c, key, func() (*repository.ClientStatsResult, error) {
		return c.next.ClientStats(ctx, excludedStatuses)
	})
}

// TopClients ranking de clientes cacheado por estados excluidos y límite.
func (c *AnalyticsCache) TopClients(ctx context.Context, excludedStatuses []string, limit int) ([]repository.ClientSummary, error) {
	key := fmt.Sprintf("%stop-clients:%s:%d", keyPrefix, statusKey(excludedStatuses), limit)
	return readThrough(ctx, c, key, func() ([]repository.ClientSummary, error) {
		return c.next.TopClients(ctx, excludedStatuses, limit)
	})
}

// PriceHistory va directo a la base: depende del par cliente-producto.
func (c *AnalyticsCache) PriceHistory(ctx context.Context, clientID, productID int64) ([]repository.PriceHistoryRow, error) {
	return c.next.PriceHistory(ctx, clientID, productID)
}

// statusKey forma canónica de la lista de estados (el orden no cambia el resultado).
func statusKey(statuses []string) string {
	sorted := append([]string(nil), statuses...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func readThrough[T any](ctx context.Context, c *AnalyticsCache, key string, load func() (T, error)) (T, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v T
		if jsonErr := json.Unmarshal(raw, &v); jsonErr == nil {
			return v, nil
		}
		c.log.Warn().Str("key", key).Msg("entrada de caché ilegible, se consulta la BD")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("key", key).Msg("lectura de caché")
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return v, nil
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("escritura de caché")
	}
	return v, nil
}
