// internal/service/order/infrastructure/redis_cache.go
package infrastructure

import (
	"context"
	"encoding/json"
	"time"

	"storefront/internal/pkg/logger"
	"storefront/internal/pkg/redis"
	"storefront/internal/service/order/domain"
)

const orderCacheTTL = 10 * time.Minute

// RedisOrderCache 是 domain.OrderCache 的 Redis 实现。
// 缓存只是读路径的加速层：任何 Redis 错误都按未命中处理，绝不影响请求结果。
type RedisOrderCache struct {
	client *redis.Client
}

func NewRedisOrderCache(client *redis.Client) *RedisOrderCache {
	return &RedisOrderCache{client: client}
}

func cacheKey(id string) string {
	return "order:" + id
}

func (c *RedisOrderCache) Get(ctx context.Context, id string) (*domain.Order, bool) {
	raw, err := c.client.GetClient().Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var order domain.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		// 缓存里的数据坏了就当没有，下一次 Set 会覆盖掉
		logger.Ctx(ctx).Warn().Err(err).Str("order_id", id).Msg("dropping corrupt cache entry")
		return nil, false
	}
	return &order, true
}

func (c *RedisOrderCache) Set(ctx context.Context, order *domain.Order) {
	raw, err := json.Marshal(order)
	if err != nil {
		return
	}
	if err := c.client.GetClient().Set(ctx, cacheKey(order.ID), raw, orderCacheTTL).Err(); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("order_id", order.ID).Msg("failed to populate order cache")
	}
}
