// cmd/checkout-service/main.go
package main

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"storefront/internal/pkg/bootstrap"
	"storefront/internal/pkg/httpclient"
	"storefront/internal/pkg/redis"
	"storefront/internal/service/order/application"
	"storefront/internal/service/order/domain"
	"storefront/internal/service/order/infrastructure"
	"storefront/internal/service/order/infrastructure/adapter"
	"storefront/internal/service/order/interfaces"
)

const serviceName = "checkout-service"

// main 是结算服务的组装根：创建并组装所有依赖，然后交给 bootstrap 启动。
func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()

	tracer := otel.Tracer(serviceName)

	// 1. MongoDB：订单持久化
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	mongoClient, err := infrastructure.NewMongoClient(ctx, cfg.Infra.Mongo.URI)
	if err != nil {
		log.Fatal().Err(err).Msg("🛑 failed to connect to mongodb")
	}
	defer mongoClient.Disconnect(context.Background())
	orderRepo := infrastructure.NewMongoOrderRepository(mongoClient, cfg.Infra.Mongo.Database)

	// 2. Redis：订单读缓存（连不上就降级为无缓存运行）。
	//    降级时必须保持接口值为 nil，带类型的 nil 指针会绕过应用层的判空。
	var orderCache domain.OrderCache
	redisClient, err := redis.NewClient(cfg.Infra.Redis.Addrs)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, running without order cache")
	} else {
		defer redisClient.Close()
		orderCache = infrastructure.NewRedisOrderCache(redisClient)
	}

	// 3. Kafka：订单事件发布
	notifier := adapter.NewNotificationKafkaAdapter(strings.Split(cfg.Infra.Kafka.Brokers, ","))
	defer notifier.Close()

	// 4. 支付网关 HTTP 适配器
	gateway := adapter.NewPaymentHTTPAdapter(httpclient.NewClient(tracer), cfg.App.Gateway, tracer)

	// 5. 管理端 WebSocket 状态推送
	hub := interfaces.NewHub()
	go hub.Run()

	service := application.NewOrderApplicationService(orderRepo, orderCache, gateway, notifier, hub, tracer)
	handler := interfaces.NewOrderHandler(service, hub)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        cfg.App.CheckoutPort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			handler.RegisterRoutes(appCtx.Mux)
		},
	})
}
