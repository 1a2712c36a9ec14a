// cmd/notification-service/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"storefront/internal/pkg/bootstrap"
	"storefront/internal/pkg/logger"
	"storefront/internal/pkg/mq"
	"storefront/internal/service/order/domain"
	"storefront/internal/service/order/infrastructure/adapter"
)

const (
	serviceName     = "notification-service"
	consumerGroupID = "notification-service-group"
)

var eventsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "storefront_notification_events_consumed_total",
	Help: "Order events consumed from Kafka, by topic.",
}, []string{"topic"})

// main 启动两个 Kafka 消费循环：订单创建事件与订单状态变更事件。
// 当前的"通知"是结构化日志输出；接邮件/短信通道时只需替换 handle 函数。
func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()
	tracer := otel.Tracer(serviceName)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        cfg.App.NotificationPort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			appCtx.Mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			appCtx.Mux.Handle("/metrics", promhttp.Handler())
		},
		Background: func(ctx context.Context) error {
			brokers := strings.Split(cfg.Infra.Kafka.Brokers, ",")
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return consume(ctx, brokers, adapter.OrderPlacedTopic, tracer, handleOrderPlaced)
			})
			g.Go(func() error {
				return consume(ctx, brokers, adapter.OrderStatusChangedTopic, tracer, handleStatusChanged)
			})
			return g.Wait()
		},
	})
}

// consume 运行单个 topic 的消费循环，手动提交位点，消息处理失败只记日志不重试。
func consume(ctx context.Context, brokers []string, topic string, tracer trace.Tracer, handle func(context.Context, []byte) error) error {
	reader := mq.NewKafkaReader(brokers, topic, consumerGroupID)
	defer reader.Close()

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		msgCtx := mq.ExtractTraceContext(ctx, msg.Headers)
		msgCtx, span := tracer.Start(msgCtx, "notification.consume "+topic)

		if err := handle(msgCtx, msg.Value); err != nil {
			span.RecordError(err)
			logger.Ctx(msgCtx).Error().Err(err).Str("topic", topic).Msg("failed to handle order event")
		} else {
			eventsConsumed.WithLabelValues(topic).Inc()
		}
		span.End()

		if err := reader.CommitMessages(ctx, msg); err != nil {
			logger.Ctx(msgCtx).Error().Err(err).Str("topic", topic).Msg("failed to commit kafka offset")
		}
	}
}

func handleOrderPlaced(ctx context.Context, payload []byte) error {
	var event domain.OrderPlaced
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}
	logger.Ctx(ctx).Info().
		Str("event_id", event.EventID).
		Str("order_id", event.OrderID).
		Str("buyer", event.Buyer).
		Float64("total", event.Total).
		Msg("📧 order confirmation notification")
	return nil
}

func handleStatusChanged(ctx context.Context, payload []byte) error {
	var event domain.OrderStatusChanged
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}
	logger.Ctx(ctx).Info().
		Str("event_id", event.EventID).
		Str("order_id", event.OrderID).
		Str("buyer", event.Buyer).
		Str("old_status", string(event.OldStatus)).
		Str("new_status", string(event.NewStatus)).
		Msg("📧 order status change notification")
	return nil
}
