// internal/service/order/infrastructure/adapter/notification_kafka_adapter.go
package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"storefront/internal/pkg/mq"
	"storefront/internal/service/order/domain"
)

const (
	// OrderPlacedTopic 承载下单成功事件。
	OrderPlacedTopic = "order-placed-v1"
	// OrderStatusChangedTopic 承载后台状态变更事件。
	OrderStatusChangedTopic = "order-status-changed-v1"
)

// NotificationKafkaAdapter 实现了 port.NotificationProducer 接口。
// 消息 key 使用订单 ID，保证同一订单的事件落在同一分区、顺序可预期。
type NotificationKafkaAdapter struct {
	placedWriter *kafka.Writer
	statusWriter *kafka.Writer
}

// NewNotificationKafkaAdapter 创建一个新的订单事件生产者适配器。
func NewNotificationKafkaAdapter(brokers []string) *NotificationKafkaAdapter {
	return &NotificationKafkaAdapter{
		placedWriter: mq.NewKafkaWriter(brokers, OrderPlacedTopic),
		statusWriter: mq.NewKafkaWriter(brokers, OrderStatusChangedTopic),
	}
}

// OrderPlaced 发布下单成功事件。
func (a *NotificationKafkaAdapter) OrderPlaced(ctx context.Context, event *domain.OrderPlaced) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order placed event: %w", err)
	}
	// mq.ProduceMessage 会自动把追踪上下文注入消息头
	return mq.ProduceMessage(ctx, a.placedWriter, []byte(event.OrderID), eventBytes)
}

// OrderStatusChanged 发布状态变更事件。
func (a *NotificationKafkaAdapter) OrderStatusChanged(ctx context.Context, event *domain.OrderStatusChanged) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal status changed event: %w", err)
	}
	return mq.ProduceMessage(ctx, a.statusWriter, []byte(event.OrderID), eventBytes)
}

// Close 关闭底层的 Kafka writer。
func (a *NotificationKafkaAdapter) Close() error {
	if err := a.placedWriter.Close(); err != nil {
		return err
	}
	return a.statusWriter.Close()
}
