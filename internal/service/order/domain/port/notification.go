// internal/service/order/domain/port/notification.go
package port

import (
	"context"

	"storefront/internal/service/order/domain"
)

// NotificationProducer 把订单事件发布给下游（通知服务、数据管道）。
// 发布失败只记日志，永远不影响主流程的结果。
type NotificationProducer interface {
	OrderPlaced(ctx context.Context, event *domain.OrderPlaced) error
	OrderStatusChanged(ctx context.Context, event *domain.OrderStatusChanged) error
	Close() error
}
