// internal/service/order/domain/port/stream.go
package port

import "storefront/internal/service/order/domain"

// StatusStreamPublisher 把状态变更推送给在线的管理端连接。
// 实现必须是非阻塞的：没有在线客户端时事件直接丢弃。
type StatusStreamPublisher interface {
	Publish(event *domain.OrderStatusChanged)
}
