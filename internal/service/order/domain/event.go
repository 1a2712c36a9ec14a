// internal/service/order/domain/event.go
package domain

import "time"

// OrderPlaced 在订单成功落库后发布。
// 发布是尽力而为的：事件发送失败不会使下单请求失败。
type OrderPlaced struct {
	EventID  string    `json:"eventId"`
	OrderID  string    `json:"orderId"`
	Buyer    string    `json:"buyer"`
	Total    float64   `json:"total"`
	Status   Status    `json:"status"`
	PlacedAt time.Time `json:"placedAt"`
}

// OrderStatusChanged 在后台修改订单状态后发布。
type OrderStatusChanged struct {
	EventID   string    `json:"eventId"`
	OrderID   string    `json:"orderId"`
	Buyer     string    `json:"buyer"`
	OldStatus Status    `json:"oldStatus"`
	NewStatus Status    `json:"newStatus"`
	ChangedAt time.Time `json:"changedAt"`
}
