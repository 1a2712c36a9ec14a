// internal/service/order/domain/repository.go
package domain

import "context"

// OrderRepository 定义了订单聚合的持久化接口。
// 它位于领域层，由基础设施层实现。
type OrderRepository interface {
	// Insert 写入一个新订单文档并返回其生成的 ID。
	// 订单创建是它的专属职责，其它组件不得写入订单。
	Insert(ctx context.Context, order *Order) (string, error)

	// FindByID 根据 ID 查找订单，不存在时返回 NotFound 类错误。
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByBuyer 返回某个买家的全部订单，按创建时间倒序。
	FindByBuyer(ctx context.Context, buyer string) ([]Order, error)

	// UpdateStatus 覆写订单的状态字段并返回更新后的文档。
	// 状态是订单上唯一允许变更的字段。
	UpdateStatus(ctx context.Context, id string, status Status) (*Order, error)
}

// OrderCache 是订单读路径的快速访问端口。未命中不是错误。
type OrderCache interface {
	Get(ctx context.Context, id string) (*Order, bool)
	Set(ctx context.Context, order *Order)
}
