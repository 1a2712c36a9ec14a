// internal/service/order/domain/order.go
package domain

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem 是客户端提交的一项购物车条目。
// 价格以客户端提交值为准，结算核心不回源商品目录重新取价。
type CartItem struct {
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}

// PaymentOutcome 是支付网关返回的扣款结果。
// 只有网关客户端可以构造它；除 Success 标志外，其余字段对系统其它部分是不透明的。
type PaymentOutcome struct {
	Success       bool    `bson:"success" json:"success"`
	TransactionID string  `bson:"transactionId" json:"transactionId"`
	Amount        float64 `bson:"amount" json:"amount"`
}

// Order 是订单聚合的根实体。
// 创建后除 Status 外不可变；Status 只允许由状态变更用例修改。
type Order struct {
	ID        string         `bson:"-" json:"id"`
	Products  []CartItem     `bson:"products" json:"products"`
	Payment   PaymentOutcome `bson:"payment" json:"payment"`
	Buyer     string         `bson:"buyer" json:"buyer"`
	Status    Status         `bson:"status" json:"status"`
	CreatedAt time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// NewOrder 是订单的工厂函数。
// 它只在支付成功之后被调用；未扣款成功的请求不会产生订单实体。
func NewOrder(buyer string, products []CartItem, payment PaymentOutcome) (*Order, error) {
	if buyer == "" {
		return nil, NewValidationError("buyer is required")
	}
	if len(products) == 0 {
		return nil, NewValidationError("cannot create an order without products")
	}
	if !payment.Success {
		return nil, NewGatewayError("cannot create an order from a failed payment", nil)
	}
	now := time.Now()
	return &Order{
		Products:  products,
		Payment:   payment,
		Buyer:     buyer,
		Status:    StatusNotProcessed, // 初始状态
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ChangeStatus 覆写订单状态。
// 状态机不限制迁移方向：后台允许把订单从任意状态改到任意状态
// （包括 Delivered 改回 Not Processed）。是否应当收紧是一个
// 未定的产品问题，这里保持宽松语义。
func (o *Order) ChangeStatus(s Status) {
	o.Status = s
	o.UpdatedAt = time.Now()
}

// ValidateOrderID 校验订单 ID 是否为合法的 24 位十六进制文档 ID。
// 格式非法直接返回 FormatError，不触发任何存储查询。
func ValidateOrderID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return NewFormatError("malformed order id: " + id)
	}
	return nil
}

// ValidPrice 判断一个价格是否可参与合计：有限数且不为负。零价（赠品）合法。
func ValidPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p >= 0
}
