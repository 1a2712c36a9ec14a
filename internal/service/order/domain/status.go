// internal/service/order/domain/status.go
package domain

// Status 定义了订单的生命周期状态。
// 取值是一个封闭集合，新建订单默认为 StatusNotProcessed。
type Status string

const (
	StatusNotProcessed Status = "Not Processed"
	StatusProcessing   Status = "Processing"
	StatusShipped      Status = "Shipped"
	StatusDelivered    Status = "Delivered"
	StatusCancelled    Status = "Cancelled"
)

// AllStatuses 返回完整的状态枚举，管理后台的下拉框直接消费这个列表。
func AllStatuses() []Status {
	return []Status{
		StatusNotProcessed,
		StatusProcessing,
		StatusShipped,
		StatusDelivered,
		StatusCancelled,
	}
}

// ParseStatus 校验字符串是否为合法的状态枚举值。
// 空串和未知值都返回 StatusValidationError。
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return "", NewStatusValidationError("status is required")
	}
	for _, known := range AllStatuses() {
		if Status(s) == known {
			return known, nil
		}
	}
	return "", NewStatusValidationError("unknown order status: " + s)
}
