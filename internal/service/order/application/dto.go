// internal/service/order/application/dto.go
package application

import "encoding/json"

// CheckoutRequest 是结算用例的输入数据。
// Cart 先保留原始 JSON，由校验规则负责判断它是不是一个合法的条目序列；
// 这样"字段缺失"、"不是数组"、"空数组"都能落在同一套规则里。
type CheckoutRequest struct {
	Nonce string          `json:"nonce"`
	Cart  json.RawMessage `json:"cart"`
}

// CartItemPayload 是购物车条目的传输形态。
// Price 故意用 interface{} 接收：JSON 数字解码为 float64，字符串保持为
// string，合计阶段据此区分"非数字价格"并拒绝，而不是静默转换。
type CartItemPayload struct {
	Name  string      `json:"name"`
	Price interface{} `json:"price"`
}

// UpdateStatusRequest 是后台状态变更用例的输入数据。
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
