// internal/service/order/application/validation.go
package application

import (
	"bytes"
	"encoding/json"

	"storefront/internal/service/order/domain"
)

// checkoutRule 是一条具名的结算请求校验规则。
// 规则按声明顺序逐条执行，遇到第一条失败即停止；规则本身没有副作用。
type checkoutRule struct {
	name  string
	check func(req *CheckoutRequest, items []CartItemPayload) *domain.Error
}

var checkoutRules = []checkoutRule{
	{
		name: "nonce-present",
		check: func(req *CheckoutRequest, _ []CartItemPayload) *domain.Error {
			if req.Nonce == "" {
				return domain.NewValidationError("Payment nonce is required")
			}
			return nil
		},
	},
	{
		name: "cart-present",
		check: func(req *CheckoutRequest, _ []CartItemPayload) *domain.Error {
			if len(req.Cart) == 0 || bytes.Equal(req.Cart, []byte("null")) {
				return domain.NewValidationError("Cart is required and must not be empty")
			}
			return nil
		},
	},
	{
		name: "cart-is-sequence",
		check: func(req *CheckoutRequest, items []CartItemPayload) *domain.Error {
			// 解码已在 ParseCheckoutCart 完成；items 为 nil 且原始值非空
			// 说明 cart 不是一个数组
			if items == nil {
				return domain.NewValidationError("Cart must be a list of items")
			}
			return nil
		},
	},
	{
		name: "cart-not-empty",
		check: func(_ *CheckoutRequest, items []CartItemPayload) *domain.Error {
			if len(items) == 0 {
				return domain.NewValidationError("Cart is required and must not be empty")
			}
			return nil
		},
	},
}

// ParseCheckoutCart 校验结算请求并返回解析后的购物车条目。
// 所有校验都发生在任何网关调用和存储访问之前。
func ParseCheckoutCart(req *CheckoutRequest) ([]CartItemPayload, error) {
	var items []CartItemPayload
	if len(req.Cart) > 0 {
		// 解码失败说明 cart 不是条目序列；留给 cart-is-sequence 规则报错
		_ = json.Unmarshal(req.Cart, &items)
	}

	for _, rule := range checkoutRules {
		if ruleErr := rule.check(req, items); ruleErr != nil {
			return nil, ruleErr
		}
	}
	return items, nil
}
