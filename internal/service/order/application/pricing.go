// internal/service/order/application/pricing.go
package application

import (
	"fmt"

	"storefront/internal/service/order/domain"
)

// AggregateTotal 校验每一项的价格并求和，返回应向网关请求的总金额
// 以及可落库的购物车条目。
//
// 纯函数：没有任何副作用，结果只依赖输入；条目顺序不影响合计。
// 逐项 fail-fast：第一个非法条目即返回 PricingError，不靠异常式的
// 控制流中断。字符串价格一律拒绝，不做类型转换。零价合法（赠品）。
func AggregateTotal(items []CartItemPayload) (float64, []domain.CartItem, error) {
	var total float64
	products := make([]domain.CartItem, 0, len(items))

	for i, item := range items {
		price, ok := item.Price.(float64)
		if !ok {
			return 0, nil, domain.NewPricingError(
				fmt.Sprintf("item %d (%q) has a non-numeric price", i, item.Name))
		}
		if !domain.ValidPrice(price) {
			return 0, nil, domain.NewPricingError(
				fmt.Sprintf("item %d (%q) has an invalid price %v", i, item.Name, price))
		}
		total += price
		products = append(products, domain.CartItem{Name: item.Name, Price: price})
	}

	return total, products, nil
}
