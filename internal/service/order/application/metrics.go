// internal/service/order/application/metrics.go
package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Orders successfully charged and recorded.",
	})

	checkoutFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkout_failures_total",
		Help: "Checkout requests that failed, by stage.",
	}, []string{"stage"})

	paymentsCaptured = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_payments_captured_total",
		Help: "Successful captures reported by the payment gateway.",
	})

	// 扣款已成功但订单文档没写进去的次数。这类请求对外表现为普通的
	// 下单失败，但钱已经划走且不会自动冲正，必须人工对账处理。
	paymentsUnrecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_payments_captured_unrecorded_total",
		Help: "Captured payments for which the order write failed; requires manual reconciliation.",
	})

	statusUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_order_status_updates_total",
		Help: "Admin status updates, by target status.",
	}, []string{"status"})
)
