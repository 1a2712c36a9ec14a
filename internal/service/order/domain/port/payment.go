// internal/service/order/domain/port/payment.go
package port

import (
	"context"

	"storefront/internal/service/order/domain"
)

// PaymentGateway 是外部支付处理服务的出站端口。
//
// 网关侧的 SDK 是回调式的，并且在调用瞬间也可能直接抛错；适配器必须把
// 这三种失败——传输层错误、同步抛错、网关返回 success:false——统一
// 归一成一个 error 返回，调用方看到的只有"一次调用、一个结果"。
//
// 每个请求只尝试一次扣款：不做重试，也不向网关传幂等键。这是一个已知
// 的限制，重试安全性未定义。
type PaymentGateway interface {
	// GenerateClientToken 为浏览器端 SDK 生成一次性的 client token。
	GenerateClientToken(ctx context.Context) (string, error)

	// Sale 以给定金额对 nonce 代表的支付方式发起一次扣款。
	// 返回的 PaymentOutcome 一定是 Success=true 的；任何失败都走 error。
	Sale(ctx context.Context, amount float64, nonce string) (domain.PaymentOutcome, error)
}
