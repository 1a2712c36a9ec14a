// internal/service/order/infrastructure/adapter/payment_http_adapter.go
package adapter

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storefront/internal/pkg/bootstrap"
	"storefront/internal/pkg/httpclient"
	"storefront/internal/service/order/domain"
)

// PaymentHTTPAdapter 实现了 port.PaymentGateway 接口，对接沙箱支付网关
// 的 REST API（generate client token / capture sale 两个操作）。
//
// 网关官方 SDK 是回调式的，同步调用期间还可能直接抛配置类错误。这个
// 适配器把所有失败路径——建连失败、非 2xx、响应里 success=false——
// 都折叠成同一个 GatewayError 返回给调用方；调用方感知不到回调机制。
type PaymentHTTPAdapter struct {
	client *httpclient.Client
	cfg    bootstrap.GatewayConfig
	tracer trace.Tracer
}

// NewPaymentHTTPAdapter 创建一个新的支付网关适配器。
func NewPaymentHTTPAdapter(client *httpclient.Client, cfg bootstrap.GatewayConfig, tracer trace.Tracer) *PaymentHTTPAdapter {
	return &PaymentHTTPAdapter{client: client, cfg: cfg, tracer: tracer}
}

// 网关的线上协议。凭据随请求体提交，这是沙箱环境的约定。
type clientTokenRequest struct {
	MerchantID string `json:"merchantId"`
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
}

type clientTokenResponse struct {
	Success     bool   `json:"success"`
	ClientToken string `json:"clientToken"`
	Message     string `json:"message"`
}

type saleRequest struct {
	MerchantID          string  `json:"merchantId"`
	PublicKey           string  `json:"publicKey"`
	PrivateKey          string  `json:"privateKey"`
	Amount              float64 `json:"amount"`
	PaymentMethodNonce  string  `json:"paymentMethodNonce"`
	SubmitForSettlement bool    `json:"submitForSettlement"`
}

type saleResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Transaction struct {
		ID     string  `json:"id"`
		Amount float64 `json:"amount"`
	} `json:"transaction"`
}

// GenerateClientToken 实现了“generate client token”操作。
func (a *PaymentHTTPAdapter) GenerateClientToken(ctx context.Context) (string, error) {
	ctx, span := a.tracer.Start(ctx, "gateway.GenerateClientToken", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	url := fmt.Sprintf("%s/merchants/%s/client-token", a.cfg.Endpoint, a.cfg.MerchantID)
	req := clientTokenRequest{
		MerchantID: a.cfg.MerchantID,
		PublicKey:  a.cfg.PublicKey,
		PrivateKey: a.cfg.PrivateKey,
	}

	var resp clientTokenResponse
	if err := a.client.PostJSON(ctx, url, req, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "client token request failed")
		return "", domain.NewGatewayError("gateway client token request failed", err)
	}
	if !resp.Success {
		err := domain.NewGatewayError("gateway refused to issue a client token: "+resp.Message, nil)
		span.RecordError(err)
		return "", err
	}
	return resp.ClientToken, nil
}

// Sale 实现了“capture sale”操作：单次调用，单个结果。
func (a *PaymentHTTPAdapter) Sale(ctx context.Context, amount float64, nonce string) (domain.PaymentOutcome, error) {
	ctx, span := a.tracer.Start(ctx, "gateway.Sale", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.Float64("payment.amount", amount))

	url := fmt.Sprintf("%s/merchants/%s/transactions", a.cfg.Endpoint, a.cfg.MerchantID)
	req := saleRequest{
		MerchantID:          a.cfg.MerchantID,
		PublicKey:           a.cfg.PublicKey,
		PrivateKey:          a.cfg.PrivateKey,
		Amount:              amount,
		PaymentMethodNonce:  nonce,
		SubmitForSettlement: true,
	}

	var resp saleResponse
	if err := a.client.PostJSON(ctx, url, req, &resp); err != nil {
		// 传输层失败。这笔交易的真实状态未知，上层按失败处理
		span.RecordError(err)
		span.SetStatus(codes.Error, "sale request failed")
		return domain.PaymentOutcome{}, domain.NewGatewayError("gateway sale request failed", err)
	}

	if !resp.Success {
		// 网关正常应答但拒绝了交易。与传输层错误归一为同一类失败，
		// 绝不能被当作成功结果继续往下走
		msg := resp.Message
		if msg == "" {
			msg = "transaction was declined"
		}
		err := domain.NewGatewayError("gateway declined the sale: "+msg, nil)
		span.RecordError(err)
		span.SetStatus(codes.Error, "sale declined")
		return domain.PaymentOutcome{}, err
	}

	span.AddEvent("Sale captured.")
	span.SetAttributes(attribute.String("payment.transaction_id", resp.Transaction.ID))
	return domain.PaymentOutcome{
		Success:       true,
		TransactionID: resp.Transaction.ID,
		Amount:        resp.Transaction.Amount,
	}, nil
}
