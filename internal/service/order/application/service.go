// internal/service/order/application/service.go
package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storefront/internal/pkg/logger"
	"storefront/internal/service/order/domain"
	"storefront/internal/service/order/domain/port"
)

// OrderApplicationService 编排结算与订单生命周期的业务流程。
// 所有外部依赖都通过出站端口注入，网关和仓储都可以在测试中替换。
type OrderApplicationService struct {
	orderRepo domain.OrderRepository
	cache     domain.OrderCache
	gateway   port.PaymentGateway
	notifier  port.NotificationProducer
	stream    port.StatusStreamPublisher
	tracer    trace.Tracer
}

// NewOrderApplicationService 创建应用服务实例。
// cache、notifier、stream 允许为 nil（例如在测试中），nil 依赖直接跳过。
func NewOrderApplicationService(
	orderRepo domain.OrderRepository,
	cache domain.OrderCache,
	gateway port.PaymentGateway,
	notifier port.NotificationProducer,
	stream port.StatusStreamPublisher,
	tracer trace.Tracer,
) *OrderApplicationService {
	return &OrderApplicationService{
		orderRepo: orderRepo,
		cache:     cache,
		gateway:   gateway,
		notifier:  notifier,
		stream:    stream,
		tracer:    tracer,
	}
}

// ClientToken 向网关申请一个浏览器端 SDK 使用的 client token。
func (s *OrderApplicationService) ClientToken(ctx context.Context) (string, error) {
	ctx, span := s.tracer.Start(ctx, "app.ClientToken")
	defer span.End()

	token, err := s.gateway.GenerateClientToken(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to generate client token")
		return "", domain.NewGatewayError("failed to generate client token", err)
	}
	return token, nil
}

// Checkout 执行完整的结算流程：校验 → 合计 → 扣款 → 落库。
//
// 每一步失败都立即终止；网关只会在校验与合计全部通过后被调用一次，
// 订单文档只会在扣款成功后被写入一次。
func (s *OrderApplicationService) Checkout(ctx context.Context, buyer string, req *CheckoutRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.Checkout")
	defer span.End()
	span.SetAttributes(attribute.String("order.buyer", buyer))

	// 1. 请求体校验。任何网关调用、任何存储访问之前完成。
	items, err := ParseCheckoutCart(req)
	if err != nil {
		checkoutFailures.WithLabelValues("validation").Inc()
		span.RecordError(err)
		return nil, err
	}

	// 2. 逐项价格校验并求和。纯计算，无副作用。
	total, products, err := AggregateTotal(items)
	if err != nil {
		checkoutFailures.WithLabelValues("pricing").Inc()
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Float64("order.total", total))

	// 3. 调用支付网关扣款。单次调用，不重试，也不携带幂等键；
	//    重试这次请求是否会重复扣款由网关侧语义决定，这里不做保证。
	outcome, err := s.gateway.Sale(ctx, total, req.Nonce)
	if err != nil {
		checkoutFailures.WithLabelValues("gateway").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "payment capture failed")
		logger.Ctx(ctx).Error().Err(err).Float64("amount", total).Msg("payment gateway rejected the sale")
		return nil, err
	}
	paymentsCaptured.Inc()
	span.AddEvent("Payment captured by gateway.")

	// 4. 扣款成功后创建并持久化订单。
	order, err := domain.NewOrder(buyer, products, outcome)
	if err != nil {
		// 走到这里意味着上面的校验有洞；钱已经扣了，按落库失败同样处理
		checkoutFailures.WithLabelValues("persistence").Inc()
		paymentsUnrecorded.Inc()
		span.RecordError(err)
		return nil, domain.NewPersistenceError("failed to build order after capture", err)
	}

	id, err := s.orderRepo.Insert(ctx, order)
	if err != nil {
		// 钱已经划走，订单却没写进去。这里没有向网关发起冲正/退款的
		// 补偿动作——资金状态与订单库从此不一致，只能靠告警和人工对账。
		checkoutFailures.WithLabelValues("persistence").Inc()
		paymentsUnrecorded.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "order write failed after successful capture")
		logger.Ctx(ctx).Error().Err(err).
			Str("transaction_id", outcome.TransactionID).
			Float64("amount", outcome.Amount).
			Msg("CRITICAL: payment captured but order was not recorded")
		return nil, domain.NewPersistenceError("failed to record order", err)
	}
	order.ID = id
	ordersPlaced.Inc()
	span.SetAttributes(attribute.String("order.id", id))
	span.AddEvent("Order recorded.")

	// 5. 发布事件并填充读缓存。尽力而为，失败不影响下单结果。
	if s.cache != nil {
		s.cache.Set(ctx, order)
	}
	if s.notifier != nil {
		event := &domain.OrderPlaced{
			EventID:  uuid.New().String(),
			OrderID:  order.ID,
			Buyer:    order.Buyer,
			Total:    total,
			Status:   order.Status,
			PlacedAt: order.CreatedAt,
		}
		if err := s.notifier.OrderPlaced(ctx, event); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("failed to publish order placed event")
		}
	}

	logger.Ctx(ctx).Info().Str("order_id", order.ID).Float64("total", total).Msg("order placed")
	return order, nil
}

// UpdateStatus 是后台的状态变更用例，订单状态只允许从这里修改。
//
// 校验顺序：ID 格式 → 状态枚举 → 存在性。前两步失败都不会触发存储查询。
// 状态机不限制迁移方向，任意状态之间都允许切换。
func (s *OrderApplicationService) UpdateStatus(ctx context.Context, orderID, statusValue string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.UpdateStatus")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	if err := domain.ValidateOrderID(orderID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	status, err := domain.ParseStatus(statusValue)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("order.status", string(status)))

	// 为了事件里的 oldStatus 先读一次旧文档；读不到直接 404。
	// 状态值在更新前就取出来，避免仓储实现返回共享实例时被覆盖。
	previous, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	oldStatus := previous.Status

	order, err := s.orderRepo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "status update failed")
		return nil, err
	}
	statusUpdates.WithLabelValues(string(status)).Inc()

	if s.cache != nil {
		s.cache.Set(ctx, order)
	}

	event := &domain.OrderStatusChanged{
		EventID:   uuid.New().String(),
		OrderID:   order.ID,
		Buyer:     order.Buyer,
		OldStatus: oldStatus,
		NewStatus: order.Status,
		ChangedAt: time.Now(),
	}
	if s.stream != nil {
		s.stream.Publish(event)
	}
	if s.notifier != nil {
		if err := s.notifier.OrderStatusChanged(ctx, event); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("failed to publish status changed event")
		}
	}

	logger.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Str("from", string(oldStatus)).
		Str("to", string(order.Status)).
		Msg("order status updated")
	return order, nil
}

// GetOrder 读取单个订单，优先走缓存。
func (s *OrderApplicationService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.GetOrder")
	defer span.End()

	if err := domain.ValidateOrderID(orderID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if s.cache != nil {
		if order, ok := s.cache.Get(ctx, orderID); ok {
			span.AddEvent("cache hit")
			return order, nil
		}
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, order)
	}
	return order, nil
}

// ListByBuyer 返回当前买家的订单历史。
func (s *OrderApplicationService) ListByBuyer(ctx context.Context, buyer string) ([]domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListByBuyer")
	defer span.End()
	span.SetAttributes(attribute.String("order.buyer", buyer))

	return s.orderRepo.FindByBuyer(ctx, buyer)
}

// StatusValues 返回状态枚举，供管理端下拉框使用。
func (s *OrderApplicationService) StatusValues() []domain.Status {
	return domain.AllStatuses()
}
