package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"storefront/internal/service/order/domain"
)

const testOrderID = "64a1f0c2e5b4a3d2c1b0a9f8"

type fakeGateway struct {
	saleCalls   int
	saleAmounts []float64
	saleNonces  []string
	outcome     domain.PaymentOutcome
	saleErr     error
	token       string
	tokenErr    error
}

func (g *fakeGateway) GenerateClientToken(ctx context.Context) (string, error) {
	return g.token, g.tokenErr
}

func (g *fakeGateway) Sale(ctx context.Context, amount float64, nonce string) (domain.PaymentOutcome, error) {
	g.saleCalls++
	g.saleAmounts = append(g.saleAmounts, amount)
	g.saleNonces = append(g.saleNonces, nonce)
	if g.saleErr != nil {
		return domain.PaymentOutcome{}, g.saleErr
	}
	return g.outcome, nil
}

type fakeRepo struct {
	insertCalls int
	insertErr   error
	inserted    *domain.Order
	findCalls   int
	orders      map[string]*domain.Order
	updateErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[string]*domain.Order)}
}

func (r *fakeRepo) Insert(ctx context.Context, order *domain.Order) (string, error) {
	r.insertCalls++
	if r.insertErr != nil {
		return "", r.insertErr
	}
	r.inserted = order
	stored := *order
	stored.ID = testOrderID
	r.orders[testOrderID] = &stored
	return testOrderID, nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	r.findCalls++
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.NewNotFoundError("order not found: " + id)
	}
	// 返回副本，模拟真实仓储每次解码出一个新文档
	found := *order
	return &found, nil
}

func (r *fakeRepo) FindByBuyer(ctx context.Context, buyer string) ([]domain.Order, error) {
	var result []domain.Order
	for _, order := range r.orders {
		if order.Buyer == buyer {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.NewNotFoundError("order not found: " + id)
	}
	order.ChangeStatus(status)
	updated := *order
	return &updated, nil
}

type fakeNotifier struct {
	placed  []*domain.OrderPlaced
	changed []*domain.OrderStatusChanged
}

func (n *fakeNotifier) OrderPlaced(ctx context.Context, event *domain.OrderPlaced) error {
	n.placed = append(n.placed, event)
	return nil
}

func (n *fakeNotifier) OrderStatusChanged(ctx context.Context, event *domain.OrderStatusChanged) error {
	n.changed = append(n.changed, event)
	return nil
}

func (n *fakeNotifier) Close() error { return nil }

type fakeCache struct {
	entries map[string]*domain.Order
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domain.Order)}
}

func (c *fakeCache) Get(ctx context.Context, id string) (*domain.Order, bool) {
	order, ok := c.entries[id]
	return order, ok
}

func (c *fakeCache) Set(ctx context.Context, order *domain.Order) {
	c.sets++
	c.entries[order.ID] = order
}

func newTestService(repo domain.OrderRepository, gateway *fakeGateway, notifier *fakeNotifier) *OrderApplicationService {
	if notifier == nil {
		return NewOrderApplicationService(repo, nil, gateway, nil, nil, otel.Tracer("test"))
	}
	return NewOrderApplicationService(repo, nil, gateway, notifier, nil, otel.Tracer("test"))
}

func checkoutRequest(cart string) *CheckoutRequest {
	return &CheckoutRequest{Nonce: "fake-valid-nonce", Cart: json.RawMessage(cart)}
}

func TestCheckout_Success(t *testing.T) {
	repo := newFakeRepo()
	gateway := &fakeGateway{outcome: domain.PaymentOutcome{Success: true, TransactionID: "txn_42", Amount: 30}}
	notifier := &fakeNotifier{}
	svc := newTestService(repo, gateway, notifier)

	order, err := svc.Checkout(context.Background(), "user-1",
		checkoutRequest(`[{"name":"a","price":10},{"name":"b","price":8},{"name":"c","price":12}]`))
	require.NoError(t, err)

	// 网关拿到的是逐项合计后的总额
	require.Equal(t, 1, gateway.saleCalls)
	assert.Equal(t, float64(30), gateway.saleAmounts[0])
	assert.Equal(t, "fake-valid-nonce", gateway.saleNonces[0])

	assert.Equal(t, testOrderID, order.ID)
	assert.Equal(t, "user-1", order.Buyer)
	assert.Equal(t, domain.StatusNotProcessed, order.Status)
	assert.Equal(t, "txn_42", order.Payment.TransactionID)
	require.Len(t, order.Products, 3)

	require.Len(t, notifier.placed, 1)
	assert.Equal(t, testOrderID, notifier.placed[0].OrderID)
	assert.Equal(t, float64(30), notifier.placed[0].Total)
}

func TestCheckout_ValidationFailuresNeverReachGateway(t *testing.T) {
	tests := []struct {
		name string
		req  *CheckoutRequest
	}{
		{"missing nonce", &CheckoutRequest{Cart: json.RawMessage(`[{"name":"a","price":10}]`)}},
		{"missing cart", &CheckoutRequest{Nonce: "fake-valid-nonce"}},
		{"empty cart", checkoutRequest(`[]`)},
		{"cart not a list", checkoutRequest(`{"name":"a"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			gateway := &fakeGateway{outcome: domain.PaymentOutcome{Success: true}}
			svc := newTestService(repo, gateway, nil)

			_, err := svc.Checkout(context.Background(), "user-1", tt.req)
			require.Error(t, err)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
			assert.Zero(t, gateway.saleCalls, "gateway must not be called on validation failure")
			assert.Zero(t, repo.insertCalls)
		})
	}
}

func TestCheckout_PricingFailuresNeverReachGateway(t *testing.T) {
	tests := []struct {
		name string
		cart string
	}{
		{"string price", `[{"name":"a","price":"10"}]`},
		{"negative price", `[{"name":"a","price":-5}]`},
		{"missing price", `[{"name":"a"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			gateway := &fakeGateway{outcome: domain.PaymentOutcome{Success: true}}
			svc := newTestService(repo, gateway, nil)

			_, err := svc.Checkout(context.Background(), "user-1", checkoutRequest(tt.cart))
			require.Error(t, err)
			assert.Equal(t, domain.KindPricing, domain.KindOf(err))
			assert.Zero(t, gateway.saleCalls, "gateway must not be called on pricing failure")
			assert.Zero(t, repo.insertCalls)
		})
	}
}

func TestCheckout_GatewayDeclineStopsBeforePersistence(t *testing.T) {
	repo := newFakeRepo()
	gateway := &fakeGateway{saleErr: domain.NewGatewayError("gateway declined the sale: insufficient funds", nil)}
	svc := newTestService(repo, gateway, nil)

	_, err := svc.Checkout(context.Background(), "user-1", checkoutRequest(`[{"name":"a","price":10}]`))
	require.Error(t, err)
	assert.Equal(t, domain.KindGateway, domain.KindOf(err))
	assert.Equal(t, 1, gateway.saleCalls, "exactly one sale attempt, no retries")
	assert.Zero(t, repo.insertCalls, "no order may be written for a failed payment")
}

func TestCheckout_InsertFailureAfterCapture(t *testing.T) {
	repo := newFakeRepo()
	repo.insertErr = errors.New("connection reset")
	gateway := &fakeGateway{outcome: domain.PaymentOutcome{Success: true, TransactionID: "txn_lost", Amount: 10}}
	svc := newTestService(repo, gateway, nil)

	_, err := svc.Checkout(context.Background(), "user-1", checkoutRequest(`[{"name":"a","price":10}]`))
	require.Error(t, err)

	// 钱已经扣了，但结果仍然是失败：没有补偿动作
	assert.Equal(t, domain.KindPersistence, domain.KindOf(err))
	assert.Equal(t, 1, gateway.saleCalls)
	assert.Equal(t, 1, repo.insertCalls)
}

func TestCheckout_RunsWithoutCache(t *testing.T) {
	// Redis 不可用时服务以 nil 缓存运行，下单、查询、改状态都必须完整走通
	repo := newFakeRepo()
	gateway := &fakeGateway{outcome: domain.PaymentOutcome{Success: true, TransactionID: "txn_1", Amount: 10}}
	svc := NewOrderApplicationService(repo, nil, gateway, nil, nil, otel.Tracer("test"))

	order, err := svc.Checkout(context.Background(), "user-1", checkoutRequest(`[{"name":"a","price":10}]`))
	require.NoError(t, err)
	assert.Equal(t, testOrderID, order.ID)

	got, err := svc.GetOrder(context.Background(), testOrderID)
	require.NoError(t, err)
	assert.Equal(t, testOrderID, got.ID)

	updated, err := svc.UpdateStatus(context.Background(), testOrderID, "Processing")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, updated.Status)
}

func TestUpdateStatus_Success(t *testing.T) {
	repo := newFakeRepo()
	gateway := &fakeGateway{outcome: domain.PaymentOutcome{Success: true, TransactionID: "txn_1", Amount: 10}}
	notifier := &fakeNotifier{}
	svc := newTestService(repo, gateway, notifier)

	_, err := svc.Checkout(context.Background(), "user-1", checkoutRequest(`[{"name":"a","price":10}]`))
	require.NoError(t, err)

	order, err := svc.UpdateStatus(context.Background(), testOrderID, "Shipped")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, order.Status)

	require.Len(t, notifier.changed, 1)
	assert.Equal(t, domain.StatusNotProcessed, notifier.changed[0].OldStatus)
	assert.Equal(t, domain.StatusShipped, notifier.changed[0].NewStatus)
}

func TestUpdateStatus_MalformedIDSkipsStore(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGateway{}, nil)

	_, err := svc.UpdateStatus(context.Background(), "not-an-id", "Shipped")
	require.Error(t, err)
	assert.Equal(t, domain.KindFormat, domain.KindOf(err))
	assert.Zero(t, repo.findCalls, "store must not be queried for a malformed id")
}

func TestUpdateStatus_UnknownStatusSkipsStore(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGateway{}, nil)

	_, err := svc.UpdateStatus(context.Background(), testOrderID, "Teleported")
	require.Error(t, err)
	assert.Equal(t, domain.KindStatusValidation, domain.KindOf(err))
	assert.Zero(t, repo.findCalls, "store must not be queried for an unknown status")
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGateway{}, nil)

	_, err := svc.UpdateStatus(context.Background(), testOrderID, "Shipped")
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestGetOrder_CacheAside(t *testing.T) {
	repo := newFakeRepo()
	cache := newFakeCache()
	svc := NewOrderApplicationService(repo, cache, &fakeGateway{}, nil, nil, otel.Tracer("test"))

	order, err := domain.NewOrder("user-1", []domain.CartItem{{Name: "a", Price: 10}},
		domain.PaymentOutcome{Success: true, TransactionID: "txn_1", Amount: 10})
	require.NoError(t, err)
	order.ID = testOrderID
	repo.orders[testOrderID] = order

	// 第一次读穿透到仓储并回填缓存
	got, err := svc.GetOrder(context.Background(), testOrderID)
	require.NoError(t, err)
	assert.Equal(t, testOrderID, got.ID)
	assert.Equal(t, 1, repo.findCalls)
	assert.Equal(t, 1, cache.sets)

	// 第二次读命中缓存
	_, err = svc.GetOrder(context.Background(), testOrderID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.findCalls)
}

func TestGetOrder_MalformedID(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeGateway{}, nil)

	_, err := svc.GetOrder(context.Background(), "zzz")
	require.Error(t, err)
	assert.Equal(t, domain.KindFormat, domain.KindOf(err))
}

func TestClientToken(t *testing.T) {
	gateway := &fakeGateway{token: "sandbox-client-token"}
	svc := newTestService(newFakeRepo(), gateway, nil)

	token, err := svc.ClientToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sandbox-client-token", token)

	gateway.tokenErr = errors.New("dial tcp: connection refused")
	_, err = svc.ClientToken(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.KindGateway, domain.KindOf(err))
}

func TestStatusValues(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeGateway{}, nil)
	assert.Equal(t, domain.AllStatuses(), svc.StatusValues())
}
