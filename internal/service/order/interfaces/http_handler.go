// internal/service/order/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/internal/pkg/logger"
	"storefront/internal/service/order/application"
	"storefront/internal/service/order/domain"
)

// OrderHandler 封装了结算与订单生命周期的 HTTP 处理器。
type OrderHandler struct {
	service *application.OrderApplicationService
	hub     *Hub // 可为 nil，WebSocket 推送是可选能力
}

// NewOrderHandler 创建一个新的 HTTP 处理器实例。
func NewOrderHandler(service *application.OrderApplicationService, hub *Hub) *OrderHandler {
	return &OrderHandler{service: service, hub: hub}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/checkout/token", requireUser(h.handleClientToken))
	mux.HandleFunc("POST /api/checkout", requireUser(h.handleCheckout))
	mux.HandleFunc("GET /api/orders", requireUser(h.handleListOrders))
	mux.HandleFunc("GET /api/orders/status-values", requireAdmin(h.handleStatusValues))
	mux.HandleFunc("GET /api/orders/{orderId}", requireUser(h.handleGetOrder))
	mux.HandleFunc("PUT /api/orders/{orderId}/status", requireAdmin(h.handleUpdateStatus))

	if h.hub != nil {
		mux.HandleFunc("GET /ws/orders", requireAdmin(h.hub.ServeWS))
	}
}

// kindToStatus 把领域错误分类映射到 HTTP 状态码。
// 价格非法按服务端错误返回（500），沿用线上行为。
func kindToStatus(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindFormat, domain.KindStatusValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeFailure 写出统一的失败响应体。
func writeFailure(w http.ResponseWriter, status int, message string, cause error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]interface{}{
		"success": false,
		"message": message,
	}
	if cause != nil {
		body["error"] = cause.Error()
	}
	json.NewEncoder(w).Encode(body)
}

// writeDomainFailure 记录失败原因并写出响应。所有请求级失败都先落日志。
func (h *OrderHandler) writeDomainFailure(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := kindToStatus(kind)
	logger.Ctx(r.Context()).Error().
		Err(err).
		Str("kind", string(kind)).
		Int("status", status).
		Msg("request failed")

	var de *domain.Error
	message := err.Error()
	var cause error
	if errors.As(err, &de) {
		message = de.Message
		cause = de.Cause
	}
	writeFailure(w, status, message, cause)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// handleClientToken 向网关申请浏览器端 SDK 的 client token。
func (h *OrderHandler) handleClientToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.service.ClientToken(r.Context())
	if err != nil {
		h.writeDomainFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"clientToken": token})
}

// handleCheckout 是结算入口。买家身份来自认证中间件，不来自请求体。
func (h *OrderHandler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req application.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeDomainFailure(w, r, domain.NewValidationError("Invalid request body"))
		return
	}

	order, err := h.service.Checkout(r.Context(), UserFromContext(r.Context()), &req)
	if err != nil {
		h.writeDomainFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":    true,
		"order": order,
	})
}

// handleUpdateStatus 是后台的状态变更入口。
func (h *OrderHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderId")

	var req application.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeDomainFailure(w, r, domain.NewStatusValidationError("Invalid request body"))
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		h.writeDomainFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order status updated",
		"order":   order,
	})
}

// handleGetOrder 读取单个订单。买家只能看自己的订单，管理员不受限；
// 归属不符时按不存在处理，避免用响应码探测他人订单。
func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderId")
	order, err := h.service.GetOrder(r.Context(), orderID)
	if err != nil {
		h.writeDomainFailure(w, r, err)
		return
	}
	if !IsAdmin(r.Context()) && order.Buyer != UserFromContext(r.Context()) {
		h.writeDomainFailure(w, r, domain.NewNotFoundError("order not found: "+orderID))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"order":   order,
	})
}

// handleListOrders 返回当前买家的订单历史。
func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListByBuyer(r.Context(), UserFromContext(r.Context()))
	if err != nil {
		h.writeDomainFailure(w, r, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"orders":  orders,
	})
}

// handleStatusValues 返回状态枚举，供管理端下拉框使用。
func (h *OrderHandler) handleStatusValues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"values":  h.service.StatusValues(),
	})
}
