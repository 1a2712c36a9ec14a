// internal/service/order/domain/errors.go
package domain

import "errors"

// ErrorKind 标记一次失败属于错误分类中的哪一类。
// 接口层只依赖这个标记来决定 HTTP 状态码，不关心底层原因。
type ErrorKind string

const (
	KindValidation       ErrorKind = "validation"        // 请求体缺字段 / 购物车为空
	KindPricing          ErrorKind = "pricing"           // 商品价格非法
	KindGateway          ErrorKind = "gateway"           // 支付网关调用失败或拒绝
	KindPersistence      ErrorKind = "persistence"       // 订单写入失败
	KindFormat           ErrorKind = "format"            // 订单 ID 格式非法
	KindStatusValidation ErrorKind = "status_validation" // 状态值缺失或未知
	KindNotFound         ErrorKind = "not_found"         // 订单不存在
)

// Error 是带分类标记的领域错误。
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NewPricingError(msg string) *Error {
	return &Error{Kind: KindPricing, Message: msg}
}

func NewGatewayError(msg string, cause error) *Error {
	return &Error{Kind: KindGateway, Message: msg, Cause: cause}
}

func NewPersistenceError(msg string, cause error) *Error {
	return &Error{Kind: KindPersistence, Message: msg, Cause: cause}
}

func NewFormatError(msg string) *Error {
	return &Error{Kind: KindFormat, Message: msg}
}

func NewStatusValidationError(msg string) *Error {
	return &Error{Kind: KindStatusValidation, Message: msg}
}

func NewNotFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// KindOf 返回错误的分类标记；非领域错误按持久化错误处理（对外一律 500）。
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindPersistence
}
