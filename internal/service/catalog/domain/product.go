// internal/service/catalog/domain/product.go
package domain

import (
	"context"
	"errors"
	"time"
)

// ErrProductNotFound 商品不存在。
var ErrProductNotFound = errors.New("product not found")

// Product 是商品目录中的一个商品。
// 目录对结算核心是只读协作方：结算信任客户端提交的价格，
// 不会回到这里重新取价。
type Product struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	Price       float64
	Quantity    int
	Shipping    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductRepository 定义了商品数据的只读访问接口。
type ProductRepository interface {
	FindAll(ctx context.Context, limit int) ([]Product, error)
	FindByID(ctx context.Context, id int64) (*Product, error)
}
