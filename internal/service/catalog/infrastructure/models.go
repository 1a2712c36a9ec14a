// internal/service/catalog/infrastructure/models.go
package infrastructure

import "time"

// ProductModel 是 Product 领域对象在数据库中的表示。
type ProductModel struct {
	ID          int64 `gorm:"primaryKey"`
	Name        string
	Slug        string `gorm:"uniqueIndex"`
	Description string
	Price       float64
	Quantity    int
	Shipping    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ProductModel) TableName() string {
	return "products"
}
