// internal/service/catalog/application/dto.go
package application

import (
	"time"

	"storefront/internal/service/catalog/domain"
)

// ProductView 是对外返回的商品表示。
type ProductView struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Shipping    bool      `json:"shipping"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toView(p *domain.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Shipping:    p.Shipping,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
