// internal/service/catalog/infrastructure/mapper.go
package infrastructure

import "storefront/internal/service/catalog/domain"

// ToDomainProduct 将数据库模型转换为领域模型。
func ToDomainProduct(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}
	return &domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		Slug:        model.Slug,
		Description: model.Description,
		Price:       model.Price,
		Quantity:    model.Quantity,
		Shipping:    model.Shipping,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
