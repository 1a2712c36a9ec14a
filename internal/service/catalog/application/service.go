// internal/service/catalog/application/service.go
package application

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"storefront/internal/service/catalog/domain"
)

// CatalogService 提供商品目录的只读用例。
type CatalogService struct {
	repo   domain.ProductRepository
	tracer trace.Tracer
}

func NewCatalogService(repo domain.ProductRepository, tracer trace.Tracer) *CatalogService {
	return &CatalogService{repo: repo, tracer: tracer}
}

// ListProducts 返回商品列表。
func (s *CatalogService) ListProducts(ctx context.Context, limit int) ([]ProductView, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts")
	defer span.End()
	span.SetAttributes(attribute.Int("catalog.limit", limit))

	products, err := s.repo.FindAll(ctx, limit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, toView(&products[i]))
	}
	return views, nil
}

// GetProduct 按 ID 返回单个商品。
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*ProductView, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct")
	defer span.End()
	span.SetAttributes(attribute.Int64("catalog.product_id", id))

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	view := toView(product)
	return &view, nil
}
