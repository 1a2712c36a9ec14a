// internal/service/catalog/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"errors"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"storefront/internal/service/catalog/domain"
)

// NewMysqlDB 打开一个 MySQL 连接池。
func NewMysqlDB(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// GormProductRepository 是 ProductRepository 的 GORM 实现。
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository 创建一个新的 GORM 仓储实例。
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindAll 返回商品列表，按创建时间倒序。
func (r *GormProductRepository) FindAll(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var models []ProductModel
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&models).Error
	if err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(models))
	for i := range models {
		products = append(products, *ToDomainProduct(&models[i]))
	}
	return products, nil
}

// FindByID 根据主键查找商品。
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return ToDomainProduct(&model), nil
}
