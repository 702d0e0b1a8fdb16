// internal/infrastructure/database/postgres/catalog_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/lapis-malang/storefront/internal/domain/catalog"
	"gorm.io/gorm"
)

// CatalogRepository reads catalog items from postgres
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a catalog repository
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// LoadItems returns every catalog item in display order
func (r *CatalogRepository) LoadItems(ctx context.Context) ([]catalog.Item, error) {
	var items []catalog.Item
	err := r.db.WithContext(ctx).
		Order("sort_order ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog items: %w", err)
	}
	return items, nil
}
