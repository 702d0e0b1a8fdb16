// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/lapis-malang/storefront/internal/domain/catalog"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger logrus.FieldLogger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("Running database auto-migrations")

	models := []interface{}{
		&catalog.Item{},
	}

	for _, model := range models {
		m.logger.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	return nil
}

// CreateIndexes creates additional indexes
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_catalog_items_sort ON catalog_items(sort_order, id)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// SeedCatalog inserts the built-in catalog when the table is empty
func (m *Migration) SeedCatalog() error {
	var count int64
	if err := m.db.Model(&catalog.Item{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count catalog items: %w", err)
	}

	if count > 0 {
		m.logger.WithField("items", count).Debug("Catalog already seeded")
		return nil
	}

	items := catalog.DefaultItems()
	for i := range items {
		items[i].SortOrder = i
	}

	if err := m.db.Create(&items).Error; err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	m.logger.WithField("items", len(items)).Info("Seeded catalog")
	return nil
}
