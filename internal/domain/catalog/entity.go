// internal/domain/catalog/entity.go
package catalog

import "time"

// Item is a purchasable cake. Items are reference data and never change
// after the catalog is loaded.
type Item struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Price       int64     `gorm:"not null" json:"price"` // Price in rupiah
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"not null;size:100;index" json:"category"`
	Image       string    `gorm:"size:500" json:"image"`
	SortOrder   int       `gorm:"default:0" json:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// TableName overrides the table name
func (Item) TableName() string {
	return "catalog_items"
}
