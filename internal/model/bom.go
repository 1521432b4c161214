package model

import "time"

// Bom is one line of a product's bill of materials: producing one unit of
// ProductCode consumes RequiredQty of Material.
type Bom struct {
	ID          uint   `gorm:"primaryKey"`
	ProductCode string `gorm:"size:64;not null;uniqueIndex:idx_bom_product_material"`
	MaterialID  uint   `gorm:"not null;uniqueIndex:idx_bom_product_material"`
	RequiredQty int    `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Material *Material `gorm:"foreignKey:MaterialID"`
}

// TableName keeps the singular name used by the seed files.
func (Bom) TableName() string { return "bom" }
