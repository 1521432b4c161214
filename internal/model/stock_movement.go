package model

import "time"

// Stock movement types.
const (
	MovementInbound   = "inbound"
	MovementBackflush = "backflush"
)

// StockMovement records each change to a material's stock, written in the same
// transaction as the change itself.
type StockMovement struct {
	ID          uint    `gorm:"primaryKey"`
	MaterialID  uint    `gorm:"not null;index"`
	Type        string  `gorm:"size:20;not null"`
	Quantity    int     `gorm:"not null"` // positive = in, negative = out
	StockBefore int     `gorm:"not null"`
	StockAfter  int     `gorm:"not null"`
	Reference   *string `gorm:"size:100"` // serial no for backflush
	CreatedAt   time.Time

	Material *Material `gorm:"foreignKey:MaterialID"`
}

// TableName overrides GORM's default pluralization.
func (StockMovement) TableName() string { return "stock_movements" }

// All returns every model managed by AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Material{},
		&WorkOrder{},
		&Bom{},
		&ProductionLog{},
		&StockMovement{},
	}
}
