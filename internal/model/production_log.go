package model

import "time"

// Production results reported by machines.
const (
	ResultOK = "OK"
	ResultNG = "NG"
)

// ProductionLog records one unit produced or rejected. Rows are append-only.
type ProductionLog struct {
	ID          uint      `gorm:"primaryKey"`
	WorkOrderID uint      `gorm:"not null;index"`
	WorkOrderNo string    `gorm:"size:32;not null"`
	ProductCode string    `gorm:"size:64;not null"`
	MachineID   string    `gorm:"size:64;not null;index"`
	SerialNo    string    `gorm:"size:100;uniqueIndex;not null"`
	Result      string    `gorm:"size:8;not null"`
	DefectCode  *string   `gorm:"size:32"`
	ProducedAt  time.Time `gorm:"not null;index"`
}
