package model

import (
	"fmt"
	"time"
)

// Work order states. COMPLETED is terminal.
const (
	WOStatusWaiting    = "WAITING"
	WOStatusInProgress = "IN_PROGRESS"
	WOStatusCompleted  = "COMPLETED"
)

// WorkOrder asks the floor to produce TargetQty units of ProductCode.
type WorkOrder struct {
	ID                uint    `gorm:"primaryKey"`
	ProductCode       string  `gorm:"size:64;not null;index"`
	TargetQty         int     `gorm:"not null"`
	CurrentQty        int     `gorm:"not null;default:0"`
	Status            string  `gorm:"size:20;not null;default:'WAITING';index"`
	AssignedMachineID *string `gorm:"size:64"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Number is the human-facing order number stamped on production logs.
func (w *WorkOrder) Number() string { return fmt.Sprintf("WO-%d", w.ID) }
