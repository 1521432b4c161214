package model

import "time"

// Material is a raw material tracked by code. CurrentStock is allowed to go
// negative: backflush never checks availability.
type Material struct {
	ID           uint   `gorm:"primaryKey"`
	Code         string `gorm:"size:64;uniqueIndex;not null"`
	Name         string `gorm:"size:128;not null"`
	CurrentStock int    `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
