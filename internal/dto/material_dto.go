package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// InboundRequest records a material receipt. Amount is not range-checked.
type InboundRequest struct {
	Code   string `json:"code"   validate:"required,max=64"`
	Name   string `json:"name"   validate:"max=128"`
	Amount int    `json:"amount"`
}

type MovementFilter struct {
	MaterialCode string `form:"materialCode"`
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=50" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MaterialResponse struct {
	ID           uint   `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	CurrentStock int    `json:"currentStock"`
}

type StockMovementResponse struct {
	ID           uint      `json:"id"`
	MaterialCode string    `json:"materialCode"`
	Type         string    `json:"type"`
	Quantity     int       `json:"quantity"`
	StockBefore  int       `json:"stockBefore"`
	StockAfter   int       `json:"stockAfter"`
	Reference    *string   `json:"reference"`
	CreatedAt    time.Time `json:"createdAt"`
}
