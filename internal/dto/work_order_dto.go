package dto

import "github.com/shopspring/decimal"

type CreateWorkOrderRequest struct {
	ProductCode string `json:"productCode" validate:"required,max=64"`
	TargetQty   int    `json:"targetQty"`
}

// PollQuery identifies the polling machine.
type PollQuery struct {
	MachineID string `form:"machineId" validate:"required,max=64"`
}

// WorkOrderResponse is the wire shape shared by dashboard and machines.
type WorkOrderResponse struct {
	ID                uint    `json:"id"`
	ProductCode       string  `json:"productCode"`
	TargetQty         int     `json:"targetQty"`
	CurrentQty        int     `json:"currentQty"`
	Status            string  `json:"status"`
	AssignedMachineID *string `json:"assignedMachineId"`
}

// OrderSummaryResponse aggregates the production log of one order.
type OrderSummaryResponse struct {
	OrderID     uint            `json:"orderId"`
	WorkOrderNo string          `json:"workOrderNo"`
	ProductCode string          `json:"productCode"`
	TargetQty   int             `json:"targetQty"`
	CurrentQty  int             `json:"currentQty"`
	Status      string          `json:"status"`
	OKCount     int64           `json:"okCount"`
	NGCount     int64           `json:"ngCount"`
	YieldPct    decimal.Decimal `json:"yieldPct"`
}
