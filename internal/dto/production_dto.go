package dto

import "time"

// ReportRequest is sent by a machine for every unit it finishes.
type ReportRequest struct {
	OrderID    uint   `json:"orderId"    validate:"required"`
	MachineID  string `json:"machineId"  validate:"required,max=64"`
	Result     string `json:"result"     validate:"required,oneof=OK NG"`
	DefectCode string `json:"defectCode" validate:"max=32"`
}

type ProductionLogFilter struct {
	OrderID uint   `form:"orderId"`
	Result  string `form:"result"          validate:"omitempty,oneof=OK NG"`
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=500"`
}

type ProductionLogResponse struct {
	ID          uint      `json:"id"`
	WorkOrderNo string    `json:"workOrderNo"`
	ProductCode string    `json:"productCode"`
	MachineID   string    `json:"machineId"`
	SerialNo    string    `json:"serialNo"`
	Result      string    `json:"result"`
	DefectCode  *string   `json:"defectCode"`
	ProducedAt  time.Time `json:"producedAt"`
}

type ProductionLogListResponse struct {
	Data  []ProductionLogResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}
