package dto

type UpsertBomRequest struct {
	ProductCode  string `json:"productCode"  validate:"required,max=64"`
	MaterialCode string `json:"materialCode" validate:"required,max=64"`
	RequiredQty  int    `json:"requiredQty"`
}

type BomResponse struct {
	ID           uint   `json:"id"`
	ProductCode  string `json:"productCode"`
	MaterialCode string `json:"materialCode"`
	MaterialName string `json:"materialName"`
	RequiredQty  int    `json:"requiredQty"`
}
