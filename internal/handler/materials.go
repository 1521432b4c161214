package handler

import (
	"net/http"

	"shopfloor/internal/dto"
	"shopfloor/internal/service"

	"github.com/gin-gonic/gin"
)

type MaterialsHandler struct{ svc service.InventoryService }

func NewMaterialsHandler(svc service.InventoryService) *MaterialsHandler {
	return &MaterialsHandler{svc: svc}
}

// Inbound godoc
// @Summary      Receive material
// @Description  Adds amount to the material's stock, creating the material on first receipt.
// @Tags         materials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.InboundRequest true "Receipt"
// @Success      200  {object} dto.MaterialResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /api/mes/material/inbound [post]
func (h *MaterialsHandler) Inbound(c *gin.Context) {
	var req dto.InboundRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Inbound(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MaterialsHandler) List(c *gin.Context) {
	resp, err := h.svc.ListMaterials(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MaterialsHandler) Movements(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
