package handler

import (
	"net/http"

	"shopfloor/internal/dto"
	"shopfloor/internal/service"

	"github.com/gin-gonic/gin"
)

type BomHandler struct{ svc service.BomService }

func NewBomHandler(svc service.BomService) *BomHandler { return &BomHandler{svc: svc} }

func (h *BomHandler) Upsert(c *gin.Context) {
	var req dto.UpsertBomRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Upsert(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BomHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), c.Query("productCode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
