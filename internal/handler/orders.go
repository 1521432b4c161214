package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"shopfloor/internal/dto"
	"shopfloor/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct {
	svc       service.WorkOrderService
	reporting service.ReportingService
}

func NewOrdersHandler(svc service.WorkOrderService, reporting service.ReportingService) *OrdersHandler {
	return &OrdersHandler{svc: svc, reporting: reporting}
}

// Create godoc
// @Summary      Create work order
// @Description  Queues a new WAITING order; machines pick orders up oldest first.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CreateWorkOrderRequest true "Order"
// @Success      200  {object} dto.WorkOrderResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /api/mes/order [post]
func (h *OrdersHandler) Create(c *gin.Context) {
	var req dto.CreateWorkOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List work orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.WorkOrderResponse
// @Router       /api/mes/orders [get]
func (h *OrdersHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) Summary(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.reporting.Summary(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Traveler streams the printable traveler for an order.
func (h *OrdersHandler) Traveler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.reporting.Traveler(c.Request.Context(), id, &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="traveler_WO-%d.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
