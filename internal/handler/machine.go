package handler

import (
	"net/http"

	"shopfloor/internal/dto"
	"shopfloor/internal/service"

	"github.com/gin-gonic/gin"
)

type MachineHandler struct{ svc service.ProductionService }

func NewMachineHandler(svc service.ProductionService) *MachineHandler {
	return &MachineHandler{svc: svc}
}

// Poll godoc
// @Summary      Poll for work
// @Description  Returns the machine's current order, or assigns the oldest waiting one. 204 when there is nothing to do.
// @Tags         machine
// @Produce      json
// @Security     BearerAuth
// @Param        machineId query    string true "Machine identifier"
// @Success      200       {object} dto.WorkOrderResponse
// @Success      204
// @Failure      422       {object} apierror.ValidationError
// @Router       /api/mes/machine/poll [get]
func (h *MachineHandler) Poll(c *gin.Context) {
	var q dto.PollQuery
	if !bindQuery(c, &q) {
		return
	}
	wo, err := h.svc.AssignWork(c.Request.Context(), q.MachineID)
	if err != nil {
		respondError(c, err)
		return
	}
	if wo == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, wo)
}

// Report godoc
// @Summary      Report a produced unit
// @Description  Logs the unit with a fresh serial, backflushes the BOM on OK and advances the order. Reports against a completed order are acknowledged and ignored.
// @Tags         machine
// @Accept       json
// @Produce      plain
// @Security     BearerAuth
// @Param        body body     dto.ReportRequest true "Unit result"
// @Success      200  {string} string "ACK"
// @Failure      404  {object} apierror.APIError
// @Router       /api/mes/machine/report [post]
func (h *MachineHandler) Report(c *gin.Context) {
	var req dto.ReportRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Report(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.String(http.StatusOK, "ACK")
}
