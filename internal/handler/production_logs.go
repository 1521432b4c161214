package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"shopfloor/internal/apierror"
	"shopfloor/internal/dto"
	"shopfloor/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ProductionLogsHandler struct{ svc service.ReportingService }

func NewProductionLogsHandler(svc service.ReportingService) *ProductionLogsHandler {
	return &ProductionLogsHandler{svc: svc}
}

func (h *ProductionLogsHandler) List(c *gin.Context) {
	var filter dto.ProductionLogFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListLogs(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Export downloads the production log as a spreadsheet, optionally for one
// order only.
func (h *ProductionLogsHandler) Export(c *gin.Context) {
	var orderID uint
	if raw := c.Query("orderId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid orderId"))
			return
		}
		orderID = uint(id)
	}

	var buf bytes.Buffer
	if err := h.svc.ExportLogs(c.Request.Context(), orderID, &buf); err != nil {
		respondError(c, err)
		return
	}

	name := fmt.Sprintf("production_log_%s.xlsx", time.Now().Format("20060102_150405"))
	if orderID != 0 {
		name = fmt.Sprintf("production_log_WO-%d.xlsx", orderID)
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
