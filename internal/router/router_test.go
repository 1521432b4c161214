package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shopfloor/internal/config"
	"shopfloor/internal/dto"
	"shopfloor/internal/middleware"
	"shopfloor/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{Env: "test", RateLimit: "10000-M"}
	}
	r, err := New(cfg, testutil.SetupTestDB(t), nil)
	require.NoError(t, err)
	return r
}

func do(r http.Handler, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth_QueueDisabled(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]interface{}](t, w)
	assert.Equal(t, "connected", body["db"])
	assert.Equal(t, "disabled", body["redis"])
}

func TestProductionFlow(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/api/mes/material/inbound", dto.InboundRequest{Code: "M-STEEL", Name: "Steel", Amount: 100})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	mat := decode[map[string]interface{}](t, w)
	assert.Equal(t, float64(100), mat["currentStock"])

	w = do(r, http.MethodPost, "/api/mes/bom", dto.UpsertBomRequest{ProductCode: "P1", MaterialCode: "M-STEEL", RequiredQty: 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodPost, "/api/mes/order", dto.CreateWorkOrderRequest{ProductCode: "P1", TargetQty: 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	order := decode[map[string]interface{}](t, w)
	assert.Equal(t, "WAITING", order["status"])
	assert.Equal(t, float64(0), order["currentQty"])
	assert.Contains(t, order, "assignedMachineId")
	orderID := uint(order["id"].(float64))

	w = do(r, http.MethodGet, "/api/mes/machine/poll?machineId=M1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	polled := decode[dto.WorkOrderResponse](t, w)
	assert.Equal(t, orderID, polled.ID)
	assert.Equal(t, "IN_PROGRESS", polled.Status)
	require.NotNil(t, polled.AssignedMachineID)
	assert.Equal(t, "M1", *polled.AssignedMachineID)

	w = do(r, http.MethodGet, "/api/mes/machine/poll?machineId=M2", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	for _, result := range []string{"OK", "NG", "OK", "OK"} {
		w = do(r, http.MethodPost, "/api/mes/machine/report", dto.ReportRequest{OrderID: orderID, MachineID: "M1", Result: result, DefectCode: "D1"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "ACK", w.Body.String())
	}

	w = do(r, http.MethodGet, "/api/mes/materials", nil)
	require.Equal(t, http.StatusOK, w.Code)
	mats := decode[[]dto.MaterialResponse](t, w)
	require.Len(t, mats, 1)
	assert.Equal(t, 96, mats[0].CurrentStock)

	w = do(r, http.MethodGet, fmt.Sprintf("/api/mes/orders/%d", orderID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[dto.WorkOrderResponse](t, w)
	assert.Equal(t, "COMPLETED", got.Status)
	assert.Equal(t, 3, got.CurrentQty)

	w = do(r, http.MethodGet, fmt.Sprintf("/api/mes/orders/%d/summary", orderID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[map[string]interface{}](t, w)
	assert.Equal(t, float64(2), summary["okCount"])
	assert.Equal(t, float64(1), summary["ngCount"])
	assert.Equal(t, "66.67", summary["yieldPct"])

	w = do(r, http.MethodGet, fmt.Sprintf("/api/mes/production-logs?orderId=%d", orderID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	logs := decode[dto.ProductionLogListResponse](t, w)
	assert.Equal(t, int64(3), logs.Total)
	for _, l := range logs.Data {
		assert.Equal(t, fmt.Sprintf("WO-%d", orderID), l.WorkOrderNo)
		if l.Result == "OK" {
			assert.Nil(t, l.DefectCode)
		} else {
			require.NotNil(t, l.DefectCode)
			assert.Equal(t, "D1", *l.DefectCode)
		}
	}

	w = do(r, http.MethodGet, "/api/mes/materials/movements?materialCode=M-STEEL", nil)
	require.Equal(t, http.StatusOK, w.Code)
	movs := decode[[]dto.StockMovementResponse](t, w)
	assert.Len(t, movs, 3)

	w = do(r, http.MethodGet, fmt.Sprintf("/api/mes/production-logs/export?orderId=%d", orderID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	w = do(r, http.MethodGet, fmt.Sprintf("/api/mes/orders/%d/traveler", orderID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	// M1 is free again and the queue is empty.
	w = do(r, http.MethodGet, "/api/mes/machine/poll?machineId=M1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestOrdersListedNewestFirst(t *testing.T) {
	r := newTestRouter(t, nil)
	for _, p := range []string{"P1", "P2"} {
		require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/mes/order", dto.CreateWorkOrderRequest{ProductCode: p, TargetQty: 1}).Code)
	}

	w := do(r, http.MethodGet, "/api/mes/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decode[[]dto.WorkOrderResponse](t, w)
	require.Len(t, orders, 2)
	assert.Equal(t, "P2", orders[0].ProductCode)
}

func TestReport_UnknownOrderIs404(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/api/mes/machine/report", dto.ReportRequest{OrderID: 999, MachineID: "M1", Result: "OK"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode[map[string]string](t, w)
	assert.NotEmpty(t, body["detail"])
}

func TestReport_Validation(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/api/mes/machine/report", `{"orderId": 1,`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/mes/machine/report", map[string]interface{}{"orderId": 1, "machineId": "M1", "result": "MAYBE"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode[map[string]interface{}](t, w)
	fields := body["fields"].(map[string]interface{})
	assert.Equal(t, "oneof", fields["Result"])

	// orderId 0 is a malformed request, not an unknown order.
	w = do(r, http.MethodPost, "/api/mes/machine/report", map[string]interface{}{"orderId": 0, "machineId": "M1", "result": "OK"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body = decode[map[string]interface{}](t, w)
	fields = body["fields"].(map[string]interface{})
	assert.Equal(t, "required", fields["OrderID"])
}

func TestPoll_ValidatesMachineID(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/api/mes/machine/poll", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(r, http.MethodGet, "/api/mes/machine/poll?machineId="+strings.Repeat("M", 65), nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode[map[string]interface{}](t, w)
	fields := body["fields"].(map[string]interface{})
	assert.Equal(t, "max", fields["MachineID"])

	w = do(r, http.MethodGet, "/api/mes/machine/poll?machineId="+strings.Repeat("M", 64), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestOrder_NotFoundAndBadID(t *testing.T) {
	r := newTestRouter(t, nil)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/mes/orders/12", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/mes/orders/abc", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/mes/orders/12/traveler", nil).Code)
}

func TestBom_UnknownMaterialIs404(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/api/mes/bom", dto.UpsertBomRequest{ProductCode: "P1", MaterialCode: "NOPE", RequiredQty: 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuth_RolesWhenSecretConfigured(t *testing.T) {
	const secret = "router-secret"
	r := newTestRouter(t, &config.Config{Env: "test", RateLimit: "10000-M", JWTSecret: secret})

	machineTok, err := middleware.IssueToken(secret, "M1", middleware.RoleMachine, time.Hour)
	require.NoError(t, err)
	dashTok, err := middleware.IssueToken(secret, "ops", middleware.RoleDashboard, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/mes/orders", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/mes/orders", nil, "Authorization", "Bearer "+machineTok).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/mes/orders", nil, "Authorization", "Bearer "+dashTok).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodGet, "/api/mes/machine/poll?machineId=M1", nil, "Authorization", "Bearer "+machineTok).Code)

	// Health stays public.
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", nil).Code)
}

func TestNew_RejectsBadRateLimit(t *testing.T) {
	_, err := New(&config.Config{RateLimit: "fast"}, testutil.SetupTestDB(t), nil)
	assert.Error(t, err)
}
