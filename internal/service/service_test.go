package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"shopfloor/internal/dto"
	"shopfloor/internal/repository"
	"shopfloor/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Job queue fake ───────────────────────────────────────────────────────────

type recordingJobs struct {
	mu       sync.Mutex
	orderIDs []uint
	err      error
}

func (j *recordingJobs) EnqueueOrderCompleted(_ context.Context, orderID uint) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.orderIDs = append(j.orderIDs, orderID)
	return j.err
}

func (j *recordingJobs) enqueued() []uint {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]uint(nil), j.orderIDs...)
}

// ── Fixture ──────────────────────────────────────────────────────────────────

type fixture struct {
	db         *gorm.DB
	inventory  InventoryService
	orders     WorkOrderService
	production ProductionService
	boms       BomService
	reporting  ReportingService
	jobs       *recordingJobs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)

	materialRepo := repository.NewMaterialRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	orderRepo := repository.NewWorkOrderRepository(db)
	bomRepo := repository.NewBomRepository(db)
	logRepo := repository.NewProductionLogRepository(db)
	jobs := &recordingJobs{}

	return &fixture{
		db:         db,
		inventory:  NewInventoryService(materialRepo, movementRepo),
		orders:     NewWorkOrderService(orderRepo),
		production: NewProductionService(orderRepo, bomRepo, materialRepo, movementRepo, logRepo, jobs),
		boms:       NewBomService(bomRepo, materialRepo),
		reporting:  NewReportingService(orderRepo, logRepo),
		jobs:       jobs,
	}
}

func (f *fixture) createOrder(t *testing.T, productCode string, target int) *dto.WorkOrderResponse {
	t.Helper()
	wo, err := f.orders.Create(context.Background(), dto.CreateWorkOrderRequest{ProductCode: productCode, TargetQty: target})
	require.NoError(t, err)
	return wo
}

func (f *fixture) report(t *testing.T, orderID uint, machineID, result string) {
	t.Helper()
	require.NoError(t, f.production.Report(context.Background(), dto.ReportRequest{
		OrderID:   orderID,
		MachineID: machineID,
		Result:    result,
	}))
}

var errInjected = errors.New("injected failure")
