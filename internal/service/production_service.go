package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopfloor/internal/dto"
	"shopfloor/internal/model"
	"shopfloor/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	maxClaimAttempts  = 5
	maxSerialAttempts = 5
	serialTokenLen    = 8
)

// JobEnqueuer schedules follow-up work once an order completes. Implemented by
// worker.Dispatcher; nil disables background jobs.
type JobEnqueuer interface {
	EnqueueOrderCompleted(ctx context.Context, orderID uint) error
}

// ProductionService is the production coordinator driven by machine polls and
// unit reports.
type ProductionService interface {
	// AssignWork returns the machine's current order, or claims the oldest
	// waiting one. It returns nil, nil when there is no work.
	AssignWork(ctx context.Context, machineID string) (*dto.WorkOrderResponse, error)
	Report(ctx context.Context, req dto.ReportRequest) error
}

type productionService struct {
	db        *gorm.DB
	orders    repository.WorkOrderRepository
	boms      repository.BomRepository
	materials repository.MaterialRepository
	movements repository.StockMovementRepository
	logs      repository.ProductionLogRepository
	jobs      JobEnqueuer
	newToken  func() string
}

func NewProductionService(
	orders repository.WorkOrderRepository,
	boms repository.BomRepository,
	materials repository.MaterialRepository,
	movements repository.StockMovementRepository,
	logs repository.ProductionLogRepository,
	jobs JobEnqueuer,
) ProductionService {
	return &productionService{
		db:        orders.DB(),
		orders:    orders,
		boms:      boms,
		materials: materials,
		movements: movements,
		logs:      logs,
		jobs:      jobs,
		newToken:  randomToken,
	}
}

// randomToken returns 8 uppercase hex characters from a v4 UUID.
func randomToken() string {
	return strings.ToUpper(uuid.NewString()[:serialTokenLen])
}

// ── AssignWork ──────────────────────────────────────────────────────────────
//  1. Machine already holds an IN_PROGRESS order → return it unchanged
//  2. Oldest WAITING order (SKIP LOCKED) → conditional claim
//  3. Claim lost to another poller → try the next WAITING order
//  4. Unique index hit → the same machine won concurrently; return that order

func (s *productionService) AssignWork(ctx context.Context, machineID string) (*dto.WorkOrderResponse, error) {
	var assigned *model.WorkOrder
	claimed := false

	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		current, err := s.orders.FindInProgressForMachineTx(tx, machineID)
		if err != nil {
			return fmt.Errorf("find active order for %s: %w", machineID, err)
		}
		if current != nil {
			assigned = current
			return nil
		}

		for attempt := 0; attempt < maxClaimAttempts; attempt++ {
			next, err := s.orders.FindOldestWaitingTx(tx)
			if err != nil {
				return fmt.Errorf("find waiting order: %w", err)
			}
			if next == nil {
				return nil
			}

			var ok bool
			err = tx.Transaction(func(sp *gorm.DB) error {
				var claimErr error
				ok, claimErr = s.orders.AssignTx(sp, next.ID, machineID)
				return claimErr
			})
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				winner, findErr := s.orders.FindInProgressForMachineTx(tx, machineID)
				if findErr != nil {
					return fmt.Errorf("find active order for %s: %w", machineID, findErr)
				}
				assigned = winner
				return nil
			}
			if err != nil {
				return fmt.Errorf("claim order %d: %w", next.ID, err)
			}
			if ok {
				next.Status = model.WOStatusInProgress
				next.AssignedMachineID = &machineID
				assigned = next
				claimed = true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if assigned == nil {
		return nil, nil
	}

	if claimed {
		log.Info().
			Uint("order_id", assigned.ID).
			Str("product_code", assigned.ProductCode).
			Str("machine_id", machineID).
			Msg("work order assigned")
	}
	resp := workOrderToResponse(assigned)
	return &resp, nil
}

// ── Report ──────────────────────────────────────────────────────────────────
// One transaction per reported unit:
//  1. Lock the order; unknown id → ErrOrderNotFound
//  2. COMPLETED → absorbed, nothing written
//  3. Append the production log with a fresh serial
//  4. OK → backflush every BOM line of the product
//  5. currentQty++, COMPLETED once it reaches targetQty
//  6. (after commit) announce completion

func (s *productionService) Report(ctx context.Context, req dto.ReportRequest) error {
	var completed *model.WorkOrder

	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		wo, err := s.orders.LockByIDTx(tx, req.OrderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("lock order %d: %w", req.OrderID, err)
		}
		if wo.Status == model.WOStatusCompleted {
			return nil
		}

		entry := &model.ProductionLog{
			WorkOrderID: wo.ID,
			WorkOrderNo: wo.Number(),
			ProductCode: wo.ProductCode,
			MachineID:   req.MachineID,
			Result:      req.Result,
			ProducedAt:  time.Now(),
		}
		if req.Result == model.ResultNG && req.DefectCode != "" {
			code := req.DefectCode
			entry.DefectCode = &code
		}
		if err := s.appendLog(tx, entry); err != nil {
			return err
		}

		if req.Result == model.ResultOK {
			if err := s.backflush(tx, wo.ProductCode, entry.SerialNo); err != nil {
				return err
			}
		}

		wo.CurrentQty++
		if wo.CurrentQty >= wo.TargetQty {
			wo.Status = model.WOStatusCompleted
			completed = wo
		}
		if err := s.orders.UpdateProgressTx(tx, wo); err != nil {
			return fmt.Errorf("update order %d progress: %w", wo.ID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if completed != nil {
		s.announceCompletion(ctx, completed)
	}
	return nil
}

// appendLog inserts entry under a new serial, retrying inside a savepoint when
// the serial collides with an existing one.
func (s *productionService) appendLog(tx *gorm.DB, entry *model.ProductionLog) error {
	var err error
	for attempt := 0; attempt < maxSerialAttempts; attempt++ {
		entry.ID = 0
		entry.SerialNo = entry.ProductCode + "-" + s.newToken()
		err = tx.Transaction(func(sp *gorm.DB) error {
			return s.logs.CreateTx(sp, entry)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		log.Debug().Str("serial_no", entry.SerialNo).Msg("serial collision, regenerating")
	}
	return fmt.Errorf("append production log: %w", err)
}

// backflush consumes the product's BOM from stock. Stock may go negative.
func (s *productionService) backflush(tx *gorm.DB, productCode, serialNo string) error {
	lines, err := s.boms.ListByProductTx(tx, productCode)
	if err != nil {
		return fmt.Errorf("load bom %s: %w", productCode, err)
	}
	for _, line := range lines {
		if err := s.materials.AddStockTx(tx, line.MaterialID, -line.RequiredQty); err != nil {
			return fmt.Errorf("backflush material %d: %w", line.MaterialID, err)
		}
		m, err := s.materials.FindByIDTx(tx, line.MaterialID)
		if err != nil {
			return fmt.Errorf("reload material %d: %w", line.MaterialID, err)
		}
		ref := serialNo
		mov := &model.StockMovement{
			MaterialID:  line.MaterialID,
			Type:        model.MovementBackflush,
			Quantity:    -line.RequiredQty,
			StockBefore: m.CurrentStock + line.RequiredQty,
			StockAfter:  m.CurrentStock,
			Reference:   &ref,
		}
		if err := s.movements.CreateTx(tx, mov); err != nil {
			return fmt.Errorf("record backflush movement: %w", err)
		}
	}
	return nil
}

func (s *productionService) announceCompletion(ctx context.Context, wo *model.WorkOrder) {
	log.Info().
		Uint("order_id", wo.ID).
		Str("work_order_no", wo.Number()).
		Str("product_code", wo.ProductCode).
		Int("qty", wo.CurrentQty).
		Msg("work order completed")

	if s.jobs == nil {
		return
	}
	if err := s.jobs.EnqueueOrderCompleted(ctx, wo.ID); err != nil {
		log.Warn().Err(err).Uint("order_id", wo.ID).Msg("enqueue order_completed job failed")
	}
}
