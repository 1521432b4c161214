package repository

import (
	"context"

	"shopfloor/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WorkOrderRepository is the work order store. Lookups that may legitimately
// find nothing (oldest waiting, machine's active job) return nil, nil.
type WorkOrderRepository interface {
	Create(ctx context.Context, wo *model.WorkOrder) error
	FindByID(ctx context.Context, id uint) (*model.WorkOrder, error)
	List(ctx context.Context) ([]model.WorkOrder, error)
	FindOldestWaiting(ctx context.Context) (*model.WorkOrder, error)
	FindInProgressForMachine(ctx context.Context, machineID string) (*model.WorkOrder, error)

	// Used inside transactions; callers pass the tx instance
	FindOldestWaitingTx(tx *gorm.DB) (*model.WorkOrder, error)
	FindInProgressForMachineTx(tx *gorm.DB, machineID string) (*model.WorkOrder, error)
	LockByIDTx(tx *gorm.DB, id uint) (*model.WorkOrder, error)
	// AssignTx moves a WAITING order to IN_PROGRESS for machineID. It reports
	// false when the order was no longer WAITING.
	AssignTx(tx *gorm.DB, id uint, machineID string) (bool, error)
	UpdateProgressTx(tx *gorm.DB, wo *model.WorkOrder) error

	DB() *gorm.DB
}

type workOrderRepo struct{ db *gorm.DB }

func NewWorkOrderRepository(db *gorm.DB) WorkOrderRepository { return &workOrderRepo{db: db} }

func (r *workOrderRepo) Create(ctx context.Context, wo *model.WorkOrder) error {
	return r.db.WithContext(ctx).Create(wo).Error
}

func (r *workOrderRepo) FindByID(ctx context.Context, id uint) (*model.WorkOrder, error) {
	var wo model.WorkOrder
	err := r.db.WithContext(ctx).First(&wo, id).Error
	return &wo, err
}

func (r *workOrderRepo) List(ctx context.Context) ([]model.WorkOrder, error) {
	var orders []model.WorkOrder
	err := r.db.WithContext(ctx).Order("id DESC").Find(&orders).Error
	return orders, err
}

func (r *workOrderRepo) FindOldestWaiting(ctx context.Context) (*model.WorkOrder, error) {
	return r.FindOldestWaitingTx(r.db.WithContext(ctx))
}

func (r *workOrderRepo) FindInProgressForMachine(ctx context.Context, machineID string) (*model.WorkOrder, error) {
	return r.FindInProgressForMachineTx(r.db.WithContext(ctx), machineID)
}

// FindOldestWaitingTx skips rows another poller has already locked, so two
// concurrent polls inspect different orders instead of queueing on the same one.
func (r *workOrderRepo) FindOldestWaitingTx(tx *gorm.DB) (*model.WorkOrder, error) {
	var orders []model.WorkOrder
	err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ?", model.WOStatusWaiting).
		Order("id ASC").Limit(1).Find(&orders).Error
	if err != nil || len(orders) == 0 {
		return nil, err
	}
	return &orders[0], nil
}

func (r *workOrderRepo) FindInProgressForMachineTx(tx *gorm.DB, machineID string) (*model.WorkOrder, error) {
	var orders []model.WorkOrder
	err := tx.Where("status = ? AND assigned_machine_id = ?", model.WOStatusInProgress, machineID).
		Order("id ASC").Limit(1).Find(&orders).Error
	if err != nil || len(orders) == 0 {
		return nil, err
	}
	return &orders[0], nil
}

func (r *workOrderRepo) LockByIDTx(tx *gorm.DB, id uint) (*model.WorkOrder, error) {
	var wo model.WorkOrder
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&wo, id).Error
	return &wo, err
}

func (r *workOrderRepo) AssignTx(tx *gorm.DB, id uint, machineID string) (bool, error) {
	res := tx.Model(&model.WorkOrder{}).
		Where("id = ? AND status = ?", id, model.WOStatusWaiting).
		Updates(map[string]interface{}{
			"status":              model.WOStatusInProgress,
			"assigned_machine_id": machineID,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *workOrderRepo) UpdateProgressTx(tx *gorm.DB, wo *model.WorkOrder) error {
	return tx.Model(&model.WorkOrder{}).Where("id = ?", wo.ID).Updates(map[string]interface{}{
		"current_qty": wo.CurrentQty,
		"status":      wo.Status,
	}).Error
}

func (r *workOrderRepo) DB() *gorm.DB { return r.db }
