package repository

import (
	"context"

	"shopfloor/internal/model"

	"gorm.io/gorm"
)

// ProductionLogFilter defines filters for listing production logs.
type ProductionLogFilter struct {
	WorkOrderID uint
	Result      string
	Page        int
	Limit       int
}

// ResultCounts is the OK/NG tally for one work order.
type ResultCounts struct {
	OK int64
	NG int64
}

// ProductionLogRepository is append-only: there is no Update or Delete.
type ProductionLogRepository interface {
	CreateTx(tx *gorm.DB, l *model.ProductionLog) error
	List(ctx context.Context, filter ProductionLogFilter) ([]model.ProductionLog, int64, error)
	ListByOrder(ctx context.Context, workOrderID uint) ([]model.ProductionLog, error)
	// EachBatch walks the log in id order, size rows at a time. workOrderID 0
	// walks every order.
	EachBatch(ctx context.Context, workOrderID uint, size int, fn func([]model.ProductionLog) error) error
	CountByResult(ctx context.Context, workOrderID uint) (ResultCounts, error)
}

type productionLogRepo struct{ db *gorm.DB }

func NewProductionLogRepository(db *gorm.DB) ProductionLogRepository {
	return &productionLogRepo{db: db}
}

func (r *productionLogRepo) CreateTx(tx *gorm.DB, l *model.ProductionLog) error {
	return tx.Create(l).Error
}

func (r *productionLogRepo) List(ctx context.Context, filter ProductionLogFilter) ([]model.ProductionLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.ProductionLog{})
	if filter.WorkOrderID != 0 {
		q = q.Where("work_order_id = ?", filter.WorkOrderID)
	}
	if filter.Result != "" {
		q = q.Where("result = ?", filter.Result)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)

	var logs []model.ProductionLog
	err := q.Order("id DESC").Offset((page - 1) * limit).Limit(limit).Find(&logs).Error
	return logs, total, err
}

func (r *productionLogRepo) ListByOrder(ctx context.Context, workOrderID uint) ([]model.ProductionLog, error) {
	var logs []model.ProductionLog
	err := r.db.WithContext(ctx).Where("work_order_id = ?", workOrderID).
		Order("id ASC").Find(&logs).Error
	return logs, err
}

func (r *productionLogRepo) EachBatch(ctx context.Context, workOrderID uint, size int, fn func([]model.ProductionLog) error) error {
	q := r.db.WithContext(ctx).Model(&model.ProductionLog{})
	if workOrderID != 0 {
		q = q.Where("work_order_id = ?", workOrderID)
	}
	var batch []model.ProductionLog
	return q.FindInBatches(&batch, size, func(_ *gorm.DB, _ int) error {
		return fn(batch)
	}).Error
}

func (r *productionLogRepo) CountByResult(ctx context.Context, workOrderID uint) (ResultCounts, error) {
	var rows []struct {
		Result string
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&model.ProductionLog{}).
		Select("result, COUNT(*) AS total").
		Where("work_order_id = ?", workOrderID).
		Group("result").Scan(&rows).Error
	if err != nil {
		return ResultCounts{}, err
	}
	var counts ResultCounts
	for _, row := range rows {
		switch row.Result {
		case model.ResultOK:
			counts.OK = row.Total
		case model.ResultNG:
			counts.NG = row.Total
		}
	}
	return counts, nil
}
