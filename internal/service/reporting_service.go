package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"shopfloor/internal/dto"
	"shopfloor/internal/infra"
	"shopfloor/internal/model"
	"shopfloor/internal/repository"

	"github.com/shopspring/decimal"
)

// ReportingService reads the production log back out: listings, per-order
// summaries and printable exports.
type ReportingService interface {
	ListLogs(ctx context.Context, filter dto.ProductionLogFilter) (*dto.ProductionLogListResponse, error)
	Summary(ctx context.Context, orderID uint) (*dto.OrderSummaryResponse, error)
	ExportLogs(ctx context.Context, orderID uint, w io.Writer) error
	Traveler(ctx context.Context, orderID uint, w io.Writer) error
	TravelerData(ctx context.Context, orderID uint) (*infra.TravelerData, error)
}

const exportBatchSize = 500

type reportingService struct {
	orders repository.WorkOrderRepository
	logs   repository.ProductionLogRepository
}

func NewReportingService(orders repository.WorkOrderRepository, logs repository.ProductionLogRepository) ReportingService {
	return &reportingService{orders: orders, logs: logs}
}

func (s *reportingService) ListLogs(ctx context.Context, filter dto.ProductionLogFilter) (*dto.ProductionLogListResponse, error) {
	rows, total, err := s.logs.List(ctx, repository.ProductionLogFilter{
		WorkOrderID: filter.OrderID,
		Result:      filter.Result,
		Page:        filter.Page,
		Limit:       filter.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list production logs: %w", err)
	}
	data := make([]dto.ProductionLogResponse, 0, len(rows))
	for i := range rows {
		data = append(data, productionLogToResponse(&rows[i]))
	}
	return &dto.ProductionLogListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *reportingService) Summary(ctx context.Context, orderID uint) (*dto.OrderSummaryResponse, error) {
	wo, err := findOrder(ctx, s.orders, orderID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, wo)
}

func (s *reportingService) summarize(ctx context.Context, wo *model.WorkOrder) (*dto.OrderSummaryResponse, error) {
	counts, err := s.logs.CountByResult(ctx, wo.ID)
	if err != nil {
		return nil, fmt.Errorf("count results for order %d: %w", wo.ID, err)
	}
	return &dto.OrderSummaryResponse{
		OrderID:     wo.ID,
		WorkOrderNo: wo.Number(),
		ProductCode: wo.ProductCode,
		TargetQty:   wo.TargetQty,
		CurrentQty:  wo.CurrentQty,
		Status:      wo.Status,
		OKCount:     counts.OK,
		NGCount:     counts.NG,
		YieldPct:    yieldPct(counts),
	}, nil
}

// yieldPct is OK / (OK + NG) as a percentage rounded to 2 places; 0 when
// nothing has been reported.
func yieldPct(c repository.ResultCounts) decimal.Decimal {
	total := c.OK + c.NG
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(c.OK).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(2)
}

// ExportLogs writes the production log as an .xlsx workbook. orderID 0 exports
// every order. Rows are read and written in batches.
func (s *reportingService) ExportLogs(ctx context.Context, orderID uint, w io.Writer) error {
	if orderID != 0 {
		if _, err := findOrder(ctx, s.orders, orderID); err != nil {
			return err
		}
	}

	book, err := infra.NewProductionLogWorkbook()
	if err != nil {
		return err
	}
	defer func() { _ = book.Close() }()

	if err := s.logs.EachBatch(ctx, orderID, exportBatchSize, book.Append); err != nil {
		return fmt.Errorf("export production logs: %w", err)
	}
	_, err = book.WriteTo(w)
	return err
}

func (s *reportingService) Traveler(ctx context.Context, orderID uint, w io.Writer) error {
	data, err := s.TravelerData(ctx, orderID)
	if err != nil {
		return err
	}
	return infra.WriteTravelerPDF(w, *data)
}

// TravelerData gathers the order header, summary and unit list for printing.
func (s *reportingService) TravelerData(ctx context.Context, orderID uint) (*infra.TravelerData, error) {
	wo, err := findOrder(ctx, s.orders, orderID)
	if err != nil {
		return nil, err
	}
	summary, err := s.summarize(ctx, wo)
	if err != nil {
		return nil, err
	}
	rows, err := s.logs.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load units for order %d: %w", orderID, err)
	}

	data := &infra.TravelerData{
		WorkOrderNo: summary.WorkOrderNo,
		ProductCode: summary.ProductCode,
		Status:      summary.Status,
		TargetQty:   summary.TargetQty,
		CurrentQty:  summary.CurrentQty,
		OKCount:     summary.OKCount,
		NGCount:     summary.NGCount,
		YieldPct:    summary.YieldPct,
		GeneratedAt: time.Now(),
		Units:       make([]infra.TravelerUnit, 0, len(rows)),
	}
	if wo.AssignedMachineID != nil {
		data.MachineID = *wo.AssignedMachineID
	}
	for _, l := range rows {
		u := infra.TravelerUnit{
			SerialNo:   l.SerialNo,
			Result:     l.Result,
			MachineID:  l.MachineID,
			ProducedAt: l.ProducedAt,
		}
		if l.DefectCode != nil {
			u.DefectCode = *l.DefectCode
		}
		data.Units = append(data.Units, u)
	}
	return data, nil
}

func productionLogToResponse(l *model.ProductionLog) dto.ProductionLogResponse {
	return dto.ProductionLogResponse{
		ID:          l.ID,
		WorkOrderNo: l.WorkOrderNo,
		ProductCode: l.ProductCode,
		MachineID:   l.MachineID,
		SerialNo:    l.SerialNo,
		Result:      l.Result,
		DefectCode:  l.DefectCode,
		ProducedAt:  l.ProducedAt,
	}
}
