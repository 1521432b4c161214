package service

import (
	"context"
	"errors"
	"fmt"

	"shopfloor/internal/dto"
	"shopfloor/internal/model"
	"shopfloor/internal/repository"

	"gorm.io/gorm"
)

type WorkOrderService interface {
	Create(ctx context.Context, req dto.CreateWorkOrderRequest) (*dto.WorkOrderResponse, error)
	List(ctx context.Context) ([]dto.WorkOrderResponse, error)
	Get(ctx context.Context, id uint) (*dto.WorkOrderResponse, error)
}

type workOrderService struct {
	orders repository.WorkOrderRepository
}

func NewWorkOrderService(orders repository.WorkOrderRepository) WorkOrderService {
	return &workOrderService{orders: orders}
}

// Create queues a new order. TargetQty is taken as given.
func (s *workOrderService) Create(ctx context.Context, req dto.CreateWorkOrderRequest) (*dto.WorkOrderResponse, error) {
	wo := &model.WorkOrder{
		ProductCode: req.ProductCode,
		TargetQty:   req.TargetQty,
		CurrentQty:  0,
		Status:      model.WOStatusWaiting,
	}
	if err := s.orders.Create(ctx, wo); err != nil {
		return nil, fmt.Errorf("create work order: %w", err)
	}
	resp := workOrderToResponse(wo)
	return &resp, nil
}

func (s *workOrderService) List(ctx context.Context) ([]dto.WorkOrderResponse, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	resp := make([]dto.WorkOrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, workOrderToResponse(&orders[i]))
	}
	return resp, nil
}

func (s *workOrderService) Get(ctx context.Context, id uint) (*dto.WorkOrderResponse, error) {
	wo, err := findOrder(ctx, s.orders, id)
	if err != nil {
		return nil, err
	}
	resp := workOrderToResponse(wo)
	return &resp, nil
}

func findOrder(ctx context.Context, orders repository.WorkOrderRepository, id uint) (*model.WorkOrder, error) {
	wo, err := orders.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find work order %d: %w", id, err)
	}
	return wo, nil
}

func workOrderToResponse(wo *model.WorkOrder) dto.WorkOrderResponse {
	return dto.WorkOrderResponse{
		ID:                wo.ID,
		ProductCode:       wo.ProductCode,
		TargetQty:         wo.TargetQty,
		CurrentQty:        wo.CurrentQty,
		Status:            wo.Status,
		AssignedMachineID: wo.AssignedMachineID,
	}
}
