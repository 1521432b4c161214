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

// InventoryService is the inventory ledger: material receipts and stock history.
type InventoryService interface {
	Inbound(ctx context.Context, req dto.InboundRequest) (*dto.MaterialResponse, error)
	ListMaterials(ctx context.Context) ([]dto.MaterialResponse, error)
	ListMovements(ctx context.Context, filter dto.MovementFilter) ([]dto.StockMovementResponse, error)
}

type inventoryService struct {
	materials repository.MaterialRepository
	movements repository.StockMovementRepository
}

func NewInventoryService(materials repository.MaterialRepository, movements repository.StockMovementRepository) InventoryService {
	return &inventoryService{materials: materials, movements: movements}
}

// Inbound adds amount to the material's stock, creating the material on first
// receipt. Concurrent receipts of the same code serialize on the material row:
//  1. INSERT ... ON CONFLICT (code) DO NOTHING (first creator fixes the name)
//  2. SELECT ... FOR UPDATE
//  3. current_stock = current_stock + amount
//  4. record an inbound stock movement
func (s *inventoryService) Inbound(ctx context.Context, req dto.InboundRequest) (*dto.MaterialResponse, error) {
	var out *model.Material
	err := runTx(ctx, s.materials.DB(), func(tx *gorm.DB) error {
		if err := s.materials.InsertIfAbsentTx(tx, &model.Material{Code: req.Code, Name: req.Name}); err != nil {
			return fmt.Errorf("insert material %s: %w", req.Code, err)
		}
		m, err := s.materials.LockByCodeTx(tx, req.Code)
		if err != nil {
			return fmt.Errorf("lock material %s: %w", req.Code, err)
		}

		before := m.CurrentStock
		if err := s.materials.AddStockTx(tx, m.ID, req.Amount); err != nil {
			return fmt.Errorf("add stock %s: %w", req.Code, err)
		}
		m.CurrentStock = before + req.Amount

		mov := &model.StockMovement{
			MaterialID:  m.ID,
			Type:        model.MovementInbound,
			Quantity:    req.Amount,
			StockBefore: before,
			StockAfter:  m.CurrentStock,
		}
		if err := s.movements.CreateTx(tx, mov); err != nil {
			return fmt.Errorf("record inbound movement: %w", err)
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := materialToResponse(out)
	return &resp, nil
}

func (s *inventoryService) ListMaterials(ctx context.Context) ([]dto.MaterialResponse, error) {
	materials, err := s.materials.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	resp := make([]dto.MaterialResponse, 0, len(materials))
	for i := range materials {
		resp = append(resp, materialToResponse(&materials[i]))
	}
	return resp, nil
}

func (s *inventoryService) ListMovements(ctx context.Context, filter dto.MovementFilter) ([]dto.StockMovementResponse, error) {
	repoFilter := repository.StockMovementFilter{Page: filter.Page, Limit: filter.Limit}
	if filter.MaterialCode != "" {
		m, err := s.materials.FindByCode(ctx, filter.MaterialCode)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("find material %s: %w", filter.MaterialCode, err)
		}
		repoFilter.MaterialID = &m.ID
	}

	movements, _, err := s.movements.List(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	resp := make([]dto.StockMovementResponse, 0, len(movements))
	for _, mv := range movements {
		r := dto.StockMovementResponse{
			ID:          mv.ID,
			Type:        mv.Type,
			Quantity:    mv.Quantity,
			StockBefore: mv.StockBefore,
			StockAfter:  mv.StockAfter,
			Reference:   mv.Reference,
			CreatedAt:   mv.CreatedAt,
		}
		if mv.Material != nil {
			r.MaterialCode = mv.Material.Code
		}
		resp = append(resp, r)
	}
	return resp, nil
}

func materialToResponse(m *model.Material) dto.MaterialResponse {
	return dto.MaterialResponse{
		ID:           m.ID,
		Code:         m.Code,
		Name:         m.Name,
		CurrentStock: m.CurrentStock,
	}
}
