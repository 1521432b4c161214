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

// BomService maintains the bill of materials consumed by backflush.
type BomService interface {
	Upsert(ctx context.Context, req dto.UpsertBomRequest) (*dto.BomResponse, error)
	List(ctx context.Context, productCode string) ([]dto.BomResponse, error)
}

type bomService struct {
	boms      repository.BomRepository
	materials repository.MaterialRepository
}

func NewBomService(boms repository.BomRepository, materials repository.MaterialRepository) BomService {
	return &bomService{boms: boms, materials: materials}
}

func (s *bomService) Upsert(ctx context.Context, req dto.UpsertBomRequest) (*dto.BomResponse, error) {
	m, err := s.materials.FindByCode(ctx, req.MaterialCode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMaterialNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find material %s: %w", req.MaterialCode, err)
	}

	line := &model.Bom{ProductCode: req.ProductCode, MaterialID: m.ID, RequiredQty: req.RequiredQty}
	if err := s.boms.Upsert(ctx, line); err != nil {
		return nil, fmt.Errorf("upsert bom %s/%s: %w", req.ProductCode, req.MaterialCode, err)
	}

	saved, err := s.boms.FindLine(ctx, req.ProductCode, m.ID)
	if err != nil {
		return nil, fmt.Errorf("reload bom %s/%s: %w", req.ProductCode, req.MaterialCode, err)
	}
	resp := bomToResponse(saved)
	return &resp, nil
}

func (s *bomService) List(ctx context.Context, productCode string) ([]dto.BomResponse, error) {
	lines, err := s.boms.List(ctx, productCode)
	if err != nil {
		return nil, fmt.Errorf("list bom: %w", err)
	}
	resp := make([]dto.BomResponse, 0, len(lines))
	for i := range lines {
		resp = append(resp, bomToResponse(&lines[i]))
	}
	return resp, nil
}

func bomToResponse(b *model.Bom) dto.BomResponse {
	r := dto.BomResponse{
		ID:          b.ID,
		ProductCode: b.ProductCode,
		RequiredQty: b.RequiredQty,
	}
	if b.Material != nil {
		r.MaterialCode = b.Material.Code
		r.MaterialName = b.Material.Name
	}
	return r
}
