package repository

import (
	"context"

	"shopfloor/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BomRepository interface {
	List(ctx context.Context, productCode string) ([]model.Bom, error)
	Upsert(ctx context.Context, b *model.Bom) error
	FindLine(ctx context.Context, productCode string, materialID uint) (*model.Bom, error)
	ListByProductTx(tx *gorm.DB, productCode string) ([]model.Bom, error)
}

type bomRepo struct{ db *gorm.DB }

func NewBomRepository(db *gorm.DB) BomRepository { return &bomRepo{db: db} }

func (r *bomRepo) List(ctx context.Context, productCode string) ([]model.Bom, error) {
	q := r.db.WithContext(ctx).Preload("Material")
	if productCode != "" {
		q = q.Where("product_code = ?", productCode)
	}
	var rows []model.Bom
	err := q.Order("product_code ASC, id ASC").Find(&rows).Error
	return rows, err
}

// Upsert inserts the line or overwrites required_qty for an existing
// (product_code, material_id) pair.
func (r *bomRepo) Upsert(ctx context.Context, b *model.Bom) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_code"}, {Name: "material_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"required_qty", "updated_at"}),
	}).Create(b).Error
}

func (r *bomRepo) FindLine(ctx context.Context, productCode string, materialID uint) (*model.Bom, error) {
	var b model.Bom
	err := r.db.WithContext(ctx).Preload("Material").
		Where("product_code = ? AND material_id = ?", productCode, materialID).
		First(&b).Error
	return &b, err
}

func (r *bomRepo) ListByProductTx(tx *gorm.DB, productCode string) ([]model.Bom, error) {
	var rows []model.Bom
	err := tx.Where("product_code = ?", productCode).Order("id ASC").Find(&rows).Error
	return rows, err
}
