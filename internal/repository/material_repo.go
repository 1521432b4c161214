package repository

import (
	"context"

	"shopfloor/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaterialRepository defines the data access contract for the inventory ledger.
// Services depend on this interface, not on the concrete GORM implementation.
type MaterialRepository interface {
	FindByCode(ctx context.Context, code string) (*model.Material, error)
	List(ctx context.Context) ([]model.Material, error)

	// Used inside transactions; callers pass the tx instance
	InsertIfAbsentTx(tx *gorm.DB, m *model.Material) error
	LockByCodeTx(tx *gorm.DB, code string) (*model.Material, error)
	FindByIDTx(tx *gorm.DB, id uint) (*model.Material, error)
	AddStockTx(tx *gorm.DB, id uint, delta int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type materialRepo struct{ db *gorm.DB }

func NewMaterialRepository(db *gorm.DB) MaterialRepository { return &materialRepo{db: db} }

func (r *materialRepo) FindByCode(ctx context.Context, code string) (*model.Material, error) {
	var m model.Material
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&m).Error
	return &m, err
}

func (r *materialRepo) List(ctx context.Context) ([]model.Material, error) {
	var materials []model.Material
	err := r.db.WithContext(ctx).Order("id ASC").Find(&materials).Error
	return materials, err
}

// InsertIfAbsentTx creates the material unless its code already exists.
// The first inserter's name wins.
func (r *materialRepo) InsertIfAbsentTx(tx *gorm.DB, m *model.Material) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(m).Error
}

func (r *materialRepo) LockByCodeTx(tx *gorm.DB, code string) (*model.Material, error) {
	var m model.Material
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", code).First(&m).Error
	return &m, err
}

func (r *materialRepo) FindByIDTx(tx *gorm.DB, id uint) (*model.Material, error) {
	var m model.Material
	err := tx.First(&m, id).Error
	return &m, err
}

func (r *materialRepo) AddStockTx(tx *gorm.DB, id uint, delta int) error {
	return tx.Model(&model.Material{}).Where("id = ?", id).
		Update("current_stock", gorm.Expr("current_stock + ?", delta)).Error
}

func (r *materialRepo) DB() *gorm.DB { return r.db }
