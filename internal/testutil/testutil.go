// Package testutil provides an isolated in-memory store for package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"shopfloor/internal/infra"
	"shopfloor/internal/model"

	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// SetupTestDB opens a fresh shared-cache in-memory SQLite database with the
// full schema applied. Each call gets its own database, closed on cleanup.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := infra.NewDatabase(infra.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedMaterial inserts a material with the given stock.
func SeedMaterial(t *testing.T, db *gorm.DB, code, name string, stock int) *model.Material {
	t.Helper()
	m := &model.Material{Code: code, Name: name, CurrentStock: stock}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("seed material %s: %v", code, err)
	}
	return m
}

// SeedBom links a product to a material.
func SeedBom(t *testing.T, db *gorm.DB, productCode string, m *model.Material, qty int) *model.Bom {
	t.Helper()
	b := &model.Bom{ProductCode: productCode, MaterialID: m.ID, RequiredQty: qty}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("seed bom %s/%s: %v", productCode, m.Code, err)
	}
	return b
}

// ReloadMaterial re-reads a material from the store.
func ReloadMaterial(t *testing.T, db *gorm.DB, id uint) *model.Material {
	t.Helper()
	var m model.Material
	if err := db.First(&m, id).Error; err != nil {
		t.Fatalf("reload material %d: %v", id, err)
	}
	return &m
}

// ReloadOrder re-reads a work order from the store.
func ReloadOrder(t *testing.T, db *gorm.DB, id uint) *model.WorkOrder {
	t.Helper()
	var wo model.WorkOrder
	if err := db.First(&wo, id).Error; err != nil {
		t.Fatalf("reload order %d: %v", id, err)
	}
	return &wo
}
