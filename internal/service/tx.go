package service

import (
	"context"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction bound to ctx. A cancelled
// request context rolls the transaction back.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}
