package mysql

import (
	"context"

	"ordercore/infrastructure/persistence"

	"gorm.io/gorm"
)

// conn returns the unit of work transaction carried by ctx, or db.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

// atomically runs fn in the transaction carried by ctx, opening one when
// Save is called outside a unit of work.
func atomically(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return fn(tx)
	}
	return db.WithContext(ctx).Transaction(fn)
}
