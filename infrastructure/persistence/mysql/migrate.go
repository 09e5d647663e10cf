package mysql

import (
	"fmt"

	"ordercore/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// Models lists every table the service owns.
func Models() []any {
	return []any{
		&po.OrderPO{},
		&po.OrderItemPO{},
		&po.ProductPO{},
		&po.CustomerPO{},
		&po.OutboxEventPO{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
