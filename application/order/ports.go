package order

import (
	"context"

	"ordercore/domain/order"
	"ordercore/domain/product"
)

// NotificationService is fire-and-forget: implementations swallow and log
// their own delivery failures.
type NotificationService interface {
	SendOrderConfirmation(ctx context.Context, o *order.Order)
	SendStockShortageAlert(ctx context.Context, p *product.Product, requiredQuantity int)
	SendLowStockNotification(ctx context.Context, p *product.Product, threshold int)
}
