// Package notification delivers customer and operator notifications.
package notification

import (
	"context"

	"ordercore/domain/order"
	"ordercore/domain/product"
	"ordercore/infrastructure/persistence"
	"ordercore/pkg/metrics"

	"go.uber.org/zap"
)

const (
	KindOrderConfirmation = "order_confirmation"
	KindStockShortage     = "stock_shortage"
	KindLowStock          = "low_stock"
)

// LoggingNotifier writes every notification to the log. It stands in for
// mail and paging integrations and never fails.
type LoggingNotifier struct {
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewLoggingNotifier accepts a nil m when metrics are disabled.
func NewLoggingNotifier(log *zap.Logger, m *metrics.Metrics) *LoggingNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingNotifier{log: log.Named("notification"), metrics: m}
}

func (n *LoggingNotifier) SendOrderConfirmation(ctx context.Context, o *order.Order) {
	n.logger(ctx).Info("order confirmation sent",
		zap.String("order_id", o.ID()),
		zap.String("customer_id", o.CustomerID()),
		zap.Int("items", o.ItemCount()),
		zap.Stringer("total", o.TotalAmount()),
		zap.String("ship_to", o.ShippingAddress().Formatted()))
	n.count(KindOrderConfirmation)
}

func (n *LoggingNotifier) SendStockShortageAlert(ctx context.Context, p *product.Product, requiredQuantity int) {
	n.logger(ctx).Warn("stock shortage",
		zap.String("product_id", p.ID()),
		zap.String("product_name", p.Name()),
		zap.Int("required", requiredQuantity),
		zap.Int("in_stock", p.StockQuantity().Value()))
	n.count(KindStockShortage)
}

func (n *LoggingNotifier) SendLowStockNotification(ctx context.Context, p *product.Product, threshold int) {
	n.logger(ctx).Warn("low stock",
		zap.String("product_id", p.ID()),
		zap.String("product_name", p.Name()),
		zap.Int("in_stock", p.StockQuantity().Value()),
		zap.Int("threshold", threshold))
	n.count(KindLowStock)
}

func (n *LoggingNotifier) logger(ctx context.Context) *zap.Logger {
	if id := persistence.RequestIDFromContext(ctx); id != "" {
		return n.log.With(zap.String("request_id", id))
	}
	return n.log
}

func (n *LoggingNotifier) count(kind string) {
	if n.metrics != nil {
		n.metrics.Notifications.WithLabelValues(kind).Inc()
	}
}
