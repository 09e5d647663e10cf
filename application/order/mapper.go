package order

import (
	"ordercore/domain/discount"
	"ordercore/domain/order"
	"ordercore/domain/shared"
)

func toAddress(req AddressRequest) (shared.Address, error) {
	return shared.NewAddress(req.Street, req.City, req.State, req.ZipCode, req.Country)
}

func toMoneyResponse(m shared.Money) MoneyResponse {
	return MoneyResponse{Amount: m.Amount().StringFixed(shared.MoneyScale), Currency: m.Currency()}
}

func toAddressResponse(a shared.Address) AddressResponse {
	return AddressResponse{
		Street:  a.Street(),
		City:    a.City(),
		State:   a.State(),
		ZipCode: a.ZipCode(),
		Country: a.Country(),
	}
}

func toOrderResponse(o *order.Order) *OrderResponse {
	items := o.Items()
	itemResponses := make([]OrderItemResponse, len(items))
	for i, item := range items {
		itemResponses[i] = OrderItemResponse{
			ID:          item.ID(),
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity().Value(),
			UnitPrice:   toMoneyResponse(item.UnitPrice()),
			Subtotal:    toMoneyResponse(item.Subtotal()),
		}
	}

	return &OrderResponse{
		ID:              o.ID(),
		CustomerID:      o.CustomerID(),
		Status:          o.Status().String(),
		ReducedStatus:   string(o.Status().Reduced()),
		Items:           itemResponses,
		TotalAmount:     toMoneyResponse(o.TotalAmount()),
		ShippingAddress: toAddressResponse(o.ShippingAddress()),
		BillingAddress:  toAddressResponse(o.BillingAddress()),
		Version:         o.Version(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.LastModifiedAt(),
		PaidAt:          o.PaidAt(),
		ShippedAt:       o.ShippedAt(),
		DeliveredAt:     o.DeliveredAt(),
		CancelledAt:     o.CancelledAt(),
	}
}

func toOrderResponses(orders []*order.Order) []*OrderResponse {
	responses := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = toOrderResponse(o)
	}
	return responses
}

func toDiscountResponse(orderID string, b discount.Breakdown) *DiscountResponse {
	return &DiscountResponse{
		OrderID:  orderID,
		Volume:   toMoneyResponse(b.Volume),
		Loyalty:  toMoneyResponse(b.Loyalty),
		Seasonal: toMoneyResponse(b.Seasonal),
		Total:    toMoneyResponse(b.Total),
	}
}
