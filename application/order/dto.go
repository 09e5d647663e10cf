package order

import "time"

type AddressRequest struct {
	Street  string `json:"street" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	ZipCode string `json:"zip_code" binding:"required"`
	Country string `json:"country" binding:"required"`
}

type CreateOrderRequest struct {
	CustomerID      string         `json:"customer_id" binding:"required"`
	ShippingAddress AddressRequest `json:"shipping_address" binding:"required"`
	BillingAddress  AddressRequest `json:"billing_address" binding:"required"`
}

type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateItemQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// OrderSearchRequest combines the filters that are set. At least one is
// required.
type OrderSearchRequest struct {
	CustomerID    string    `form:"customer_id"`
	Status        string    `form:"status"`
	ProductID     string    `form:"product_id"`
	CreatedAfter  time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	CreatedBefore time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type MoneyResponse struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type AddressResponse struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

type OrderItemResponse struct {
	ID          string        `json:"id"`
	ProductID   string        `json:"product_id"`
	ProductName string        `json:"product_name"`
	Quantity    int           `json:"quantity"`
	UnitPrice   MoneyResponse `json:"unit_price"`
	Subtotal    MoneyResponse `json:"subtotal"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	CustomerID      string              `json:"customer_id"`
	Status          string              `json:"status"`
	ReducedStatus   string              `json:"reduced_status"`
	Items           []OrderItemResponse `json:"items"`
	TotalAmount     MoneyResponse       `json:"total_amount"`
	ShippingAddress AddressResponse     `json:"shipping_address"`
	BillingAddress  AddressResponse     `json:"billing_address"`
	Version         int                 `json:"version"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	ShippedAt       *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
}

// PaymentResponse reports the discount the customer qualified for. The
// discount is informational; the paid total is not reduced by it.
type PaymentResponse struct {
	Order    *OrderResponse `json:"order"`
	Discount MoneyResponse  `json:"discount"`
}

type DiscountResponse struct {
	OrderID  string        `json:"order_id"`
	Volume   MoneyResponse `json:"volume"`
	Loyalty  MoneyResponse `json:"loyalty"`
	Seasonal MoneyResponse `json:"seasonal"`
	Total    MoneyResponse `json:"total"`
}

type TaxResponse struct {
	OrderID string        `json:"order_id"`
	Rate    string        `json:"rate"`
	Tax     MoneyResponse `json:"tax"`
}
