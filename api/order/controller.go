/*
Package order exposes the order use cases over HTTP.

Binding failures are answered directly with 400 through
response.HandleError. Everything returned by the application service goes
through response.HandleAppError, which picks the status from the error
code.
*/
package order

import (
	"context"
	"net/http"
	"time"

	"ordercore/api/ctxutil"
	"ordercore/api/response"
	orderapp "ordercore/application/order"

	"github.com/gin-gonic/gin"
)

const defaultExpiry = 24 * time.Hour

type Controller struct {
	orderService *orderapp.ApplicationService
}

func NewController(orderService *orderapp.ApplicationService) *Controller {
	return &Controller{orderService: orderService}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	orderGroup := router.Group("/orders")
	{
		orderGroup.POST("", c.CreateOrder)
		orderGroup.GET("", c.ListOrders)
		orderGroup.POST("/expire", c.CancelExpiredOrders)
		orderGroup.GET("/:id", c.GetOrder)
		orderGroup.DELETE("/:id", c.DeleteOrder)

		orderGroup.POST("/:id/items", c.AddItem)
		orderGroup.PUT("/:id/items/:itemId", c.UpdateItemQuantity)
		orderGroup.DELETE("/:id/items/:itemId", c.RemoveItem)
		orderGroup.PUT("/:id/shipping-address", c.UpdateShippingAddress)
		orderGroup.PUT("/:id/billing-address", c.UpdateBillingAddress)

		orderGroup.POST("/:id/submit", c.transition(c.orderService.SubmitOrderForPayment, "order submitted for payment"))
		orderGroup.POST("/:id/place", c.transition(c.orderService.PlaceOrder, "order placed"))
		orderGroup.POST("/:id/pay", c.PayOrder)
		orderGroup.POST("/:id/cancel", c.CancelOrder)
		orderGroup.POST("/:id/process", c.transition(c.orderService.StartProcessing, "order processing started"))
		orderGroup.POST("/:id/ship", c.transition(c.orderService.ShipOrder, "order shipped"))
		orderGroup.POST("/:id/deliver", c.transition(c.orderService.DeliverOrder, "order delivered"))
		orderGroup.POST("/:id/return", c.transition(c.orderService.ReturnOrder, "order returned"))

		orderGroup.GET("/:id/discount", c.QuoteDiscount)
		orderGroup.GET("/:id/tax", c.QuoteTax)
	}
}

// CreateOrder POST /api/v1/orders
func (c *Controller) CreateOrder(ctx *gin.Context) {
	var req orderapp.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	o, err := c.orderService.CreateOrder(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, o, "order created successfully")
}

// GetOrder GET /api/v1/orders/:id
func (c *Controller) GetOrder(ctx *gin.Context) {
	o, err := c.orderService.GetOrder(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, o, "order retrieved successfully")
}

// ListOrders GET /api/v1/orders?customer_id=&status=&product_id=&from=&to=
func (c *Controller) ListOrders(ctx *gin.Context) {
	var req orderapp.OrderSearchRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.HandleError(ctx, err, "invalid query parameters", http.StatusBadRequest)
		return
	}

	orders, err := c.orderService.SearchOrders(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleList(ctx, orders, len(orders), "orders retrieved successfully")
}

// DeleteOrder DELETE /api/v1/orders/:id
func (c *Controller) DeleteOrder(ctx *gin.Context) {
	if err := c.orderService.DeleteOrder(ctxutil.WithRequestID(ctx), ctx.Param("id")); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleNoContent(ctx)
}

// AddItem POST /api/v1/orders/:id/items
func (c *Controller) AddItem(ctx *gin.Context) {
	var req orderapp.AddItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	o, err := c.orderService.AddOrderItem(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, o, "item added")
}

// UpdateItemQuantity PUT /api/v1/orders/:id/items/:itemId
func (c *Controller) UpdateItemQuantity(ctx *gin.Context) {
	var req orderapp.UpdateItemQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	o, err := c.orderService.UpdateOrderItemQuantity(ctxutil.WithRequestID(ctx), ctx.Param("id"), ctx.Param("itemId"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, o, "item quantity updated")
}

// RemoveItem DELETE /api/v1/orders/:id/items/:itemId
func (c *Controller) RemoveItem(ctx *gin.Context) {
	o, err := c.orderService.RemoveOrderItem(ctxutil.WithRequestID(ctx), ctx.Param("id"), ctx.Param("itemId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, o, "item removed")
}

func (c *Controller) UpdateShippingAddress(ctx *gin.Context) {
	c.updateAddress(ctx, c.orderService.UpdateShippingAddress, "shipping address updated")
}

func (c *Controller) UpdateBillingAddress(ctx *gin.Context) {
	c.updateAddress(ctx, c.orderService.UpdateBillingAddress, "billing address updated")
}

func (c *Controller) updateAddress(ctx *gin.Context,
	update func(context.Context, string, orderapp.AddressRequest) (*orderapp.OrderResponse, error), message string) {
	var req orderapp.AddressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	o, err := update(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, o, message)
}

// transition adapts the body-less status changes.
func (c *Controller) transition(fn func(context.Context, string) (*orderapp.OrderResponse, error), message string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		o, err := fn(ctxutil.WithRequestID(ctx), ctx.Param("id"))
		if err != nil {
			response.HandleAppError(ctx, err)
			return
		}
		response.HandleSuccess(ctx, o, message)
	}
}

// PayOrder POST /api/v1/orders/:id/pay
func (c *Controller) PayOrder(ctx *gin.Context) {
	payment, err := c.orderService.PayOrder(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, payment, "order paid")
}

// CancelOrder POST /api/v1/orders/:id/cancel. The body is optional.
func (c *Controller) CancelOrder(ctx *gin.Context) {
	var req orderapp.CancelOrderRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
			return
		}
	}

	o, err := c.orderService.CancelOrder(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, o, "order cancelled")
}

// CancelExpiredOrders POST /api/v1/orders/expire?max_age=24h
func (c *Controller) CancelExpiredOrders(ctx *gin.Context) {
	maxAge := defaultExpiry
	if raw := ctx.Query("max_age"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			response.HandleError(ctx, err, "max_age must be a non-negative duration", http.StatusBadRequest)
			return
		}
		maxAge = d
	}

	ids, err := c.orderService.CancelExpiredOrders(ctxutil.WithRequestID(ctx), maxAge)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleList(ctx, ids, len(ids), "expired orders cancelled")
}

// QuoteDiscount GET /api/v1/orders/:id/discount
func (c *Controller) QuoteDiscount(ctx *gin.Context) {
	quote, err := c.orderService.QuoteDiscount(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, quote, "discount calculated")
}

// QuoteTax GET /api/v1/orders/:id/tax?rate=0.10
func (c *Controller) QuoteTax(ctx *gin.Context) {
	rate := ctx.Query("rate")
	if rate == "" {
		response.HandleError(ctx, nil, "rate is required", http.StatusBadRequest)
		return
	}

	quote, err := c.orderService.QuoteTax(ctxutil.WithRequestID(ctx), ctx.Param("id"), rate)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, quote, "tax calculated")
}
