// Package customer exposes customer registration over HTTP.
package customer

import (
	"net/http"

	"ordercore/api/ctxutil"
	"ordercore/api/response"
	customerapp "ordercore/application/customer"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	customerService *customerapp.ApplicationService
}

func NewController(customerService *customerapp.ApplicationService) *Controller {
	return &Controller{customerService: customerService}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	customerGroup := router.Group("/customers")
	{
		customerGroup.POST("", c.RegisterCustomer)
		customerGroup.GET("/:id", c.GetCustomer)
		customerGroup.POST("/:id/activate", c.ActivateCustomer)
		customerGroup.POST("/:id/deactivate", c.DeactivateCustomer)
	}
}

// RegisterCustomer POST /api/v1/customers
func (c *Controller) RegisterCustomer(ctx *gin.Context) {
	var req customerapp.RegisterCustomerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	cust, err := c.customerService.RegisterCustomer(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, cust, "customer registered successfully")
}

// GetCustomer GET /api/v1/customers/:id
func (c *Controller) GetCustomer(ctx *gin.Context) {
	cust, err := c.customerService.GetCustomer(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, cust, "customer retrieved successfully")
}

func (c *Controller) ActivateCustomer(ctx *gin.Context) {
	cust, err := c.customerService.ActivateCustomer(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, cust, "customer activated")
}

func (c *Controller) DeactivateCustomer(ctx *gin.Context) {
	cust, err := c.customerService.DeactivateCustomer(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, cust, "customer deactivated")
}
