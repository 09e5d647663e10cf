// Package product exposes catalogue and stock management over HTTP.
package product

import (
	"net/http"

	"ordercore/api/ctxutil"
	"ordercore/api/response"
	productapp "ordercore/application/product"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	productService *productapp.ApplicationService
}

func NewController(productService *productapp.ApplicationService) *Controller {
	return &Controller{productService: productService}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	productGroup := router.Group("/products")
	{
		productGroup.POST("", c.CreateProduct)
		productGroup.GET("", c.ListProducts)
		productGroup.GET("/:id", c.GetProduct)
		productGroup.POST("/:id/restock", c.RestockProduct)
		productGroup.PUT("/:id/price", c.UpdatePrice)
		productGroup.POST("/:id/activate", c.ActivateProduct)
		productGroup.POST("/:id/deactivate", c.DeactivateProduct)
	}
}

// CreateProduct POST /api/v1/products
func (c *Controller) CreateProduct(ctx *gin.Context) {
	var req productapp.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	p, err := c.productService.CreateProduct(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, p, "product created successfully")
}

// GetProduct GET /api/v1/products/:id
func (c *Controller) GetProduct(ctx *gin.Context) {
	p, err := c.productService.GetProduct(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, p, "product retrieved successfully")
}

// ListProducts GET /api/v1/products
func (c *Controller) ListProducts(ctx *gin.Context) {
	products, err := c.productService.ListProducts(ctxutil.WithRequestID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleList(ctx, products, len(products), "products retrieved successfully")
}

// RestockProduct POST /api/v1/products/:id/restock
func (c *Controller) RestockProduct(ctx *gin.Context) {
	var req productapp.RestockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	p, err := c.productService.RestockProduct(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, p, "product restocked")
}

// UpdatePrice PUT /api/v1/products/:id/price
func (c *Controller) UpdatePrice(ctx *gin.Context) {
	var req productapp.UpdatePriceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	p, err := c.productService.UpdatePrice(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, p, "price updated")
}

func (c *Controller) ActivateProduct(ctx *gin.Context) {
	p, err := c.productService.ActivateProduct(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, p, "product activated")
}

func (c *Controller) DeactivateProduct(ctx *gin.Context) {
	p, err := c.productService.DeactivateProduct(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, p, "product deactivated")
}
