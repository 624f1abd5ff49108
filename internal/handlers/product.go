// internal/handlers/product.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/luxe-clothing/storefront/internal/services"
	"github.com/luxe-clothing/storefront/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// GET /api/products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var query services.ProductQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, &services.ValidationError{Field: "query", Message: err.Error()})
		return
	}

	products, total, err := h.productService.ListProducts(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, params))
}

// GET /api/products/search
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	var query services.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, &services.ValidationError{Field: "query", Message: err.Error()})
		return
	}

	products, err := h.productService.SearchProducts(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, products)
}

// GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := pathUUID(c, "id", "Product")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}
