package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/storify/storify-backend/internal/app/service"
	"github.com/storify/storify-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// GetAllProducts lists the aggregated catalog
// GET /api/v1/products?search=&category=&source=
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := service.ProductFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Source:   c.Query("source"),
	}

	products, err := ctrl.productService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		log.Error("Failed to fetch products", err, nil)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to fetch products from catalogs",
		})
		return
	}

	log.Info("Products fetched successfully", map[string]interface{}{
		"count": len(products),
	})

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetFeaturedProducts lists the home-page selection
// GET /api/v1/products/featured
func (ctrl *ProductController) GetFeaturedProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.productService.GetFeaturedProducts(c.Request.Context())
	if err != nil {
		log.Error("Failed to fetch featured products", err, nil)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to fetch products from catalogs",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProductByID looks one product up by its (source, id) key
// GET /api/v1/products/:source/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		log.Warn("Invalid product ID format", map[string]interface{}{
			"id":    idStr,
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}
	source := c.Param("source")

	product, err := ctrl.productService.GetProduct(c.Request.Context(), source, id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			log.Warn("Product not found", map[string]interface{}{
				"product_id": id,
				"source":     source,
			})
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
			"source":     source,
		})
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to fetch product from catalog",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}
