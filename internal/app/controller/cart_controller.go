package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/storify/storify-backend/internal/app/model"
	"github.com/storify/storify-backend/internal/app/service"
	"github.com/storify/storify-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	Product  model.Product `json:"product" binding:"required"`
	Quantity int           `json:"quantity"`
}

type UpdateCartRequest struct {
	// Pointer so that 0 (which removes the item) survives binding.
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart returns the cart contents and derived totals
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	items := ctrl.cartService.Items()
	subtotal := ctrl.cartService.Subtotal()
	itemCount := ctrl.cartService.ItemCount()

	log.Info("Cart fetched successfully", map[string]interface{}{
		"line_items": len(items),
		"item_count": itemCount,
		"subtotal":   subtotal,
	})

	c.JSON(http.StatusOK, gin.H{
		"cart_items": items,
		"item_count": itemCount,
		"subtotal":   subtotal,
	})
}

// AddToCart adds a product snapshot to the cart
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1 // domain default
	}

	if err := ctrl.cartService.AddItem(c.Request.Context(), req.Product, quantity); err != nil {
		if errors.Is(err, service.ErrInvalidQuantity) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Quantity must be at least 1",
			})
			return
		}
		log.Error("Failed to add item to cart", err, map[string]interface{}{
			"product_id": req.Product.ID,
			"source":     req.Product.Source,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to add item to cart",
		})
		return
	}

	log.Info("Item added to cart successfully", map[string]interface{}{
		"product_id": req.Product.ID,
		"source":     req.Product.Source,
		"quantity":   quantity,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Item added to cart successfully",
		"item_count":   ctrl.cartService.ItemCount(),
		"notification": ctrl.cartService.CurrentNotification(),
	})
}

// UpdateCartItem sets the quantity of one line item
// PUT /api/v1/cart/:source/:id
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, source, ok := lineItemKey(c)
	if !ok {
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"product_id": id,
			"source":     source,
			"error":      err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := ctrl.cartService.UpdateQuantity(c.Request.Context(), id, source, *req.Quantity); err != nil {
		log.Error("Failed to update cart item", err, map[string]interface{}{
			"product_id": id,
			"source":     source,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update cart item",
		})
		return
	}

	log.Info("Cart item updated successfully", map[string]interface{}{
		"product_id": id,
		"source":     source,
		"quantity":   *req.Quantity,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":    "Cart item updated successfully",
		"cart_items": ctrl.cartService.Items(),
	})
}

// RemoveFromCart removes one line item
// DELETE /api/v1/cart/:source/:id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, source, ok := lineItemKey(c)
	if !ok {
		return
	}

	if err := ctrl.cartService.RemoveItem(c.Request.Context(), id, source); err != nil {
		log.Error("Failed to remove cart item", err, map[string]interface{}{
			"product_id": id,
			"source":     source,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove cart item",
		})
		return
	}

	log.Info("Cart item removed successfully", map[string]interface{}{
		"product_id": id,
		"source":     source,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":      "Item removed from cart",
		"notification": ctrl.cartService.CurrentNotification(),
	})
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if err := ctrl.cartService.ClearCart(c.Request.Context()); err != nil {
		log.Error("Failed to clear cart", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	log.Info("Cart cleared successfully", nil)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// GetNotification returns the current ephemeral notification, if any
// GET /api/v1/cart/notification
func (ctrl *CartController) GetNotification(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notification": ctrl.cartService.CurrentNotification(),
	})
}

// lineItemKey parses the (id, source) pair from the route.
func lineItemKey(c *gin.Context) (int64, string, bool) {
	log := middleware.GetLoggerFromContext(c)

	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		log.Warn("Invalid cart item ID format", map[string]interface{}{
			"id":    idStr,
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cart item ID",
		})
		return 0, "", false
	}

	return id, c.Param("source"), true
}
