package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/storify/storify-backend/internal/app/model"
	"github.com/storify/storify-backend/internal/app/service"
	"github.com/storify/storify-backend/internal/db"
	"github.com/storify/storify-backend/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCartControllerTest(t *testing.T) (*gin.Engine, service.CartService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	slot, err := kv.NewGormStore(testDB)
	require.NoError(t, err)

	cartService := service.NewCartService(slot, nil)
	cartController := NewCartController(cartService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/cart", cartController.GetCart)
	router.POST("/cart", cartController.AddToCart)
	router.PUT("/cart/:source/:id", cartController.UpdateCartItem)
	router.DELETE("/cart/:source/:id", cartController.RemoveFromCart)
	router.DELETE("/cart", cartController.ClearCart)
	router.GET("/cart/notification", cartController.GetNotification)

	return router, cartService
}

func addToCartBody(t *testing.T, product model.Product, quantity int) *bytes.Buffer {
	body, err := json.Marshal(AddToCartRequest{Product: product, Quantity: quantity})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func controllerTestProduct() model.Product {
	return model.Product{
		ID:     1,
		Title:  "Wireless Mouse",
		Price:  10,
		Image:  "https://example.com/mouse.png",
		Source: "dummyjson",
	}
}

func TestCartController_GetCart_Empty(t *testing.T) {
	router, _ := setupCartControllerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(0), response["item_count"])
	assert.Equal(t, float64(0), response["subtotal"])
}

func TestCartController_AddToCart_Success(t *testing.T) {
	router, cartService := setupCartControllerTest(t)

	req := httptest.NewRequest(http.MethodPost, "/cart", addToCartBody(t, controllerTestProduct(), 2))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(2), response["item_count"])

	notification, ok := response["notification"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "success", notification["kind"])
	assert.Equal(t, "Added Wireless Mouse to cart!", notification["message"])

	assert.Len(t, cartService.Items(), 1)
}

func TestCartController_AddToCart_DefaultsQuantityToOne(t *testing.T) {
	router, cartService := setupCartControllerTest(t)

	req := httptest.NewRequest(http.MethodPost, "/cart", addToCartBody(t, controllerTestProduct(), 0))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, cartService.ItemCount())
}

func TestCartController_AddToCart_NegativeQuantity(t *testing.T) {
	router, _ := setupCartControllerTest(t)

	req := httptest.NewRequest(http.MethodPost, "/cart", addToCartBody(t, controllerTestProduct(), -1))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Quantity must be at least 1")
}

func TestCartController_AddToCart_InvalidBody(t *testing.T) {
	router, _ := setupCartControllerTest(t)

	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_UpdateCartItem_Success(t *testing.T) {
	router, cartService := setupCartControllerTest(t)

	require.NoError(t, cartService.AddItem(context.Background(), controllerTestProduct(), 5))

	body := bytes.NewBufferString(`{"quantity": 2}`)
	req := httptest.NewRequest(http.MethodPut, "/cart/dummyjson/1", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	items := cartService.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartController_UpdateCartItem_ZeroRemoves(t *testing.T) {
	router, cartService := setupCartControllerTest(t)

	require.NoError(t, cartService.AddItem(context.Background(), controllerTestProduct(), 2))

	body := bytes.NewBufferString(`{"quantity": 0}`)
	req := httptest.NewRequest(http.MethodPut, "/cart/dummyjson/1", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, cartService.Items())
}

func TestCartController_UpdateCartItem_MissingQuantity(t *testing.T) {
	router, _ := setupCartControllerTest(t)

	body := bytes.NewBufferString(`{}`)
	req := httptest.NewRequest(http.MethodPut, "/cart/dummyjson/1", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_UpdateCartItem_InvalidID(t *testing.T) {
	router, _ := setupCartControllerTest(t)

	body := bytes.NewBufferString(`{"quantity": 2}`)
	req := httptest.NewRequest(http.MethodPut, "/cart/dummyjson/abc", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid cart item ID")
}

func TestCartController_RemoveFromCart(t *testing.T) {
	router, cartService := setupCartControllerTest(t)

	require.NoError(t, cartService.AddItem(context.Background(), controllerTestProduct(), 2))

	req := httptest.NewRequest(http.MethodDelete, "/cart/dummyjson/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, cartService.Items())

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	notification, ok := response["notification"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "warning", notification["kind"])
	assert.Equal(t, "Item removed from cart!", notification["message"])
}

func TestCartController_ClearCart(t *testing.T) {
	router, cartService := setupCartControllerTest(t)

	require.NoError(t, cartService.AddItem(context.Background(), controllerTestProduct(), 2))

	req := httptest.NewRequest(http.MethodDelete, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, cartService.Items())
}

func TestCartController_GetNotification(t *testing.T) {
	router, cartService := setupCartControllerTest(t)

	// Nothing current yet
	req := httptest.NewRequest(http.MethodGet, "/cart/notification", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Nil(t, response["notification"])

	require.NoError(t, cartService.AddItem(context.Background(), controllerTestProduct(), 1))

	req = httptest.NewRequest(http.MethodGet, "/cart/notification", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	notification, ok := response["notification"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "success", notification["kind"])
}
