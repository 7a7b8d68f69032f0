package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storify/storify-backend/internal/app/model"
	"github.com/storify/storify-backend/internal/kv"
	"github.com/storify/storify-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

var ErrEmptyCart = errors.New("cart is empty")

// OrderService walks the checkout: totals from the current cart, a
// simulated payment that always succeeds, the order appended to the orders
// slot, and the cart cleared.
type OrderService interface {
	EstimateTotals() model.OrderTotals
	PlaceOrder(ctx context.Context, info model.CheckoutInfo) (*model.Order, error)
	GetOrders(ctx context.Context) ([]model.Order, error)
	ExportOrders(ctx context.Context) ([]byte, error)
}

type orderService struct {
	cart         CartService
	slot         kv.Store
	shippingRate decimal.Decimal
	taxRate      decimal.Decimal
}

func NewOrderService(cart CartService, slot kv.Store, shippingRate, taxRate float64) OrderService {
	return &orderService{
		cart:         cart,
		slot:         slot,
		shippingRate: decimal.NewFromFloat(shippingRate),
		taxRate:      decimal.NewFromFloat(taxRate),
	}
}

// EstimateTotals prices the current cart: flat-rate shipping when the cart
// is non-empty and tax on the subtotal, both rounded to cents.
func (s *orderService) EstimateTotals() model.OrderTotals {
	subtotal := decimal.NewFromFloat(s.cart.Subtotal())

	shipping := decimal.Zero
	if len(s.cart.Items()) > 0 {
		shipping = s.shippingRate
	}
	tax := subtotal.Mul(s.taxRate).Round(2)
	total := subtotal.Add(shipping).Add(tax).Round(2)

	return model.OrderTotals{
		Subtotal: subtotal.InexactFloat64(),
		Shipping: shipping.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, info model.CheckoutInfo) (*model.Order, error) {
	items := s.cart.Items()
	if len(items) == 0 {
		logger.Warn("Cannot place order: cart is empty", nil)
		return nil, ErrEmptyCart
	}

	totals := s.EstimateTotals()

	// Payment is simulated and always succeeds.
	order := model.Order{
		ID:     uuid.NewString(),
		Date:   time.Now().UTC(),
		Total:  totals.Total,
		Status: model.OrderStatusCompleted,
	}

	orders, err := s.loadOrders(ctx)
	if err != nil {
		return nil, err
	}
	orders = append(orders, order)

	data, err := json.Marshal(orders)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order history: %w", err)
	}
	if err := s.slot.Set(ctx, kv.OrdersKey, data); err != nil {
		logger.Error("Failed to persist order", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, err
	}

	if err := s.cart.ClearCart(ctx); err != nil {
		logger.Error("Order placed but cart could not be cleared", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, err
	}

	logger.Info("Order placed successfully", map[string]interface{}{
		"order_id": order.ID,
		"email":    info.Email,
		"total":    order.Total,
	})
	return &order, nil
}

func (s *orderService) GetOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := s.loadOrders(ctx)
	if err != nil {
		return nil, err
	}

	logger.Debug("Order history fetched", map[string]interface{}{
		"count": len(orders),
	})
	return orders, nil
}

// loadOrders reads the orders slot. An absent or malformed slot is an empty
// history, never an error.
func (s *orderService) loadOrders(ctx context.Context) ([]model.Order, error) {
	data, err := s.slot.Get(ctx, kv.OrdersKey)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return []model.Order{}, nil
		}
		logger.Error("Failed to read order history", err, nil)
		return nil, err
	}

	var orders []model.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		logger.Warn("Order history slot is malformed, treating as empty", map[string]interface{}{
			"error": err.Error(),
		})
		return []model.Order{}, nil
	}
	return orders, nil
}

// ExportOrders renders the order history as an xlsx workbook.
func (s *orderService) ExportOrders(ctx context.Context) ([]byte, error) {
	orders, err := s.loadOrders(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Orders"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Order ID", "Date", "Total", "Status"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, order := range orders {
		values := []interface{}{
			order.ID,
			order.Date.Format(time.RFC3339),
			order.Total,
			string(order.Status),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	logger.Info("Order history exported", map[string]interface{}{
		"orders": len(orders),
	})
	return buf.Bytes(), nil
}
