package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/storify/storify-backend/internal/app/model"
	"github.com/storify/storify-backend/internal/kv"
	"github.com/storify/storify-backend/pkg/logger"
)

// notificationTTL is how long a cart notification stays current before it
// expires on its own.
const notificationTTL = 3 * time.Second

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Notifier receives every notification the cart emits, in mutation order.
// Used to push notifications out to connected clients.
type Notifier interface {
	Publish(n model.Notification)
}

// CartService is the single authoritative holder of the cart line items for
// the active session. Mutations hold the composite-identity invariant (one
// row per (id, source)) and the quantity-floor invariant (quantity >= 1, a
// lower quantity removes the row), and write the full snapshot through to
// the storify-cart slot before returning. Exactly one mutation is in flight
// at a time.
type CartService interface {
	AddItem(ctx context.Context, product model.Product, quantity int) error
	RemoveItem(ctx context.Context, id int64, source string) error
	UpdateQuantity(ctx context.Context, id int64, source string, quantity int) error
	ClearCart(ctx context.Context) error

	Items() []model.LineItem
	Subtotal() float64
	ItemCount() int
	CurrentNotification() *model.Notification
}

type cartService struct {
	mu    sync.Mutex
	items []model.LineItem
	slot  kv.Store

	notifier        Notifier
	notification    *model.Notification
	notificationSeq uint64
	notificationTTL time.Duration
}

// NewCartService builds the cart store, rehydrating from the persisted
// snapshot. An absent or malformed snapshot starts an empty cart; it is
// never a startup error. notifier may be nil.
func NewCartService(slot kv.Store, notifier Notifier) CartService {
	s := &cartService{
		slot:            slot,
		notifier:        notifier,
		notificationTTL: notificationTTL,
	}
	s.restore()
	return s
}

func (s *cartService) restore() {
	data, err := s.slot.Get(context.Background(), kv.CartKey)
	if err != nil {
		if !errors.Is(err, kv.ErrKeyNotFound) {
			logger.Warn("Failed to read persisted cart, starting empty", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return
	}

	var items []model.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn("Persisted cart is malformed, starting empty", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	s.items = items
	logger.Info("Cart restored from snapshot", map[string]interface{}{
		"line_items": len(items),
	})
}

// persist writes the full line-item collection through to the slot. Called
// with the mutex held so snapshot writes keep mutation order.
func (s *cartService) persist(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []model.LineItem{} // slot layout is a JSON array, never null
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart snapshot: %w", err)
	}
	if err := s.slot.Set(ctx, kv.CartKey, data); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

// showNotification makes n the current notification and schedules its
// expiry. The expiry only clears the notification if its token still
// matches, so an earlier timer never wipes a newer notification. Called
// with the mutex held.
func (s *cartService) showNotification(kind model.NotificationKind, message string) {
	n := model.Notification{Kind: kind, Message: message}
	s.notificationSeq++
	token := s.notificationSeq
	s.notification = &n

	time.AfterFunc(s.notificationTTL, func() {
		s.mu.Lock()
		if s.notificationSeq == token {
			s.notification = nil
		}
		s.mu.Unlock()
	})

	if s.notifier != nil {
		s.notifier.Publish(n)
	}
}

func (s *cartService) AddItem(ctx context.Context, product model.Product, quantity int) error {
	if quantity < 1 {
		logger.Warn("Rejected add to cart: invalid quantity", map[string]interface{}{
			"product_id": product.ID,
			"source":     product.Source,
			"quantity":   quantity,
		})
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := model.NewLineItem(product, quantity)

	merged := false
	for i := range s.items {
		if s.items[i].Matches(item.ID, item.Source) {
			s.items[i].Quantity += quantity
			merged = true
			break
		}
	}

	if merged {
		s.showNotification(model.NotificationInfo, fmt.Sprintf("Updated %s quantity!", item.Title))
	} else {
		s.items = append(s.items, item)
		s.showNotification(model.NotificationSuccess, fmt.Sprintf("Added %s to cart!", item.Title))
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"product_id": item.ID,
		"source":     item.Source,
		"quantity":   quantity,
		"merged":     merged,
		"line_items": len(s.items),
	})

	return s.persist(ctx)
}

func (s *cartService) RemoveItem(ctx context.Context, id int64, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.removeLocked(id, source)

	// The removal notification is emitted even when nothing matched,
	// matching the storefront.
	s.showNotification(model.NotificationWarning, "Item removed from cart!")

	logger.Info("Cart item removal requested", map[string]interface{}{
		"product_id": id,
		"source":     source,
		"removed":    removed,
		"line_items": len(s.items),
	})

	return s.persist(ctx)
}

// removeLocked deletes the line item matching (id, source) and reports
// whether a row was actually removed. Called with the mutex held.
func (s *cartService) removeLocked(id int64, source string) bool {
	for i := range s.items {
		if s.items[i].Matches(id, source) {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *cartService) UpdateQuantity(ctx context.Context, id int64, source string, quantity int) error {
	if quantity < 1 {
		// The floor invariant is enforced by deletion, not clamping. The
		// removal path also emits its notification.
		return s.RemoveItem(ctx, id, source)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Matches(id, source) {
			s.items[i].Quantity = quantity
			break
		}
	}

	logger.Info("Cart item quantity set", map[string]interface{}{
		"product_id": id,
		"source":     source,
		"quantity":   quantity,
	})

	return s.persist(ctx)
}

func (s *cartService) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil

	logger.Info("Cart cleared", nil)

	return s.persist(ctx)
}

func (s *cartService) Items() []model.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]model.LineItem, len(s.items))
	copy(items, s.items)
	return items
}

func (s *cartService) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var subtotal float64
	for _, item := range s.items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return subtotal
}

func (s *cartService) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

func (s *cartService) CurrentNotification() *model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.notification == nil {
		return nil
	}
	n := *s.notification
	return &n
}
