package kv

import (
	"context"
	"errors"
)

// Slot keys for the persisted storefront state.
const (
	CartKey   = "storify-cart"
	OrdersKey = "orders"
)

var ErrKeyNotFound = errors.New("key not found")

// Store is a durable key-value slot store. Every write replaces the full
// value under the key; readers always see the last completed write.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
