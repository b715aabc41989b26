// Package store defines the record store contract for orders and an
// in-memory implementation used for fixture mode and tests.
package store

import (
	"context"
	"errors"

	"siva-proposals-backend/internal/models"
)

// ErrNotFound is returned when no order has the requested id.
var ErrNotFound = errors.New("order not found")

// OrderStore is a remote tabular datastore holding orders. Every call is a
// single-record round trip with no transaction across calls.
type OrderStore interface {
	CreateOrder(ctx context.Context, fields models.NewOrder) (*models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	// ListOrders returns orders newest first.
	ListOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrder(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}
