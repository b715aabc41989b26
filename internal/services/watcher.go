package services

import (
	"context"
	"time"

	"siva-proposals-backend/internal/models"
	"siva-proposals-backend/internal/store"
)

// OrderWatcher long-polls the store until an order moves past a status.
type OrderWatcher struct {
	store    store.OrderStore
	interval time.Duration
}

func NewOrderWatcher(s store.OrderStore, interval time.Duration) *OrderWatcher {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &OrderWatcher{store: s, interval: interval}
}

// Wait returns as soon as the order's effective status is later than since,
// reporting changed=true. When ctx ends first it returns the last order read
// with changed=false. Store errors end the wait immediately.
func (w *OrderWatcher) Wait(ctx context.Context, id string, since models.Status) (*models.Order, bool, error) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var last *models.Order
	for {
		order, err := w.store.GetOrder(ctx, id)
		if err != nil {
			if last != nil && ctx.Err() != nil {
				return last, false, nil
			}
			return nil, false, err
		}
		last = order
		if since.Before(order.EffectiveStatus()) {
			return order, true, nil
		}

		select {
		case <-ctx.Done():
			return order, false, nil
		case <-ticker.C:
		}
	}
}
