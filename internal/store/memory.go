package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"siva-proposals-backend/internal/models"
)

type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]models.Order
	now    func() time.Time
}

func NewMemoryStore(seed ...models.Order) *MemoryStore {
	s := &MemoryStore{
		orders: make(map[string]models.Order, len(seed)),
		now:    time.Now,
	}
	for _, o := range seed {
		s.orders[o.ID] = o
	}
	return s
}

func (s *MemoryStore) CreateOrder(ctx context.Context, fields models.NewOrder) (*models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	order := models.Order{
		ID:        "rec" + uuid.NewString(),
		Client:    fields.Client,
		Email:     fields.Email,
		Demande:   fields.Demande,
		Phone:     fields.Phone,
		Boutique:  fields.Boutique,
		Status:    models.StatusGenerating,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.orders[order.ID] = order
	s.mu.Unlock()

	return &order, nil
}

func (s *MemoryStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	order, ok := s.orders[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("failed to get order %s: %w", id, ErrNotFound)
	}
	return &order, nil
}

func (s *MemoryStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	orders := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		orders = append(orders, o)
	}
	s.mu.RUnlock()

	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (s *MemoryStore) UpdateOrder(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("failed to update order %s: %w", id, ErrNotFound)
	}
	patch.Apply(&order)
	s.orders[id] = order

	return &order, nil
}

func (s *MemoryStore) DeleteOrder(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return fmt.Errorf("failed to delete order %s: %w", id, ErrNotFound)
	}
	delete(s.orders, id)
	return nil
}
