package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"siva-proposals-backend/internal/models"
	"siva-proposals-backend/internal/services"
	"siva-proposals-backend/internal/store"
)

func TestOrderWatcher_ReturnsWhenImagesArrive(t *testing.T) {
	s := store.NewMemoryStore()
	order, err := s.CreateOrder(context.Background(), models.NewOrder{Client: "Jeanne Dupont", Demande: "Bague"})
	require.NoError(t, err)

	go func() {
		time.Sleep(30 * time.Millisecond)
		_, _ = s.UpdateOrder(context.Background(), order.ID, models.OrderPatch{
			Images: map[int]string{0: "https://img/1.png"},
		})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	w := services.NewOrderWatcher(s, 10*time.Millisecond)
	got, changed, err := w.Wait(ctx, order.ID, models.StatusGenerating)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.StatusImagesReady, got.EffectiveStatus())
}

func TestOrderWatcher_TimesOutUnchanged(t *testing.T) {
	s := store.NewMemoryStore()
	order, err := s.CreateOrder(context.Background(), models.NewOrder{Client: "Jeanne Dupont", Demande: "Bague"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	w := services.NewOrderWatcher(s, 10*time.Millisecond)
	got, changed, err := w.Wait(ctx, order.ID, models.StatusGenerating)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, order.ID, got.ID)
}

func TestOrderWatcher_NotFound(t *testing.T) {
	w := services.NewOrderWatcher(store.NewMemoryStore(), time.Millisecond)

	_, _, err := w.Wait(context.Background(), "recMissing", models.StatusGenerating)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
