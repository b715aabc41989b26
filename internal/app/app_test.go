package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"siva-proposals-backend/internal/airtable"
	"siva-proposals-backend/internal/app"
	"siva-proposals-backend/internal/config"
	"siva-proposals-backend/internal/events"
	"siva-proposals-backend/internal/relay"
	"siva-proposals-backend/internal/store"
)

func TestNew_MockMode(t *testing.T) {
	cfg := &config.Config{MockMode: true, Environment: "development", ImageFetchRetries: 1}

	a, err := app.New(cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &store.MemoryStore{}, a.Store)
	assert.IsType(t, &relay.Recorder{}, a.Relay)
	assert.Equal(t, events.Nop{}, a.Events)

	orders, err := a.Service.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, orders, len(store.Fixtures()))
}

func TestNew_Airtable(t *testing.T) {
	cfg := &config.Config{
		RecordStore:       config.StoreAirtable,
		AirtableAPIURL:    "https://api.airtable.com/v0/",
		AirtableAPIKey:    "key",
		AirtableBaseID:    "app123",
		AirtableTableName: "Commandes",
		ImageFetchRetries: 1,
	}

	a, err := app.New(cfg, zap.NewNop())
	require.NoError(t, err)

	assert.IsType(t, &airtable.OrderStore{}, a.Store)
	assert.IsType(t, &relay.Client{}, a.Relay)
}

func TestNew_UnknownStore(t *testing.T) {
	_, err := app.New(&config.Config{RecordStore: "sheets"}, zap.NewNop())
	assert.Error(t, err)
}
