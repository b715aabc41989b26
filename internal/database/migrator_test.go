package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"siva-proposals-backend/internal/database"
)

func TestMigrations_Ordered(t *testing.T) {
	names, err := database.Migrations()
	require.NoError(t, err)

	assert.Equal(t, []string{"001_create_orders.sql", "002_orders_updated_at.sql"}, names)
}

func TestNewMigrator_InvalidURL(t *testing.T) {
	_, err := database.NewMigrator("postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1", zap.NewNop())
	assert.Error(t, err)
}
