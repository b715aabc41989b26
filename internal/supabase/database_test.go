package supabase_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"siva-proposals-backend/internal/config"
	"siva-proposals-backend/internal/models"
	"siva-proposals-backend/internal/store"
	"siva-proposals-backend/internal/supabase"
)

func newDatabaseClient(t *testing.T, handler http.HandlerFunc) *supabase.DatabaseClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := supabase.NewClient(&config.Config{
		SupabaseURL:         srv.URL,
		SupabaseServiceKey:  "service-key",
		SupabaseOrdersTable: "orders",
	})
	require.NoError(t, err)
	return supabase.NewDatabaseClient(client)
}

func TestDatabaseClient_GetOrder(t *testing.T) {
	id := uuid.NewString()
	db := newDatabaseClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/orders", r.URL.Path)
		assert.Equal(t, "eq."+id, r.URL.Query().Get("id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":"`+id+`","client":"Jeanne Dupont","email":"jeanne@example.com",
			"demande":"Bague solitaire, or blanc, diamant","image_1":"https://img/1.png","image_2":null,
			"image_3":"https://img/3.png","image_4":null,"status":"images_ready","selected_image":null,
			"created_at":"2025-03-04T09:30:00Z"}]`)
	})

	order, err := db.GetOrder(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Jeanne Dupont", order.Client)
	assert.Equal(t, models.ImageSlots{"https://img/1.png", "", "https://img/3.png", ""}, order.Images)
	assert.Equal(t, models.StatusImagesReady, order.Status)
	assert.Nil(t, order.SelectedImage)
}

func TestDatabaseClient_GetOrderEmptyResultIsNotFound(t *testing.T) {
	db := newDatabaseClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	})

	_, err := db.GetOrder(context.Background(), uuid.NewString())
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestDatabaseClient_MalformedIDIsNotFound(t *testing.T) {
	db := newDatabaseClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL)
	})

	_, err := db.GetOrder(context.Background(), "recA1")
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.True(t, errors.Is(db.DeleteOrder(context.Background(), "recA1"), store.ErrNotFound))
}

func TestDatabaseClient_ListOrdersNewestFirst(t *testing.T) {
	db := newDatabaseClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Query().Get("order"), "created_at.desc"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":"b","client":"B","status":"generating","created_at":"2025-03-05T00:00:00Z"},
			{"id":"a","client":"A","status":"sent","created_at":"2025-03-04T00:00:00Z"}]`)
	})

	orders, err := db.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "b", orders[0].ID)
	assert.Equal(t, models.StatusSent, orders[1].Status)
}

func TestDatabaseClient_UpdateOrderNeverMovesStatusBack(t *testing.T) {
	id := uuid.NewString()
	row := `[{"id":"` + id + `","client":"Jeanne Dupont","image_1":"https://img/1.png",
		"pdf":"https://files/p.pdf","status":"sent","created_at":"2025-03-04T09:30:00Z"}]`

	var updates []map[string]any
	db := newDatabaseClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, row)
		case http.MethodPatch:
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			updates = append(updates, body)
			_, _ = io.WriteString(w, row)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL)
		}
	})

	order, err := db.UpdateOrder(context.Background(), id, models.OrderPatch{
		PDF:           models.StringPtr("https://files/p2.pdf"),
		SelectedImage: models.IntPtr(0),
		Status:        models.StatusPtr(models.StatusPDFReady),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSent, order.Status)

	require.Len(t, updates, 1)
	assert.Equal(t, "https://files/p2.pdf", updates[0]["pdf"])
	assert.NotContains(t, updates[0], "status")

	_, err = db.UpdateOrder(context.Background(), id, models.OrderPatch{
		Status: models.StatusPtr(models.StatusImagesReady),
	})
	require.NoError(t, err)
	assert.Len(t, updates, 1)
}

func TestDatabaseClient_UpdateOrderAdvancesStatus(t *testing.T) {
	id := uuid.NewString()
	var update map[string]any
	db := newDatabaseClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPatch {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&update))
			_, _ = io.WriteString(w, `[{"id":"`+id+`","client":"Jeanne Dupont","status":"sent","created_at":"2025-03-04T09:30:00Z"}]`)
			return
		}
		_, _ = io.WriteString(w, `[{"id":"`+id+`","client":"Jeanne Dupont","status":"pdf_ready","created_at":"2025-03-04T09:30:00Z"}]`)
	})

	order, err := db.UpdateOrder(context.Background(), id, models.OrderPatch{Status: models.StatusPtr(models.StatusSent)})
	require.NoError(t, err)
	assert.Equal(t, "sent", update["status"])
	assert.Equal(t, models.StatusSent, order.Status)
}

func TestProposalPath(t *testing.T) {
	assert.Equal(t, "orders/rec1/proposition.pdf", supabase.ProposalPath("rec1", "proposition.pdf"))
}
