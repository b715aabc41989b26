package airtable_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"siva-proposals-backend/internal/airtable"
	"siva-proposals-backend/internal/models"
	"siva-proposals-backend/internal/store"
)

const recordJSON = `{
	"id": "recA1",
	"createdTime": "2025-03-04T09:30:00.000Z",
	"fields": {
		"Client": "Jeanne Dupont",
		"Email": "jeanne@example.com",
		"Demande": "Bague solitaire, or blanc, diamant",
		"Image 1": [{"id": "att1", "url": "https://img/1.png", "filename": "1.png"}],
		"Image 3": [{"id": "att3", "url": "https://img/3.png"}],
		"PDF": [{"url": "https://files/p.pdf"}],
		"Status": "pdf_ready",
		"Selected Image": 3
	}
}`

func newStore(t *testing.T, handler http.HandlerFunc) *airtable.OrderStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return airtable.NewOrderStore(airtable.NewClient(srv.URL+"/v0/", "key-123", "appBase", "Commandes"))
}

func TestOrderStore_GetOrderDecodesFields(t *testing.T) {
	s := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v0/appBase/Commandes/recA1", r.URL.Path)
		assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, recordJSON)
	})

	order, err := s.GetOrder(context.Background(), "recA1")
	require.NoError(t, err)

	assert.Equal(t, "recA1", order.ID)
	assert.Equal(t, "Jeanne Dupont", order.Client)
	assert.Equal(t, models.ImageSlots{"https://img/1.png", "", "https://img/3.png", ""}, order.Images)
	assert.Equal(t, "https://files/p.pdf", order.PDF)
	assert.Equal(t, models.StatusPDFReady, order.Status)
	require.NotNil(t, order.SelectedImage)
	assert.Equal(t, 2, *order.SelectedImage)
	assert.Equal(t, 2025, order.CreatedAt.Year())
}

func TestOrderStore_GetOrderNotFound(t *testing.T) {
	s := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"NOT_FOUND"}`)
	})

	_, err := s.GetOrder(context.Background(), "recMissing")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestOrderStore_UpstreamFailureIsNotNotFound(t *testing.T) {
	s := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"error":{"type":"INVALID_VALUE_FOR_COLUMN","message":"bad"}}`)
	})

	_, err := s.GetOrder(context.Background(), "recA1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, store.ErrNotFound))

	var apiErr *airtable.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "INVALID_VALUE_FOR_COLUMN", apiErr.Type)
}

func TestOrderStore_CreateOrderSendsFieldKeys(t *testing.T) {
	s := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body struct {
			Records []struct {
				Fields map[string]any `json:"fields"`
			} `json:"records"`
			Typecast bool `json:"typecast"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Records, 1)
		fields := body.Records[0].Fields
		assert.Equal(t, "Jeanne Dupont", fields["Client"])
		assert.Equal(t, "Bague solitaire, or blanc, diamant", fields["Demande"])
		assert.Equal(t, "generating", fields["Status"])
		assert.NotContains(t, fields, "Phone")
		assert.True(t, body.Typecast)

		_, _ = io.WriteString(w, `{"records":[{"id":"recNew","createdTime":"2025-03-05T10:00:00.000Z","fields":{"Client":"Jeanne Dupont","Demande":"Bague solitaire, or blanc, diamant","Status":"generating"}}]}`)
	})

	order, err := s.CreateOrder(context.Background(), models.NewOrder{
		Client:  "Jeanne Dupont",
		Email:   "jeanne@example.com",
		Demande: "Bague solitaire, or blanc, diamant",
	})
	require.NoError(t, err)
	assert.Equal(t, "recNew", order.ID)
	assert.Equal(t, models.StatusGenerating, order.Status)
	assert.Equal(t, 0, order.Images.Count())
}

func recordWithStatus(status string) string {
	return strings.Replace(recordJSON, `"Status": "pdf_ready"`, `"Status": "`+status+`"`, 1)
}

type patchBody struct {
	Records []struct {
		ID     string                     `json:"id"`
		Fields map[string]json.RawMessage `json:"fields"`
	} `json:"records"`
}

func TestOrderStore_UpdateOrderEncodesAttachments(t *testing.T) {
	s := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = io.WriteString(w, recordWithStatus("images_ready"))
			return
		}
		assert.Equal(t, http.MethodPatch, r.Method)

		var body patchBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Records, 1)
		assert.Equal(t, "recA1", body.Records[0].ID)
		fields := body.Records[0].Fields
		assert.JSONEq(t, `[{"url":"https://files/p.pdf"}]`, string(fields["PDF"]))
		assert.JSONEq(t, `2`, string(fields["Selected Image"]))
		assert.JSONEq(t, `"pdf_ready"`, string(fields["Status"]))

		_, _ = io.WriteString(w, `{"records":[`+recordJSON+`]}`)
	})

	_, err := s.UpdateOrder(context.Background(), "recA1", models.OrderPatch{
		PDF:           models.StringPtr("https://files/p.pdf"),
		SelectedImage: models.IntPtr(1),
		Status:        models.StatusPtr(models.StatusPDFReady),
	})
	require.NoError(t, err)
}

func TestOrderStore_ListOrdersPaginatesNewestFirst(t *testing.T) {
	calls := 0
	s := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("offset") == "" {
			_, _ = io.WriteString(w, `{"records":[{"id":"recOld","createdTime":"2025-01-01T00:00:00.000Z","fields":{"Client":"A"}}],"offset":"itr1"}`)
			return
		}
		assert.Equal(t, "itr1", r.URL.Query().Get("offset"))
		_, _ = io.WriteString(w, `{"records":[{"id":"recNew","createdTime":"2025-02-01T00:00:00.000Z","fields":{"Client":"B"}}]}`)
	})

	orders, err := s.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, orders, 2)
	assert.Equal(t, "recNew", orders[0].ID)
	assert.Equal(t, "recOld", orders[1].ID)
}

func TestOrderStore_DeleteOrder(t *testing.T) {
	s := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, []string{"recA1"}, r.URL.Query()["records[]"])
		_, _ = io.WriteString(w, `{"records":[{"id":"recA1","deleted":true}]}`)
	})

	assert.NoError(t, s.DeleteOrder(context.Background(), "recA1"))
}

func TestOrderStore_UpdateOrderNeverMovesStatusBack(t *testing.T) {
	var patches []patchBody
	s := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, recordWithStatus("sent"))
		case http.MethodPatch:
			var body patchBody
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			patches = append(patches, body)
			_, _ = io.WriteString(w, `{"records":[`+recordWithStatus("sent")+`]}`)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL)
		}
	})

	// An edited slot arriving after the proposal went out.
	order, err := s.UpdateOrder(context.Background(), "recA1", models.OrderPatch{
		Images: map[int]string{0: "https://img/1-edited.png"},
		Status: models.StatusPtr(models.StatusImagesReady),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSent, order.EffectiveStatus())

	require.Len(t, patches, 1)
	fields := patches[0].Records[0].Fields
	assert.Contains(t, fields, "Image 1")
	assert.NotContains(t, fields, "Status")

	// A status-only patch that would regress is not sent at all.
	order, err = s.UpdateOrder(context.Background(), "recA1", models.OrderPatch{
		Status: models.StatusPtr(models.StatusPDFReady),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSent, order.Status)
	assert.Len(t, patches, 1)
}
