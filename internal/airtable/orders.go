package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"siva-proposals-backend/internal/models"
	"siva-proposals-backend/internal/store"
)

// Field names of the orders table. Existing bases depend on these exact keys.
const (
	FieldClient          = "Client"
	FieldEmail           = "Email"
	FieldDemande         = "Demande"
	FieldPhone           = "Phone"
	FieldBoutique        = "Boutique"
	FieldImageCollection = "Image collection"
	FieldPDF             = "PDF"
	FieldStatus          = "Status"
	FieldSelectedImage   = "Selected Image"
)

// ImageField returns the key of the image slot at index (0-based).
func ImageField(index int) string {
	return fmt.Sprintf("Image %d", index+1)
}

type attachment struct {
	URL string `json:"url"`
}

// OrderStore persists orders as rows of an Airtable table.
type OrderStore struct {
	client *Client
}

func NewOrderStore(client *Client) *OrderStore {
	return &OrderStore{client: client}
}

func (s *OrderStore) CreateOrder(ctx context.Context, fields models.NewOrder) (*models.Order, error) {
	row := map[string]any{
		FieldClient:  fields.Client,
		FieldDemande: fields.Demande,
		FieldEmail:   fields.Email,
		FieldStatus:  string(models.StatusGenerating),
	}
	if fields.Phone != "" {
		row[FieldPhone] = fields.Phone
	}
	if fields.Boutique != "" {
		row[FieldBoutique] = fields.Boutique
	}

	rec, err := s.client.CreateRecord(ctx, row)
	if err != nil {
		return nil, err
	}
	return decodeOrder(rec)
}

func (s *OrderStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	rec, err := s.client.GetRecord(ctx, id)
	if err != nil {
		return nil, wrapNotFound("failed to get order", id, err)
	}
	return decodeOrder(rec)
}

func (s *OrderStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	records, err := s.client.ListRecords(ctx)
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(records))
	for i := range records {
		o, err := decodeOrder(&records[i])
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (s *OrderStore) UpdateOrder(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", id, err)
	}

	if patch.Status != nil {
		current, err := s.GetOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		patch.KeepAdvancingStatus(current.Status)
		if patch.IsEmpty() {
			return current, nil
		}
	}

	row := map[string]any{}
	for i, url := range patch.Images {
		row[ImageField(i)] = attachments(url)
	}
	if patch.ImageCollection != nil {
		row[FieldImageCollection] = attachments(*patch.ImageCollection)
	}
	if patch.PDF != nil {
		row[FieldPDF] = attachments(*patch.PDF)
	}
	if patch.Status != nil {
		row[FieldStatus] = string(*patch.Status)
	}
	if patch.SelectedImage != nil {
		row[FieldSelectedImage] = *patch.SelectedImage + 1
	}

	rec, err := s.client.UpdateRecord(ctx, id, row)
	if err != nil {
		return nil, wrapNotFound("failed to update order", id, err)
	}
	return decodeOrder(rec)
}

func (s *OrderStore) DeleteOrder(ctx context.Context, id string) error {
	if err := s.client.DeleteRecord(ctx, id); err != nil {
		return wrapNotFound("failed to delete order", id, err)
	}
	return nil
}

func wrapNotFound(msg, id string, err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.NotFound() {
		return fmt.Errorf("%s %s: %w", msg, id, store.ErrNotFound)
	}
	return fmt.Errorf("%s %s: %w", msg, id, err)
}

func attachments(url string) []attachment {
	if url == "" {
		return []attachment{}
	}
	return []attachment{{URL: url}}
}

func decodeOrder(rec *Record) (*models.Order, error) {
	o := &models.Order{ID: rec.ID}

	if rec.CreatedTime != "" {
		created, err := time.Parse(time.RFC3339, rec.CreatedTime)
		if err != nil {
			return nil, fmt.Errorf("record %s: invalid createdTime: %w", rec.ID, err)
		}
		o.CreatedAt = created
	}

	o.Client = stringField(rec.Fields, FieldClient)
	o.Email = stringField(rec.Fields, FieldEmail)
	o.Demande = stringField(rec.Fields, FieldDemande)
	o.Phone = stringField(rec.Fields, FieldPhone)
	o.Boutique = stringField(rec.Fields, FieldBoutique)

	for i := 0; i < models.ImageSlotCount; i++ {
		o.Images[i] = attachmentField(rec.Fields, ImageField(i))
	}
	o.ImageCollection = attachmentField(rec.Fields, FieldImageCollection)
	o.PDF = attachmentField(rec.Fields, FieldPDF)

	o.Status = models.StatusGenerating
	if st, ok := models.ParseStatus(stringField(rec.Fields, FieldStatus)); ok {
		o.Status = st
	}

	if raw, ok := rec.Fields[FieldSelectedImage]; ok {
		var ordinal float64
		if err := json.Unmarshal(raw, &ordinal); err == nil && ordinal >= 1 && int(ordinal) <= models.ImageSlotCount {
			idx := int(ordinal) - 1
			o.SelectedImage = &idx
		}
	}

	return o, nil
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// attachmentField reads the first URL of an attachment field. Plain URL
// text fields are accepted as well.
func attachmentField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var list []attachment
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) > 0 {
			return list[0].URL
		}
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}
