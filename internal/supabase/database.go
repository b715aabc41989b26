package supabase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
	"siva-proposals-backend/internal/models"
	"siva-proposals-backend/internal/store"
)

type orderRow struct {
	ID              string    `json:"id"`
	Client          string    `json:"client"`
	Email           string    `json:"email"`
	Demande         string    `json:"demande"`
	Phone           *string   `json:"phone"`
	Boutique        *string   `json:"boutique"`
	Image1          *string   `json:"image_1"`
	Image2          *string   `json:"image_2"`
	Image3          *string   `json:"image_3"`
	Image4          *string   `json:"image_4"`
	ImageCollection *string   `json:"image_collection"`
	PDF             *string   `json:"pdf"`
	Status          string    `json:"status"`
	SelectedImage   *int      `json:"selected_image"`
	CreatedAt       time.Time `json:"created_at"`
}

func imageColumn(index int) string {
	return fmt.Sprintf("image_%d", index+1)
}

// DatabaseClient stores orders in a Supabase table through PostgREST.
type DatabaseClient struct {
	client *supabase.Client
	table  string
}

func NewDatabaseClient(client *Client) *DatabaseClient {
	return &DatabaseClient{
		client: client.Supabase,
		table:  client.Config.SupabaseOrdersTable,
	}
}

func (d *DatabaseClient) CreateOrder(ctx context.Context, fields models.NewOrder) (*models.Order, error) {
	row := map[string]any{
		"client":  fields.Client,
		"email":   fields.Email,
		"demande": fields.Demande,
		"status":  string(models.StatusGenerating),
	}
	if fields.Phone != "" {
		row["phone"] = fields.Phone
	}
	if fields.Boutique != "" {
		row["boutique"] = fields.Boutique
	}

	var rows []orderRow
	_, err := d.client.From(d.table).Insert(row, false, "", "representation", "").ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to create order: no row returned")
	}
	return rows[0].toOrder(), nil
}

func (d *DatabaseClient) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", id, store.ErrNotFound)
	}

	var rows []orderRow
	_, err := d.client.From(d.table).Select("*", "", false).Eq("id", id).ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to get order %s: %w", id, store.ErrNotFound)
	}
	return rows[0].toOrder(), nil
}

func (d *DatabaseClient) ListOrders(ctx context.Context) ([]models.Order, error) {
	var rows []orderRow
	_, err := d.client.From(d.table).
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]models.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].toOrder()
	}
	return orders, nil
}

func (d *DatabaseClient) UpdateOrder(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", id, store.ErrNotFound)
	}
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", id, err)
	}

	if patch.Status != nil {
		current, err := d.GetOrder(ctx, id)
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
		row[imageColumn(i)] = nullable(url)
	}
	if patch.ImageCollection != nil {
		row["image_collection"] = nullable(*patch.ImageCollection)
	}
	if patch.PDF != nil {
		row["pdf"] = nullable(*patch.PDF)
	}
	if patch.Status != nil {
		row["status"] = string(*patch.Status)
	}
	if patch.SelectedImage != nil {
		row["selected_image"] = *patch.SelectedImage
	}

	var rows []orderRow
	_, err := d.client.From(d.table).Update(row, "representation", "").Eq("id", id).ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to update order %s: %w", id, store.ErrNotFound)
	}
	return rows[0].toOrder(), nil
}

func (d *DatabaseClient) DeleteOrder(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, store.ErrNotFound)
	}

	var rows []orderRow
	_, err := d.client.From(d.table).Delete("representation", "").Eq("id", id).ExecuteTo(&rows)
	if err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("failed to delete order %s: %w", id, store.ErrNotFound)
	}
	return nil
}

func (r *orderRow) toOrder() *models.Order {
	o := &models.Order{
		ID:              r.ID,
		Client:          r.Client,
		Email:           r.Email,
		Demande:         r.Demande,
		Phone:           deref(r.Phone),
		Boutique:        deref(r.Boutique),
		Images:          models.ImageSlots{deref(r.Image1), deref(r.Image2), deref(r.Image3), deref(r.Image4)},
		ImageCollection: deref(r.ImageCollection),
		PDF:             deref(r.PDF),
		Status:          models.StatusGenerating,
		CreatedAt:       r.CreatedAt,
	}
	if st, ok := models.ParseStatus(r.Status); ok {
		o.Status = st
	}
	if r.SelectedImage != nil && models.CheckSlot(*r.SelectedImage) == nil {
		idx := *r.SelectedImage
		o.SelectedImage = &idx
	}
	return o
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
