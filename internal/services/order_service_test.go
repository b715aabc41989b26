package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"siva-proposals-backend/internal/events"
	"siva-proposals-backend/internal/models"
	"siva-proposals-backend/internal/proposal"
	"siva-proposals-backend/internal/relay"
	"siva-proposals-backend/internal/services"
	"siva-proposals-backend/internal/store"
)

type fakeStorage struct {
	uploads map[string][]byte
	deleted []string
	err     error
}

func (f *fakeStorage) UploadProposal(orderID, filename string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	path := "orders/" + orderID + "/" + filename
	f.uploads[path] = data
	return "https://storage.test/" + path, nil
}

func (f *fakeStorage) DeleteOrderFiles(orderID string) error {
	f.deleted = append(f.deleted, orderID)
	return nil
}

type fixture struct {
	store   *store.MemoryStore
	relay   *relay.Recorder
	events  *events.Recorder
	storage *fakeStorage
	svc     *services.OrderService
}

var fixedNow = time.Date(2025, time.March, 4, 9, 30, 0, 0, time.UTC)

func newFixture(t *testing.T, withStorage bool) *fixture {
	t.Helper()
	f := &fixture{
		store:  store.NewMemoryStore(),
		relay:  relay.NewRecorder(),
		events: &events.Recorder{},
	}
	deps := services.Dependencies{
		Store:     f.store,
		Relay:     f.relay,
		Events:    f.events,
		Generator: proposal.NewGenerator(nil, proposal.WithClock(func() time.Time { return fixedNow })),
		Now:       func() time.Time { return fixedNow },
	}
	if withStorage {
		f.storage = &fakeStorage{}
		deps.Storage = f.storage
	}
	f.svc = services.NewOrderService(deps)
	return f
}

func (f *fixture) seed(t *testing.T, images models.ImageSlots) *models.Order {
	t.Helper()
	ctx := context.Background()
	order, err := f.store.CreateOrder(ctx, models.NewOrder{
		Client:  "Jeanne Dupont",
		Email:   "jeanne@example.com",
		Demande: "Bague solitaire, or blanc, diamant",
	})
	require.NoError(t, err)

	patch := models.OrderPatch{Images: map[int]string{}}
	for i, url := range images {
		if url != "" {
			patch.Images[i] = url
		}
	}
	order, err = f.store.UpdateOrder(ctx, order.ID, patch)
	require.NoError(t, err)
	return order
}

func TestOrderService_CreateTriggersImageGeneration(t *testing.T) {
	f := newFixture(t, false)

	res, err := f.svc.Create(context.Background(), models.NewOrder{
		Client:  "Jeanne Dupont",
		Email:   "jeanne@example.com",
		Demande: "Bague solitaire, or blanc, diamant",
	}, []string{"https://inspo/1.jpg"})
	require.NoError(t, err)

	assert.NotEmpty(t, res.Order.ID)
	assert.True(t, res.WebhookTriggered)

	calls := f.relay.Calls()
	require.Len(t, calls, 1)
	payload := calls[0].Payload.(relay.ImageGenerationPayload)
	assert.Equal(t, res.Order.ID, payload.OrderID)
	assert.Equal(t, "Bague solitaire, or blanc, diamant", payload.Demande)
	assert.Equal(t, []string{"https://inspo/1.jpg"}, payload.InspirationImages)
	assert.Equal(t, []events.Type{events.OrderCreated}, f.events.Types())
}

func TestOrderService_CreateKeepsOrderWhenRelayFails(t *testing.T) {
	f := newFixture(t, false)
	f.relay.Fail = "webhook URL not configured"

	res, err := f.svc.Create(context.Background(), models.NewOrder{Client: "Jeanne Dupont", Demande: "Bague"}, nil)
	require.NoError(t, err)
	assert.False(t, res.WebhookTriggered)

	stored, err := f.svc.Get(context.Background(), res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusGenerating, stored.EffectiveStatus())
}

func TestOrderService_EditImage(t *testing.T) {
	f := newFixture(t, false)
	order := f.seed(t, models.ImageSlots{"https://img/1.png", "https://img/2.png", "", ""})

	require.NoError(t, f.svc.EditImage(context.Background(), order.ID, 1, "Ajouter un saphir"))

	payload := f.relay.Calls()[0].Payload.(relay.ImageEditPayload)
	assert.Equal(t, "https://img/2.png", payload.CurrentImageURL)
	assert.Equal(t, "Ajouter un saphir", payload.EditInstruction)

	after, err := f.svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Images, after.Images)
}

func TestOrderService_EditImageErrors(t *testing.T) {
	f := newFixture(t, false)
	order := f.seed(t, models.ImageSlots{"https://img/1.png", "", "", ""})
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.EditImage(ctx, "recMissing", 0, "Ajouter un saphir"), store.ErrNotFound)
	assert.ErrorIs(t, f.svc.EditImage(ctx, order.ID, 2, "Ajouter un saphir"), models.ErrSlotEmpty)
	assert.ErrorIs(t, f.svc.EditImage(ctx, order.ID, 4, "Ajouter un saphir"), models.ErrSlotOutOfRange)

	f.relay.Fail = "boom"
	err := f.svc.EditImage(ctx, order.ID, 0, "Ajouter un saphir")
	assert.ErrorIs(t, err, services.ErrRelay)
	assert.False(t, errors.Is(err, store.ErrNotFound))
}

func TestOrderService_SendProposal(t *testing.T) {
	f := newFixture(t, false)
	order := f.seed(t, models.ImageSlots{"https://img/1.png", "", "", ""})
	ctx := context.Background()

	_, err := f.svc.SendProposal(ctx, order.ID, "jeanne@example.com")
	assert.ErrorIs(t, err, services.ErrNoPDF)

	_, err = f.store.UpdateOrder(ctx, order.ID, models.OrderPatch{PDF: models.StringPtr("https://storage.test/p.pdf")})
	require.NoError(t, err)

	f.relay.Fail = "smtp down"
	_, err = f.svc.SendProposal(ctx, order.ID, "jeanne@example.com")
	assert.ErrorIs(t, err, services.ErrRelay)
	unchanged, _ := f.svc.Get(ctx, order.ID)
	assert.Equal(t, models.StatusPDFReady, unchanged.EffectiveStatus())

	f.relay.Fail = ""
	sent, err := f.svc.SendProposal(ctx, order.ID, "jeanne@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSent, sent.EffectiveStatus())

	evs := f.events.Events()
	require.NotEmpty(t, evs)
	last := evs[len(evs)-1]
	assert.Equal(t, events.ProposalSent, last.Type)
	assert.Equal(t, "jeanne@example.com", last.RecipientEmail)
}

func TestOrderService_SendProposalMissingOrder(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.SendProposal(context.Background(), "recMissing", "jeanne@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, f.relay.Calls())
}

func TestOrderService_DeleteRemovesStoredProposals(t *testing.T) {
	f := newFixture(t, true)
	order := f.seed(t, models.ImageSlots{})

	require.NoError(t, f.svc.Delete(context.Background(), order.ID))

	_, err := f.svc.Get(context.Background(), order.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, []string{order.ID}, f.storage.deleted)
	assert.Contains(t, f.events.Types(), events.OrderDeleted)
}

func TestOrderService_ApplyRelayImages(t *testing.T) {
	f := newFixture(t, false)
	order := f.seed(t, models.ImageSlots{})

	updated, err := f.svc.ApplyRelayImages(context.Background(), models.RelayImagesCallback{
		OrderID: order.ID,
		Images:  []string{"https://img/1.png", "https://img/2.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusImagesReady, updated.EffectiveStatus())
	assert.Equal(t, 2, updated.Images.Count())

	_, err = f.svc.ApplyRelayImages(context.Background(), models.RelayImagesCallback{OrderID: order.ID})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}
