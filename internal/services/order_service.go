package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"siva-proposals-backend/internal/events"
	"siva-proposals-backend/internal/models"
	"siva-proposals-backend/internal/proposal"
	"siva-proposals-backend/internal/relay"
	"siva-proposals-backend/internal/store"
)

var (
	// ErrRelay wraps a failed relay notification that the caller must report.
	ErrRelay = errors.New("relay notification failed")
	// ErrNoPDF is returned when a proposal is sent before a PDF was stored.
	ErrNoPDF = errors.New("PDF not found for this order")
)

// ProposalStorage keeps generated proposal PDFs. *supabase.StorageClient
// satisfies it.
type ProposalStorage interface {
	UploadProposal(orderID, filename string, data []byte) (string, error)
	DeleteOrderFiles(orderID string) error
}

// OrderService drives the order lifecycle over the record store, the relay
// and the document generator.
type OrderService struct {
	store     store.OrderStore
	relay     relay.Notifier
	events    events.Publisher
	generator *proposal.Generator
	storage   ProposalStorage
	log       *zap.Logger
	now       func() time.Time
}

type Dependencies struct {
	Store     store.OrderStore
	Relay     relay.Notifier
	Events    events.Publisher
	Generator *proposal.Generator
	// Storage is optional; without it generated PDFs are not persisted.
	Storage ProposalStorage
	Logger  *zap.Logger
	Now     func() time.Time
}

func NewOrderService(deps Dependencies) *OrderService {
	s := &OrderService{
		store:     deps.Store,
		relay:     deps.Relay,
		events:    deps.Events,
		generator: deps.Generator,
		storage:   deps.Storage,
		log:       deps.Logger,
		now:       deps.Now,
	}
	if s.events == nil {
		s.events = events.Nop{}
	}
	if s.generator == nil {
		s.generator = proposal.NewGenerator(nil)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// CreateResult reports the new order and whether the image generator was
// reached. A relay failure never rolls back the order.
type CreateResult struct {
	Order            *models.Order
	WebhookTriggered bool
}

func (s *OrderService) Create(ctx context.Context, fields models.NewOrder, inspirationImages []string) (*CreateResult, error) {
	order, err := s.store.CreateOrder(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	s.log.Info("order created", zap.String("order_id", order.ID), zap.String("client", order.Client))
	s.publish(ctx, events.ForOrder(events.OrderCreated, order, s.now()))

	result := s.relay.GenerateImages(ctx, relay.ImageGenerationPayload{
		OrderID:           order.ID,
		Client:            order.Client,
		Email:             order.Email,
		Demande:           order.Demande,
		InspirationImages: inspirationImages,
	})
	if !result.Success {
		s.log.Warn("image generation relay failed",
			zap.String("order_id", order.ID),
			zap.String("reason", result.Error))
	}

	return &CreateResult{Order: order, WebhookTriggered: result.Success}, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	return s.store.GetOrder(ctx, id)
}

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	return s.store.ListOrders(ctx)
}

// Delete removes the order and, best effort, its stored proposals.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteOrder(ctx, id); err != nil {
		return err
	}
	if s.storage != nil {
		if err := s.storage.DeleteOrderFiles(id); err != nil {
			s.log.Warn("failed to delete stored proposals", zap.String("order_id", id), zap.Error(err))
		}
	}
	s.publish(ctx, events.Event{Type: events.OrderDeleted, OrderID: id, At: s.now().UTC()})
	s.log.Info("order deleted", zap.String("order_id", id))
	return nil
}

// EditImage forwards an edit instruction for a populated slot. The order is
// not changed locally; the relay overwrites the slot once the edit is done.
func (s *OrderService) EditImage(ctx context.Context, id string, index int, instruction string) error {
	if err := models.CheckSlot(index); err != nil {
		return err
	}

	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return err
	}

	current, err := order.Images.Get(index)
	if err != nil {
		return err
	}

	result := s.relay.EditImage(ctx, relay.ImageEditPayload{
		OrderID:         order.ID,
		ImageIndex:      index,
		EditInstruction: instruction,
		CurrentImageURL: current,
	})
	if !result.Success {
		return fmt.Errorf("%w: %s", ErrRelay, result.Error)
	}

	s.log.Info("image edit requested", zap.String("order_id", order.ID), zap.Int("image_index", index))
	return nil
}

// SendProposal asks the relay to email the stored PDF and marks the order
// sent. On relay failure the order is left untouched.
func (s *OrderService) SendProposal(ctx context.Context, id, recipient string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.PDF == "" {
		return nil, ErrNoPDF
	}

	result := s.relay.SendProposal(ctx, relay.SendProposalPayload{
		OrderID:        order.ID,
		RecipientEmail: recipient,
		ClientName:     order.Client,
		PDFURL:         order.PDF,
	})
	if !result.Success {
		return nil, fmt.Errorf("%w: %s", ErrRelay, result.Error)
	}

	updated, err := s.store.UpdateOrder(ctx, order.ID, models.OrderPatch{Status: models.StatusPtr(models.StatusSent)})
	if err != nil {
		return nil, fmt.Errorf("failed to mark order sent: %w", err)
	}

	ev := events.ForOrder(events.ProposalSent, updated, s.now())
	ev.RecipientEmail = recipient
	s.publish(ctx, ev)
	s.log.Info("proposal sent", zap.String("order_id", order.ID))
	return updated, nil
}

// ApplyRelayImages records images delivered by the relay callback.
func (s *OrderService) ApplyRelayImages(ctx context.Context, cb models.RelayImagesCallback) (*models.Order, error) {
	patch, err := cb.Patch()
	if err != nil {
		return nil, &models.ValidationError{Problems: []string{err.Error()}}
	}

	order, err := s.store.UpdateOrder(ctx, cb.OrderID, patch)
	if err != nil {
		return nil, err
	}

	s.log.Info("relay images recorded", zap.String("order_id", order.ID), zap.Int("images", order.Images.Count()))
	s.publish(ctx, events.ForOrder(events.ImagesReady, order, s.now()))
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, ev events.Event) {
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("failed to publish event",
			zap.String("order_id", ev.OrderID),
			zap.String("type", string(ev.Type)),
			zap.Error(err))
	}
}
