package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"siva-proposals-backend/internal/events"
	"siva-proposals-backend/internal/models"
	"siva-proposals-backend/internal/proposal"
	"siva-proposals-backend/internal/relay"
)

// Rendered is a generated proposal document.
type Rendered struct {
	Order    *models.Order
	Filename string
	PDF      []byte
}

// Render resolves the selected slot and builds the proposal PDF without
// touching the order.
func (s *OrderService) Render(ctx context.Context, id string, index int) (*Rendered, error) {
	if err := models.CheckSlot(index); err != nil {
		return nil, err
	}

	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	sel, err := order.Images.Select(index)
	if err != nil {
		return nil, err
	}

	pdf, err := s.generator.Generate(ctx, proposal.NewData(order, sel))
	if err != nil {
		return nil, fmt.Errorf("failed to generate proposal: %w", err)
	}

	return &Rendered{
		Order:    order,
		Filename: proposal.Filename(order.Client, s.now()),
		PDF:      pdf,
	}, nil
}

// Published reports what PublishProposal achieved.
type Published struct {
	Order         *models.Order
	Filename      string
	PDFURL        string
	RelayNotified bool
}

// PublishProposal renders the proposal, stores it when storage is
// configured, records the selection on the order and notifies the relay.
// Without storage only the selection is recorded and the relay is expected
// to produce the PDF.
func (s *OrderService) PublishProposal(ctx context.Context, id string, index int) (*Published, error) {
	doc, err := s.Render(ctx, id, index)
	if err != nil {
		return nil, err
	}
	s.log.Info("proposal generated",
		zap.String("order_id", doc.Order.ID),
		zap.String("filename", doc.Filename),
		zap.Int("size", len(doc.PDF)))

	patch := models.OrderPatch{SelectedImage: models.IntPtr(index)}

	var pdfURL string
	if s.storage != nil {
		pdfURL, err = s.storage.UploadProposal(doc.Order.ID, doc.Filename, doc.PDF)
		if err != nil {
			return nil, fmt.Errorf("failed to store proposal: %w", err)
		}
		patch.PDF = models.StringPtr(pdfURL)
		patch.Status = models.StatusPtr(models.StatusPDFReady)
	}

	order, err := s.store.UpdateOrder(ctx, doc.Order.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to record proposal: %w", err)
	}
	if pdfURL != "" {
		s.publish(ctx, events.ForOrder(events.PDFStored, order, s.now()))
	}

	result := s.relay.GeneratePDF(ctx, relay.PDFGenerationPayload{
		OrderID:            order.ID,
		SelectedImageIndex: index,
		ClientData: relay.ClientData{
			Name:  order.Client,
			Email: order.Email,
		},
		PDFURL: pdfURL,
	})
	if !result.Success {
		s.log.Warn("pdf generation relay failed",
			zap.String("order_id", order.ID),
			zap.String("reason", result.Error))
	}

	return &Published{
		Order:         order,
		Filename:      doc.Filename,
		PDFURL:        pdfURL,
		RelayNotified: result.Success,
	}, nil
}
