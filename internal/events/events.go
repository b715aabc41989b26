package events

import (
	"context"
	"sync"
	"time"

	"siva-proposals-backend/internal/models"
)

type Type string

const (
	OrderCreated Type = "order.created"
	ImagesReady  Type = "order.images_ready"
	PDFStored    Type = "order.pdf_ready"
	ProposalSent Type = "order.sent"
	OrderDeleted Type = "order.deleted"
)

// Event is one order lifecycle transition.
type Event struct {
	Type           Type          `json:"type"`
	OrderID        string        `json:"orderId"`
	Status         models.Status `json:"status,omitempty"`
	At             time.Time     `json:"at"`
	PDFURL         string        `json:"pdfUrl,omitempty"`
	RecipientEmail string        `json:"recipientEmail,omitempty"`
}

// ForOrder builds an event carrying the order's current effective status.
func ForOrder(t Type, o *models.Order, at time.Time) Event {
	return Event{
		Type:    t,
		OrderID: o.ID,
		Status:  o.EffectiveStatus(),
		At:      at.UTC(),
		PDFURL:  o.PDF,
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(ctx context.Context, ev Event) error { return nil }

func (Nop) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(ctx context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types lists the recorded event types in publish order.
func (r *Recorder) Types() []Type {
	evs := r.Events()
	types := make([]Type, len(evs))
	for i, ev := range evs {
		types[i] = ev.Type
	}
	return types
}
