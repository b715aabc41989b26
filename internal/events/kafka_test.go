package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"siva-proposals-backend/internal/events"
	"siva-proposals-backend/internal/models"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	pub := events.NewPublisher(w)

	order := &models.Order{
		ID:     "rec1",
		Status: models.StatusImagesReady,
		PDF:    "https://storage/orders/rec1/proposition.pdf",
	}
	at := time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC)
	require.NoError(t, pub.Publish(context.Background(), events.ForOrder(events.PDFStored, order, at)))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "rec1", string(msg.Key))
	assert.Equal(t, "type", msg.Headers[0].Key)
	assert.Equal(t, string(events.PDFStored), string(msg.Headers[0].Value))

	var ev events.Event
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, models.StatusPDFReady, ev.Status)
	assert.Equal(t, order.PDF, ev.PDFURL)
	assert.True(t, at.Equal(ev.At))

	require.NoError(t, pub.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteFailure(t *testing.T) {
	pub := events.NewPublisher(&fakeWriter{err: errors.New("broker down")})

	err := pub.Publish(context.Background(), events.Event{Type: events.OrderCreated, OrderID: "rec1"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "order.created")
}

func TestRecorder(t *testing.T) {
	rec := &events.Recorder{}
	_ = rec.Publish(context.Background(), events.Event{Type: events.OrderCreated})
	_ = rec.Publish(context.Background(), events.Event{Type: events.OrderDeleted})

	assert.Equal(t, []events.Type{events.OrderCreated, events.OrderDeleted}, rec.Types())
}
