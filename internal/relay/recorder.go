package relay

import (
	"context"
	"encoding/json"
	"sync"
)

type Call struct {
	Trigger string
	Payload any
}

// Recorder is a Notifier that keeps every notification in memory instead of
// delivering it. It backs mock mode and handler tests.
type Recorder struct {
	mu    sync.Mutex
	calls []Call

	// Fail, when set, makes every notification fail with this reason.
	Fail string
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) GenerateImages(ctx context.Context, payload ImageGenerationPayload) Result {
	return r.record(TriggerImageGeneration, payload)
}

func (r *Recorder) EditImage(ctx context.Context, payload ImageEditPayload) Result {
	return r.record(TriggerImageEdit, payload)
}

func (r *Recorder) GeneratePDF(ctx context.Context, payload PDFGenerationPayload) Result {
	return r.record(TriggerPDFGeneration, payload)
}

func (r *Recorder) SendProposal(ctx context.Context, payload SendProposalPayload) Result {
	return r.record(TriggerSendProposal, payload)
}

func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *Recorder) record(trigger string, payload any) Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Trigger: trigger, Payload: payload})
	if r.Fail != "" {
		return failure(r.Fail)
	}
	return Result{Success: true, Data: json.RawMessage(`{"mock":true}`)}
}
