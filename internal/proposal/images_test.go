package proposal_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"siva-proposals-backend/internal/proposal"
)

func TestRetryWithBackoff(t *testing.T) {
	callCount := 0
	err := proposal.RetryWithBackoff(context.Background(), func() error {
		callCount++
		if callCount < 3 {
			return assert.AnError
		}
		return nil
	}, 3, []time.Duration{time.Millisecond})

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
}

func TestRetryWithBackoff_Exhausted(t *testing.T) {
	err := proposal.RetryWithBackoff(context.Background(), func() error {
		return assert.AnError
	}, 3, nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 3 retries")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := proposal.RetryWithBackoff(ctx, func() error {
		calls++
		return assert.AnError
	}, 5, []time.Duration{time.Hour})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestImageFetcher_RetriesThenFails(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	fetcher := proposal.NewImageFetcher(time.Second, 2).WithBackoffs(time.Millisecond)
	_, err := fetcher.Fetch(context.Background(), srv.URL+"/img.png")

	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestImageFetcher_RejectsUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not an image</html>"))
	}))
	defer srv.Close()

	fetcher := proposal.NewImageFetcher(time.Second, 1)
	_, err := fetcher.Fetch(context.Background(), srv.URL)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode image")
}
