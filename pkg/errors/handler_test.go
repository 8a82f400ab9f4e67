package errors

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverMiddlewareCountsPanics(t *testing.T) {
	h := NewErrorHandler("", nil, Options{ResetInterval: time.Hour, CheckInterval: time.Hour})
	defer h.Stop()

	prev := handler
	handler = h
	defer func() { handler = prev }()

	func() {
		defer RecoverMiddleware()()
		panic("boom")
	}()

	assert.EqualValues(t, 1, h.TotalErrors())
}

func TestRecoverWithoutHandler(t *testing.T) {
	prev := handler
	handler = nil
	defer func() { handler = prev }()

	assert.NotPanics(t, func() {
		defer RecoverMiddleware()()
		panic("sin handler")
	})
}

func TestBurstTriggersShutdown(t *testing.T) {
	var shutdowns, exits atomic.Int32
	h := NewErrorHandler("", func() { shutdowns.Add(1) }, Options{
		MaxErrors:     2,
		ResetInterval: time.Hour,
		CheckInterval: 5 * time.Millisecond,
		Exit:          func(int) { exits.Add(1) },
	})
	defer h.Stop()

	for i := 0; i < 3; i++ {
		h.IncrementError()
	}

	assert.Eventually(t, func() bool { return exits.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.EqualValues(t, 1, shutdowns.Load())
}

func TestResetClearsBurst(t *testing.T) {
	var exits atomic.Int32
	h := NewErrorHandler("", nil, Options{
		MaxErrors:     1,
		ResetInterval: 5 * time.Millisecond,
		CheckInterval: time.Hour,
		Exit:          func(int) { exits.Add(1) },
	})
	defer h.Stop()

	h.IncrementError()
	h.IncrementError()
	assert.Eventually(t, func() bool { return h.errorCount.Load() == 0 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, exits.Load())
	assert.EqualValues(t, 2, h.TotalErrors())
}

func TestReportPostsEmbed(t *testing.T) {
	received := make(chan map[string]any, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		_ = json.Unmarshal(body, &payload)
		received <- payload
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	h := NewErrorHandler(srv.URL, nil, Options{ResetInterval: time.Hour, CheckInterval: time.Hour})
	defer h.Stop()

	h.Report(ReportErrorOptions{Error: "Store", Message: "disco lleno"})

	select {
	case payload := <-received:
		embeds, ok := payload["embeds"].([]any)
		require.True(t, ok)
		require.Len(t, embeds, 1)
		embed := embeds[0].(map[string]any)
		assert.Equal(t, "disco lleno", embed["description"])
	case <-time.After(2 * time.Second):
		t.Fatal("webhook not called")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	h := NewErrorHandler("", nil, Options{})
	h.Stop()
	assert.NotPanics(t, h.Stop)
}
