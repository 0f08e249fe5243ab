package errors

import (
	stderrors "errors"
	"fmt"
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

func TestBotErrorMatchesKind(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := fmt.Errorf("poll guild 1: %w", New(ErrFetchFailed, "feed.Fetch", cause))

	assert.True(t, Is(err, ErrFetchFailed))
	assert.False(t, Is(err, ErrStoreUnavailable))
	assert.True(t, Is(err, cause), "the cause must stay reachable through Unwrap")
	assert.Equal(t, ErrFetchFailed, KindOf(err))

	var be *BotError
	require.True(t, As(err, &be))
	assert.Equal(t, "feed.Fetch", be.Op)
	assert.Equal(t, "feed.Fetch: fetch failed: connection refused", be.Error())
}

func TestKindOfPlainError(t *testing.T) {
	assert.Nil(t, KindOf(stderrors.New("boom")))
	assert.Nil(t, KindOf(nil))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"permission", New(ErrPermissionDenied, "kick", nil), "❌ You don't have permission to use this command."},
		{"not configured with cause", Newf(ErrNotConfigured, "report", "No report channel is set."), "⚙️ No report channel is set."},
		{"not configured bare", ErrNotConfigured, "⚙️ This feature is not configured on this server."},
		{"external", New(ErrExternalActionFailed, "ban", stderrors.New("Missing Permissions")), "❌ Discord rejected the action: Missing Permissions"},
		{"invalid", Newf(ErrInvalidArgument, "set-channel", "unknown role %q", "foo"), "❌ unknown role \"foo\""},
		{"store", New(ErrStoreUnavailable, "GetChannel", nil), "❌ The database is unavailable right now. Try again later."},
		{"unknown", stderrors.New("boom"), "❌ Something went wrong."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestTrackSkipsKindedErrors(t *testing.T) {
	h := NewErrorHandler("", nil)
	defer h.Stop()

	h.Track(New(ErrInvalidArgument, "set-birthday", nil), "TEST")
	h.Track(New(ErrPermissionDenied, "ban", nil), "TEST")
	h.Track(New(ErrNotConfigured, "report", nil), "TEST")
	h.Track(New(ErrExternalActionFailed, "kick", nil), "TEST")
	h.Track(New(ErrStoreUnavailable, "warn", nil), "TEST")
	h.Track(fmt.Errorf("poll: %w", New(ErrFetchFailed, "feed.Fetch", nil)), "TEST")
	h.Track(nil, "TEST")
	assert.Equal(t, int32(0), h.ErrorCount())

	h.Track(stderrors.New("unexpected"), "TEST")
	assert.LessOrEqual(t, h.ErrorCount(), int32(1))
}

func TestKindedErrorStormDoesNotExit(t *testing.T) {
	h := &ErrorHandler{
		stopChan:      make(chan struct{}),
		client:        &http.Client{Timeout: time.Second},
		maxErrors:     15,
		resetInterval: time.Hour,
		checkInterval: 10 * time.Millisecond,
	}
	var exited atomic.Bool
	h.exitFunc = func(int) { exited.Store(true) }
	h.start()
	defer h.Stop()

	for i := 0; i < 20; i++ {
		h.Track(Newf(ErrNotConfigured, "report", "no report channel in guild %d", i), "TEST")
	}
	time.Sleep(100 * time.Millisecond)
	assert.False(t, exited.Load())
	assert.Equal(t, int32(0), h.ErrorCount())
}

func TestUnexpectedErrorStormExits(t *testing.T) {
	h := &ErrorHandler{
		stopChan:      make(chan struct{}),
		client:        &http.Client{Timeout: time.Second},
		maxErrors:     15,
		resetInterval: time.Hour,
		checkInterval: 10 * time.Millisecond,
	}
	exited := make(chan int, 1)
	shutdown := make(chan struct{}, 1)
	h.exitFunc = func(code int) { exited <- code }
	h.shutdownFunc = func() { shutdown <- struct{}{} }
	h.start()
	defer h.Stop()

	for i := 0; i < 20; i++ {
		h.Track(stderrors.New("boom"), "TEST")
	}

	select {
	case code := <-exited:
		assert.Equal(t, 1, code)
	case <-time.After(2 * time.Second):
		t.Fatal("error storm did not exit")
	}
	assert.Len(t, shutdown, 1)
}

func TestRecoverMiddleware(t *testing.T) {
	assert.NotPanics(t, func() {
		defer RecoverMiddleware()()
		panic("handler exploded")
	})
}

func TestReportSendsEmbed(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	h := NewErrorHandler(srv.URL, nil)
	defer h.Stop()

	h.Report(ReportErrorOptions{Error: "Test", Message: "something broke"})

	require.NotNil(t, body)
	embeds, ok := body["embeds"].([]interface{})
	require.True(t, ok)
	require.Len(t, embeds, 1)
	embed := embeds[0].(map[string]interface{})
	assert.Equal(t, "something broke", embed["description"])
}

func TestStopIsIdempotent(t *testing.T) {
	h := NewErrorHandler("", nil)
	h.Stop()
	assert.NotPanics(t, h.Stop)
}
