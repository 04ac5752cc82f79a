package http

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/p1-alert/internal/display"
	domain "github.com/oshokin/p1-alert/internal/domain/alert"
	"github.com/oshokin/p1-alert/internal/webhook"
)

// fakeProducer records pushed events.
type fakeProducer struct {
	mu     sync.Mutex
	events []domain.Event
}

func (f *fakeProducer) Push(event domain.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, event)
}

func (f *fakeProducer) Events() []domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]domain.Event(nil), f.events...)
}

// fakeStatus returns a fixed status.
type fakeStatus struct {
	status domain.Status
}

func (f *fakeStatus) Snapshot() domain.Status { return f.status }

// fakeBanner returns a fixed banner snapshot.
type fakeBanner struct {
	snapshot display.Snapshot
}

func (f *fakeBanner) Snapshot() display.Snapshot { return f.snapshot }

// fakePlayer records played resources.
type fakePlayer struct {
	mu     sync.Mutex
	played []string
}

func (f *fakePlayer) Play(_ context.Context, resource string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.played = append(f.played, resource)

	return nil
}

func (f *fakePlayer) Played() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.played...)
}

type harness struct {
	handler  *Handler
	producer *fakeProducer
	status   *fakeStatus
	player   *fakePlayer
}

func newHarness(t *testing.T, opts Options, options ...HandlerOption) *harness {
	t.Helper()

	h := &harness{
		producer: new(fakeProducer),
		status:   new(fakeStatus),
		player:   new(fakePlayer),
	}

	banner := &fakeBanner{snapshot: display.Snapshot{Visible: true, Text: "P1!", Color: display.AlertBright.String(), Blinking: true}}

	options = append([]HandlerOption{WithPlayer(h.player)}, options...)
	h.handler = NewHandler(h.producer, h.status, banner, opts, options...)

	return h
}

func (h *harness) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	return rec
}

// TestHandler_Routes checks the plain-text producer routes and their events.
func TestHandler_Routes(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{Port: "5002"})

	rec := h.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "P1 alert service running on port 5002", rec.Body.String())

	rec = h.do(http.MethodGet, "/start_event", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Event triggered", rec.Body.String())

	rec = h.do(http.MethodGet, "/stop_event", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Stopping banner", rec.Body.String())

	rec = h.do(http.MethodPost, "/stop_event", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodDelete, "/stop_event", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	require.Equal(t, []domain.Event{domain.Raise, domain.Resolve, domain.Resolve}, h.producer.Events())
}

// TestHandler_AlertMissingAlertName still raises and records the sentinel.
func TestHandler_AlertMissingAlertName(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "alert-debug.log")
	mock := clock.NewMock()
	mock.Set(time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC))

	alertLog, err := webhook.OpenAlertLog(path, mock)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = alertLog.Close()
	})

	h := newHarness(t, Options{AlertSound: "P1.wav"}, WithAlertLog(alertLog), WithClock(mock))

	body := `{"alerts":[{"labels":{},"valueString":"[ var='B' labels={School=North High} value=1 ]","values":{"B0":4711}}]}`

	rec := h.do(http.MethodPost, "/alert", body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String())
	require.Equal(t, []domain.Event{domain.Raise}, h.producer.Events())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), "Alert Name: "+domain.MissingData)
	require.Contains(t, string(contents), "School: North High")
	require.Contains(t, string(contents), "Ticket: #4711")

	// Resolved: the controller announces the new cycle, not the handler.
	require.Empty(t, h.player.Played())
}

// TestHandler_AlertMalformedBody raises even when the body is not JSON.
func TestHandler_AlertMalformedBody(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})

	rec := h.do(http.MethodPost, "/alert", "{not json")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []domain.Event{domain.Raise}, h.producer.Events())
}

// TestHandler_AlertWhileActivePlaysSound announces repeated alerts.
func TestHandler_AlertWhileActivePlaysSound(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{AlertSound: "P1.wav"})
	h.status.status.Lifecycle = domain.Active

	rec := h.do(http.MethodPost, "/alert", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"P1.wav"}, h.player.Played())
}

// TestHandler_RateLimit rejects start and stop requests above the burst with 429.
func TestHandler_RateLimit(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{RateLimit: 0.001, RateBurst: 2})

	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/start_event", "").Code)
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/start_event", "").Code)
	require.Equal(t, http.StatusTooManyRequests, h.do(http.MethodGet, "/start_event", "").Code)

	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/stop_event", "").Code)
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/stop_event", "").Code)
	require.Equal(t, http.StatusTooManyRequests, h.do(http.MethodGet, "/stop_event", "").Code)

	// Read-only routes are not limited.
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/status", "").Code)
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/", "").Code)

	require.Equal(t, []domain.Event{domain.Raise, domain.Raise, domain.Resolve, domain.Resolve}, h.producer.Events())
}

// TestHandler_StopAfterRaiseBurst pushes Resolve even when raises used up their bucket.
func TestHandler_StopAfterRaiseBurst(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{RateLimit: 0.001, RateBurst: 10})

	for range 10 {
		require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/start_event", "").Code)
	}

	require.Equal(t, http.StatusTooManyRequests, h.do(http.MethodGet, "/start_event", "").Code)

	rec := h.do(http.MethodPost, "/stop_event", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Stopping banner", rec.Body.String())

	events := h.producer.Events()
	require.Len(t, events, 11)
	require.Equal(t, domain.Resolve, events[len(events)-1])
}

// TestHandler_AlertAboveRateStillRaises never rejects /alert and skips the record and sound.
func TestHandler_AlertAboveRateStillRaises(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "alert-debug.log")

	alertLog, err := webhook.OpenAlertLog(path, clock.NewMock())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = alertLog.Close()
	})

	h := newHarness(t, Options{AlertSound: "P1.wav", RateLimit: 0.001, RateBurst: 1}, WithAlertLog(alertLog))
	h.status.status.Lifecycle = domain.Active

	body := `{"alerts":[{"labels":{"alertname":"Disk full"}}]}`

	for range 3 {
		rec := h.do(http.MethodPost, "/alert", body)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	require.Equal(t, []domain.Event{domain.Raise, domain.Raise, domain.Raise}, h.producer.Events())
	require.Equal(t, []string{"P1.wav"}, h.player.Played())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(contents), "Alert Name: Disk full"))

	// /start_event shares the raise bucket, /stop_event does not.
	require.Equal(t, http.StatusTooManyRequests, h.do(http.MethodGet, "/start_event", "").Code)
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/stop_event", "").Code)
}

// TestHandler_Status renders the controller and banner snapshots.
func TestHandler_Status(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.status.status = domain.Status{
		Lifecycle: domain.Active,
		Sequencer: domain.SequencerPhaseTwo,
		Queued:    1,
		ChangedAt: time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC),
	}

	rec := h.do(http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "active", got["lifecycle"])
	require.Equal(t, "phase_two", got["sequencer"])
	require.InDelta(t, 1, got["queued"], 0)
	require.Equal(t, false, got["hide_pending"])
	require.Equal(t, "2026-10-15T09:30:00Z", got["changed_at"])

	banner, ok := got["banner"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, true, banner["visible"])
	require.Equal(t, "P1!", banner["text"])
	require.Equal(t, "#ff0000ff", banner["color"])
}

// TestHandler_Metrics exposes the Prometheus registry.
func TestHandler_Metrics(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Options{})
	h.do(http.MethodGet, "/start_event", "")

	rec := h.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "p1alert_http_requests_total")
}

// TestServer_ServeAndShutdown serves requests and stops when the context ends.
func TestServer_ServeAndShutdown(t *testing.T) {
	t.Parallel()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	h := newHarness(t, Options{Port: "0"})
	srv := NewServer(h.handler, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- srv.Serve(ctx, lis)
	}()

	resp, err := http.Get("http://" + lis.Addr().String() + "/start_event") //nolint:noctx // Test request.
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	require.Equal(t, []domain.Event{domain.Raise}, h.producer.Events())
}
