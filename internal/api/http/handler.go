package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/influxdata/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/oshokin/p1-alert/internal/display"
	domain "github.com/oshokin/p1-alert/internal/domain/alert"
	"github.com/oshokin/p1-alert/internal/logger"
	"github.com/oshokin/p1-alert/internal/metrics"
	"github.com/oshokin/p1-alert/internal/sound"
	"github.com/oshokin/p1-alert/internal/webhook"
)

// Route patterns.
const (
	routeIndex     = "/"
	routeStart     = "/start_event"
	routeStop      = "/stop_event"
	routeAlert     = "/alert"
	routeStatus    = "/status"
	routeMetrics   = "/metrics"
	maxPayloadSize = 1 << 20
)

// Producer accepts lifecycle events without blocking.
type Producer interface {
	Push(event domain.Event)
}

// StatusSource reports the lifecycle status.
type StatusSource interface {
	Snapshot() domain.Status
}

// BannerSource reports the banner state.
type BannerSource interface {
	Snapshot() display.Snapshot
}

// Options configures the handler.
type Options struct {
	// Port is echoed by the index route.
	Port string
	// AlertSound is played by /alert while an alert is already active.
	AlertSound string
	// RateLimit is the sustained request rate per second of each event kind;
	// zero disables limiting.
	RateLimit float64
	// RateBurst is the request burst of each event kind.
	RateBurst int
}

// Handler routes the webhook surface.
type Handler struct {
	router   *httprouter.Router
	producer Producer
	status   StatusSource
	banner   BannerSource
	player   sound.Player
	alertLog *webhook.AlertLog
	clock    clock.Clock
	opts     Options

	// Raise and Resolve draw from separate buckets so a raise storm
	// never starves /stop_event.
	raiseLimiter   *rate.Limiter
	resolveLimiter *rate.Limiter
}

// HandlerOption configures optional dependencies of the handler.
type HandlerOption func(*Handler)

// WithClock sets the clock used to stamp alert log records.
func WithClock(c clock.Clock) HandlerOption {
	return func(h *Handler) {
		h.clock = c
	}
}

// WithAlertLog sets the rotating alert log; without it records are discarded.
func WithAlertLog(l *webhook.AlertLog) HandlerOption {
	return func(h *Handler) {
		h.alertLog = l
	}
}

// WithPlayer sets the sound player used by /alert.
func WithPlayer(p sound.Player) HandlerOption {
	return func(h *Handler) {
		h.player = p
	}
}

// NewHandler creates the router with every route registered.
func NewHandler(producer Producer, status StatusSource, banner BannerSource, opts Options, options ...HandlerOption) *Handler {
	rateLimit := rate.Inf
	if opts.RateLimit > 0 {
		rateLimit = rate.Limit(opts.RateLimit)
	}

	burst := max(opts.RateBurst, 1)

	h := &Handler{
		router:         httprouter.New(),
		producer:       producer,
		status:         status,
		banner:         banner,
		clock:          clock.New(),
		opts:           opts,
		raiseLimiter:   rate.NewLimiter(rateLimit, burst),
		resolveLimiter: rate.NewLimiter(rateLimit, burst),
	}

	for _, option := range options {
		option(h)
	}

	h.router.PanicHandler = h.panicHandler

	h.router.HandlerFunc(http.MethodGet, routeIndex, h.observe(routeIndex, h.handleIndex))
	h.router.HandlerFunc(http.MethodGet, routeStart, h.observe(routeStart, limit(h.raiseLimiter, h.handleStart)))
	h.router.HandlerFunc(http.MethodGet, routeStop, h.observe(routeStop, limit(h.resolveLimiter, h.handleStop)))
	h.router.HandlerFunc(http.MethodPost, routeStop, h.observe(routeStop, limit(h.resolveLimiter, h.handleStop)))
	h.router.HandlerFunc(http.MethodPost, routeAlert, h.observe(routeAlert, h.handleAlert))
	h.router.HandlerFunc(http.MethodGet, routeStatus, h.observe(routeStatus, h.handleStatus))
	h.router.Handler(http.MethodGet, routeMetrics, promhttp.Handler())

	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "P1 alert service running on port "+h.opts.Port)
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	logger.Info(r.Context(), "Start event received")
	h.producer.Push(domain.Raise)
	writeText(w, http.StatusOK, "Event triggered")
}

func (h *Handler) handleStop(w http.ResponseWriter, r *http.Request) {
	logger.Info(r.Context(), "Stop event received")
	h.producer.Push(domain.Resolve)
	writeText(w, http.StatusOK, "Stopping banner")
}

// handleAlert records the vendor payload and raises. Unreadable or malformed
// bodies still raise with every detail missing. Above the raise rate the
// record and the sound are skipped but the Raise is still pushed.
func (h *Handler) handleAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadSize))
	if err != nil {
		logger.WarnKV(ctx, "Alert body read failed", "error", err)
	}

	payload := webhook.Parse(body)
	details := payload.Details

	logger.InfoKV(ctx, "Alert received",
		"alert_name", details.Name,
		"site", details.Site,
		"ticket", details.Ticket)

	if h.raiseLimiter.Allow() {
		h.alertLog.Append(ctx, webhook.FormatRecord(h.clock.Now(), payload))

		// The controller plays the alert sound when it opens a cycle,
		// so only repeated alerts are announced here.
		if h.status.Snapshot().Lifecycle == domain.Active {
			sound.PlayBestEffort(ctx, h.player, h.opts.AlertSound)
		}
	} else {
		logger.Warn(ctx, "Alert rate exceeded, record and sound skipped")
	}

	h.producer.Push(domain.Raise)
	w.WriteHeader(http.StatusOK)
}

// statusView is the JSON body of /status.
type statusView struct {
	Lifecycle   string           `json:"lifecycle"`
	Sequencer   string           `json:"sequencer"`
	Queued      int              `json:"queued"`
	HidePending bool             `json:"hide_pending"`
	ChangedAt   *time.Time       `json:"changed_at,omitempty"`
	Banner      display.Snapshot `json:"banner"`
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := h.status.Snapshot()

	view := statusView{
		Lifecycle:   st.Lifecycle.String(),
		Sequencer:   st.Sequencer.String(),
		Queued:      st.Queued,
		HidePending: st.HidePending,
		Banner:      h.banner.Snapshot(),
	}

	if !st.ChangedAt.IsZero() {
		changedAt := st.ChangedAt.UTC()
		view.ChangedAt = &changedAt
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(view); err != nil {
		logger.WarnKV(r.Context(), "Status encode failed", "error", err)
	}
}

// limit rejects requests above the limiter's rate with 429.
func limit(limiter *rate.Limiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			logger.WarnKV(r.Context(), "Producer request rate limited", "path", r.URL.Path)
			writeText(w, http.StatusTooManyRequests, "Too many requests")

			return
		}

		next(w, r)
	}
}

// observe names the request logger after the route and counts responses.
func (h *Handler) observe(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithKV(r.Context(), "route", route, "method", r.Method, "remote", r.RemoteAddr)
		recorder := &statusRecorder{ResponseWriter: w, code: http.StatusOK}

		next(recorder, r.WithContext(ctx))

		metrics.WebhookRequests.WithLabelValues(route, strconv.Itoa(recorder.code)).Inc()
	}
}

func (h *Handler) panicHandler(w http.ResponseWriter, r *http.Request, rcv any) {
	logger.ErrorKV(r.Context(), "Panic in HTTP handler", "path", r.URL.Path, "panic", fmt.Sprint(rcv))
	writeText(w, http.StatusInternalServerError, "Internal server error")
}

// statusRecorder captures the response code for metrics.
type statusRecorder struct {
	http.ResponseWriter

	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}

func writeText(w http.ResponseWriter, code int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, text)
}
