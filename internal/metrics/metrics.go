package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Collectors are process-wide by nature.
var (
	// EventsPushed counts lifecycle events accepted by the queue, by event.
	EventsPushed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "p1alert_queue_events_pushed_total",
			Help: "Total lifecycle events pushed to the queue by event.",
		},
		[]string{"event"},
	)
	// EventsCoalesced counts queued events discarded by a drain.
	EventsCoalesced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "p1alert_queue_events_coalesced_total",
			Help: "Total queued events discarded because a newer drain collapsed them.",
		},
	)
	// QueueDepth reports the number of events waiting for the consumer.
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "p1alert_queue_depth",
			Help: "Number of lifecycle events waiting for the controller.",
		},
	)
	// Transitions counts controller state transitions by target state.
	Transitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "p1alert_lifecycle_transitions_total",
			Help: "Total alert lifecycle transitions by target state.",
		},
		[]string{"state"},
	)
	// IgnoredEvents counts events that did not change the lifecycle state.
	IgnoredEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "p1alert_lifecycle_ignored_events_total",
			Help: "Total lifecycle events ignored because the state already matched.",
		},
		[]string{"event"},
	)
	// IndicatorWriteFailures counts failed indicator writes by indicator name.
	IndicatorWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "p1alert_indicator_write_failures_total",
			Help: "Total failed indicator writes by indicator.",
		},
		[]string{"indicator"},
	)
	// SoundFailures counts sounds that could not be played.
	SoundFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "p1alert_sound_failures_total",
			Help: "Total sound playbacks that failed to start.",
		},
	)
	// WebhookRequests counts HTTP producer requests by route and status code.
	WebhookRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "p1alert_http_requests_total",
			Help: "Total HTTP requests handled by route and status code.",
		},
		[]string{"route", "code"},
	)
	// ControlRequests counts gRPC control requests by method and status code.
	ControlRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "p1alert_grpc_requests_total",
			Help: "Total gRPC control requests handled by method and status code.",
		},
		[]string{"method", "code"},
	)
)
