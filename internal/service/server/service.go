package server

import (
	"context"

	"github.com/benbjohnson/clock"

	webhookapi "github.com/oshokin/p1-alert/internal/api/http"
	"github.com/oshokin/p1-alert/internal/config"
	"github.com/oshokin/p1-alert/internal/controller"
	"github.com/oshokin/p1-alert/internal/display"
	domain "github.com/oshokin/p1-alert/internal/domain/alert"
	"github.com/oshokin/p1-alert/internal/indicator"
	"github.com/oshokin/p1-alert/internal/logger"
	"github.com/oshokin/p1-alert/internal/queue"
	"github.com/oshokin/p1-alert/internal/sequencer"
	"github.com/oshokin/p1-alert/internal/sound"
	"github.com/oshokin/p1-alert/internal/webhook"
)

// application holds the wired components of one service run.
type application struct {
	queue      *queue.EventQueue
	banner     *display.Banner
	sequencer  *sequencer.Sequencer
	controller *controller.Controller
	alertLog   *webhook.AlertLog
	handler    *webhookapi.Handler
	control    *controlService
}

// newApplication builds every component from settings.
func newApplication(ctx context.Context, settings *config.Config, clk clock.Clock) *application {
	panel := indicator.NewPair(
		indicator.NewLED("a", settings.Indicators.A.Dir, settings.Indicators.A.DefaultTrigger),
		indicator.NewLED("b", settings.Indicators.B.Dir, settings.Indicators.B.DefaultTrigger),
	)

	app := &application{
		queue:     queue.New(),
		banner:    display.NewBanner(settings.AlertMessage, display.WithClock(clk)),
		sequencer: sequencer.New(panel, sequencer.WithClock(clk)),
	}

	player := sound.NewCommandPlayer(settings.SoundPlayer)

	app.controller = controller.New(app.queue, app.sequencer, app.banner, player, controller.Options{
		AlertMessage:    settings.AlertMessage,
		ResolvedMessage: settings.ResolvedMessage,
		AlertSound:      settings.AlertSound,
		ResolvedSound:   settings.ResolvedSound,
		Pattern:         sequencer.PatternP1,
		PollInterval:    settings.PollInterval,
		HideDelay:       settings.HideDelay,
	}, controller.WithClock(clk))

	if settings.AlertLog != "" {
		alertLog, err := webhook.OpenAlertLog(settings.AlertLog, clk)
		if err != nil {
			logger.WarnKV(ctx, "Alert log unavailable, records are discarded", "path", settings.AlertLog, "error", err)
		} else {
			app.alertLog = alertLog
		}
	}

	app.handler = webhookapi.NewHandler(app.queue, app.controller, app.banner, webhookapi.Options{
		Port:       settings.ListenPort(),
		AlertSound: settings.AlertSound,
		RateLimit:  settings.RateLimit,
		RateBurst:  settings.RateBurst,
	},
		webhookapi.WithClock(clk),
		webhookapi.WithAlertLog(app.alertLog),
		webhookapi.WithPlayer(player),
	)

	app.control = &controlService{
		queue:  app.queue,
		status: app.controller,
	}

	return app
}

// close releases resources that outlive the servers.
func (a *application) close(ctx context.Context) {
	if err := a.alertLog.Close(); err != nil {
		logger.WarnKV(ctx, "Alert log close failed", "error", err)
	}
}

// eventProducer is the producer side of the queue.
type eventProducer interface {
	Push(event domain.Event)
}

// statusSource reports the lifecycle status.
type statusSource interface {
	Snapshot() domain.Status
}

// controlService implements the gRPC control Service on top of the queue.
// Events go through the queue like webhook events; callers poll GetState
// to see them applied.
type controlService struct {
	// queue receives submitted events.
	queue eventProducer
	// status reports the current lifecycle.
	status statusSource
}

// Submit queues event and returns the status as of now.
func (s *controlService) Submit(ctx context.Context, actor *domain.Actor, event domain.Event) (domain.Status, error) {
	s.queue.Push(event)

	logger.InfoKV(ctx, "Control event queued", "event", event.String(), "actor", actor.String())

	return s.status.Snapshot(), nil
}

// Status returns the current lifecycle status.
func (s *controlService) Status(context.Context) domain.Status {
	return s.status.Snapshot()
}
