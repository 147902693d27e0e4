package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go-yob/internal/bot"
	"go-yob/internal/commands"
	"go-yob/internal/dispatcher"
	"go-yob/internal/ingest"
	"go-yob/internal/logging"
	"go-yob/internal/metrics"
	"go-yob/internal/models"
	"go-yob/internal/records"
	"go-yob/internal/state"
	"go-yob/internal/watchdog"
)

const consumerComponent = "event_consumer"

type Components struct {
	Session     *bot.Session
	Queue       *ingest.Queue
	Router      *bot.Router
	Gate        *dispatcher.Gate
	Interpreter *commands.Interpreter
	Destination *state.LogDestination
	HTTPPool    *dispatcher.HTTPPool

	Metrics  *metrics.MetricsRegistry
	Reporter *metrics.Reporter
	Watchdog *watchdog.Watchdog
}

func Wire(b *Bootstrap) error {
	logging.Info("Wiring components...")
	cfg := b.Config

	session, err := bot.New(cfg.Bot)
	if err != nil {
		return err
	}

	registry := metrics.NewMetricsRegistry()
	destination := state.NewLogDestination()

	httpPool := dispatcher.NewHTTPPool(cfg.Network)
	fetcher := dispatcher.NewAttachmentFetcher(httpPool, time.Duration(cfg.Network.ReadTimeoutMS)*time.Millisecond)
	gate := dispatcher.NewGate(session, destination, fetcher, registry)

	builder := records.NewBuilder(session)
	interpreter := commands.NewInterpreter(cfg.Bot.Prefix, destination, session, builder, gate, registry)
	router := bot.NewRouter(interpreter, builder, gate, registry)
	wd := watchdog.NewWatchdog(5 * time.Second)
	queue := ingest.NewQueue(cfg.Runtime.QueueSize, func(ctx context.Context, ev *models.ChangeEvent) {
		wd.Heartbeat(consumerComponent)
		defer wd.Heartbeat(consumerComponent)
		router.Handle(ctx, ev)
	}, registry)
	wd.RegisterComponent(consumerComponent, time.Duration(cfg.Runtime.StallThresholdS)*time.Second, queue.Len)

	session.SetupEventHandlers(queue)

	b.Components = &Components{
		Session:     session,
		Queue:       queue,
		Router:      router,
		Gate:        gate,
		Interpreter: interpreter,
		Destination: destination,
		HTTPPool:    httpPool,
		Metrics:     registry,
		Reporter:    metrics.NewReporter(registry, time.Duration(cfg.Runtime.StatsIntervalS)*time.Second),
		Watchdog:    wd,
	}

	logging.Info("Component wiring complete")
	return nil
}

func StartAll(ctx context.Context, c *Components) error {
	logging.Info("Starting components...")

	go c.Queue.Run(ctx)
	logging.Info("Event consumer started")

	c.Reporter.Start(ctx)
	c.Watchdog.Start(ctx)

	if err := c.Session.Connect(); err != nil {
		return fmt.Errorf("gateway connection failed: %w", err)
	}

	logging.Info("All components started")
	return nil
}
