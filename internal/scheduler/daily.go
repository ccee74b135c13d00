package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"announcebot/internal/services"
)

// TickRunner runs one dispatch tick.
type TickRunner interface {
	RunTick(ctx context.Context, now time.Time) (services.TickReport, error)
}

// Daily fires a TickRunner at local midnight and every 24 hours after.
//
// Jobs are wrapped in cron.SkipIfStillRunning: if a tick is still running
// when the next one is due, the next one is skipped rather than queued.
type Daily struct {
	runner TickRunner
	loc    *time.Location
	logger *slog.Logger
	now    func() time.Time
	anchor func(now time.Time, loc *time.Location) time.Time
}

// NewDaily returns a scheduler anchored to midnight in loc.
func NewDaily(runner TickRunner, loc *time.Location, logger *slog.Logger) *Daily {
	if loc == nil {
		loc = time.Local
	}
	return &Daily{
		runner: runner,
		loc:    loc,
		logger: logger,
		now:    time.Now,
		anchor: NextMidnight,
	}
}

// Run schedules the tick and blocks until ctx is canceled. Tick errors are
// logged; they do not stop the scheduler.
func (d *Daily) Run(ctx context.Context) error {
	cl := cronLogger{d.logger}
	c := cron.New(
		cron.WithLocation(d.loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	first := d.anchor(d.now(), d.loc)
	c.Schedule(DailySchedule{Anchor: first}, cron.FuncJob(func() { d.tick(ctx) }))
	c.Start()
	d.logger.InfoContext(ctx, "scheduler started", "first_tick", first.Format(time.RFC3339), "location", d.loc.String())

	<-ctx.Done()
	<-c.Stop().Done()
	d.logger.Info("scheduler stopped")
	return ctx.Err()
}

func (d *Daily) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	report, err := d.runner.RunTick(ctx, d.now())
	if err != nil {
		d.logger.ErrorContext(ctx, "tick failed", "today", report.Today, "error", err)
	}
}

// cronLogger adapts slog.Logger to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
