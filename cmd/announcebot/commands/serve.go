package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"announcebot/internal/adapters/auth"
	"announcebot/internal/adapters/twitter"
	httpdelivery "announcebot/internal/delivery/http"
	"announcebot/internal/delivery/http/controllers"
	"announcebot/internal/domain"
	"announcebot/internal/extract"
	"announcebot/internal/scheduler"
	"announcebot/internal/services"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the feed listener, the daily scheduler and the ops API",
		Long: `Run the feed listener, the daily scheduler and (unless HTTP_ADDR is empty)
the ops API until SIGINT or SIGTERM.

The feed listener, the scheduler and the ops API each use their own database
handle. A fatal error in one of them is logged and stops only that loop.`,
		Args: cobra.NoArgs,
		RunE: a.runServe,
	}
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.cfg.RequireFeed(); err != nil {
		return err
	}
	notifier, err := a.notifier()
	if err != nil {
		return err
	}

	feedStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer feedStore.Close()

	schedStore, err := a.openHandle(ctx)
	if err != nil {
		return err
	}
	defer schedStore.Close()

	// Streaming responses never finish, so no client timeout.
	client := twitter.NewClient(a.cfg.FeedBaseURL, a.cfg.AppAccessToken, &http.Client{})
	ruleID, err := twitter.NewRuleManager(client, a.logger).EnsureRule(ctx, a.cfg.AccountUsername, a.cfg.StreamRuleTag)
	if err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "stream rule ready", "rule_id", ruleID)

	stream := twitter.NewStream(client, a.logger)
	defer stream.Close()

	catalog := extract.DefaultCatalog()
	extraction := services.NewExtractionService(catalog, feedStore.Pending, notifier, a.logger)
	consumer := services.NewFeedConsumer(stream, extraction, a.logger)
	dispatch := services.NewDispatchService(schedStore.Pending, schedStore.Recurring, notifier, a.logger)
	daily := scheduler.NewDaily(dispatch, a.cfg.SchedulerLocation, a.logger)

	loops := []loop{
		{name: "feed listener", run: consumer.Run},
		{name: "scheduler", run: daily.Run},
	}
	if a.cfg.HTTPAddr != "" {
		// The API reads on its own handle so it never waits on the tick.
		apiStore, err := a.openHandle(ctx)
		if err != nil {
			return err
		}
		defer apiStore.Close()

		query := services.NewScheduleQueryService(apiStore.Pending, apiStore.Recurring, catalog)
		var verifier domain.TokenVerifier
		if a.cfg.JWTSecret != "" {
			verifier = auth.NewJWTVerifier(a.cfg.JWTSecret)
		} else {
			a.logger.WarnContext(ctx, "JWT_SECRET not set, ops API is unauthenticated")
		}
		handler := httpdelivery.NewRouter(httpdelivery.RouterConfig{
			Logger:         a.logger,
			Health:         controllers.NewHealthController(a.logger, apiStore.DB),
			Schedule:       controllers.NewScheduleController(a.logger, query),
			Verifier:       verifier,
			AllowedOrigins: a.cfg.CORSAllowedOrigins,
		})
		loops = append(loops, loop{name: "ops api", run: func(ctx context.Context) error {
			return serveHTTP(ctx, a.cfg.HTTPAddr, handler)
		}})
	}

	err = runLoops(ctx, a.logger, loops)
	a.logger.Info("shutdown complete")
	return err
}

// loop is one long-running part of serve.
type loop struct {
	name string
	run  func(ctx context.Context) error
}

// runLoops runs every loop until each has returned. The loops share ctx but
// not a cancel: a loop that fails is logged and stops alone, and its error
// is reported once the others have stopped too.
func runLoops(ctx context.Context, logger *slog.Logger, loops []loop) error {
	var g errgroup.Group
	for _, l := range loops {
		l := l
		g.Go(func() error {
			return loopExit(ctx, logger, l.name, l.run(ctx))
		})
	}
	return g.Wait()
}

// loopExit logs why a loop ended. Cancellation is a clean exit.
func loopExit(ctx context.Context, logger *slog.Logger, name string, err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		logger.Info(name + " stopped")
		return nil
	}
	logger.ErrorContext(ctx, name+" failed", "error", err)
	return fmt.Errorf("%s: %w", name, err)
}

func serveHTTP(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
