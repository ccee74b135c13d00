package commands

import (
	"context"
	"fmt"
	"time"

	"announcebot/internal/adapters/email"
	"announcebot/internal/adapters/notify"
	"announcebot/internal/catalog"
	"announcebot/internal/domain"
	"announcebot/internal/repository/sqlstore"
)

// openStore opens a store handle and brings its schema up to date,
// reseeding the recurring dates from the configured catalog.
func (a *app) openStore(ctx context.Context) (*sqlstore.Store, error) {
	entries, err := catalog.Load(a.cfg.RecurringCatalogPath)
	if err != nil {
		return nil, err
	}
	store, err := sqlstore.Open(ctx, a.cfg.DBUrl, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := store.Init(ctx, entries); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// openHandle opens an additional store handle without re-initializing.
func (a *app) openHandle(ctx context.Context) (*sqlstore.Store, error) {
	store, err := sqlstore.Open(ctx, a.cfg.DBUrl, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}

func (a *app) notifier() (domain.Notifier, error) {
	return notify.NewNotifier(notify.Config{
		Provider:   a.cfg.NotifierProvider,
		WebhookURL: a.cfg.WebhookURL,
		EmailTo:    a.cfg.EmailTo,
		Mailer: email.MailerConfig{
			FromAddress: a.cfg.EmailFrom,
			FromName:    a.cfg.EmailFromName,
			SES: email.SESConfig{
				Region:             a.cfg.AWSRegion,
				AccessKeyID:        a.cfg.AWSAccessKeyID,
				SecretAccessKey:    a.cfg.AWSSecretKey,
				InsecureSkipVerify: a.cfg.SESInsecureSkip,
			},
		},
	}, a.logger)
}

// parseNow reads an optional RFC 3339 --now flag value.
func parseNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--now must be RFC 3339: %w", err)
	}
	return t, nil
}
