// Package commands implements the announcebot CLI.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"announcebot/config"
)

// app is the state shared by every subcommand, filled in by the root
// command's PersistentPreRunE.
type app struct {
	// dbURL overrides DATABASE_URL when set.
	dbURL string

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "announcebot",
		Short: "Turns official-account posts into timed notifications",
		Long: `announcebot watches an official account's post stream, recognizes event and
broadcast announcements, stores future-dated events, and sends notifications
when they are due. A daily tick also announces birthdays and anniversaries
from a fixed catalog.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if a.dbURL != "" {
				cfg.DBUrl = a.dbURL
			}
			a.cfg = cfg
			a.logger = config.NewLogger(cmd.ErrOrStderr())
			if cfg.DotenvErr != nil {
				a.logger.Debug(".env not loaded", "error", cfg.DotenvErr)
			}
			return nil
		},
	}

	// Global flags.
	rootCmd.PersistentFlags().StringVar(
		&a.dbURL, "db", "",
		"Database URL, overrides DATABASE_URL (sqlite3://path or postgres://...)",
	)

	// Add subcommands.
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newMatchCmd(a))
	rootCmd.AddCommand(newTickCmd(a))
	rootCmd.AddCommand(newInitDBCmd(a))
	rootCmd.AddCommand(newTokenCmd(a))

	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCommand().Execute()
}
