package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"announcebot/internal/extract"
	"announcebot/internal/services"
)

func newMatchCmd(a *app) *cobra.Command {
	var (
		now    string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "match [text]",
		Short: "Show what the pattern catalog does with a message",
		Long: `Run the pattern catalog on a message without storing or sending anything.
The text is read from the arguments, or from stdin when none are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseNow(now)
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			}

			outcomes := services.Preview(extract.DefaultCatalog(), text, at)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(services.MatchViews(outcomes))
			}
			if len(outcomes) == 0 {
				fmt.Fprintln(out, "no rule matched")
				return nil
			}
			for _, o := range outcomes {
				switch o.Match.Kind {
				case extract.FutureEvent:
					fmt.Fprintf(out, "%s: store %q ending %d\n", o.Match.Rule, o.Match.EventName, o.EndDate)
				default:
					fmt.Fprintf(out, "%s: send %s\n", o.Match.Rule, o.Notice)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&now, "now", "", "Evaluate as of this RFC 3339 time (default: now)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print outcomes as JSON")
	return cmd
}
