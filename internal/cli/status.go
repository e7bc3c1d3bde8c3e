package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// StatusReport is the JSON form of the status command
type StatusReport struct {
	Online   bool       `json:"online"`
	UserID   string     `json:"user_id"`
	LastSync *time.Time `json:"last_sync"`
	Cached   int        `json:"cached_entries"`
	Error    string     `json:"error,omitempty"`
}

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the connection and show the local cache state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return err
			}
			defer ctx.Close()

			report := StatusReport{}

			pingErr := ctx.Client.Ping(cmd.Context())
			report.Online = pingErr == nil
			if pingErr != nil {
				report.Error = pingErr.Error()
			}

			if report.UserID, err = ctx.Auth.CurrentUser(); err != nil {
				return err
			}
			at, synced := ctx.Sync.LastSync()
			if synced {
				report.LastSync = &at
			}
			report.Cached = len(ctx.Sync.LocalEntries())

			if ctx.JSONMode {
				return writeJSON(cmd.OutOrStdout(), report)
			}

			out := cmd.OutOrStdout()
			if report.Online {
				fmt.Fprintln(out, "Connection: online")
			} else {
				fmt.Fprintf(out, "Connection: offline (%s)\n", report.Error)
			}
			if report.UserID == "" {
				fmt.Fprintln(out, "User:       not logged in")
			} else {
				fmt.Fprintf(out, "User:       %s\n", report.UserID)
			}
			fmt.Fprintf(out, "Last sync:  %s\n", formatSync(at, synced))
			fmt.Fprintf(out, "Cached:     %d entries\n", report.Cached)
			return nil
		},
	}
}
