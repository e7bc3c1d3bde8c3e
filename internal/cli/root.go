package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the listahan command tree
func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "listahan",
		Short:         "Track anime, manga and manhwa in a shared spreadsheet",
		Long:          "Keep a personal media list in a spreadsheet-backed store, with a local cache for offline use.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().Bool("json", false, "output in JSON format")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "show debug logs")

	cmd.AddCommand(
		NewRegisterCmd(),
		NewLoginCmd(),
		NewLogoutCmd(),
		NewPasswdCmd(),
		NewListCmd(),
		NewCountsCmd(),
		NewAddCmd(),
		NewEditCmd(),
		NewDeleteCmd(),
		NewStatusCmd(),
		NewServeCmd(),
	)

	return cmd
}
