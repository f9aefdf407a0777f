package commands

import (
	"github.com/sonemaro/menuscan/cmd/menuscan/app"
	"github.com/spf13/cobra"
)

func newParseCommand(opts *Options) *cobra.Command {
	var wmName, terminal string

	cmd := &cobra.Command{
		Use:   "parse [flags] <file>",
		Short: "Parse a single desktop entry",
		Long: `Parse one descriptor and print the resulting entry. A file that is not
a valid entry is reported with the reason.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("wm") {
				opts.Config.WMName = wmName
			}
			if cmd.Flags().Changed("terminal") {
				opts.Config.Terminal = terminal
			}
			if err := opts.Config.Validate(); err != nil {
				return err
			}

			application := app.New(opts.Config)
			defer application.Shutdown()

			return application.Parse(args[0])
		},
	}

	cmd.Flags().StringVar(&wmName, "wm", "",
		"window manager name matched against OnlyShowIn")
	cmd.Flags().StringVar(&terminal, "terminal", "",
		"terminal emulator for Terminal=true entries")

	return cmd
}
