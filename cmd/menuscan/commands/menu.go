package commands

import (
	"github.com/sonemaro/menuscan/cmd/menuscan/app"
	"github.com/spf13/cobra"
)

func newMenuCommand(opts *Options) *cobra.Command {
	sf := &scanFlags{}
	var dropUncategorized bool

	cmd := &cobra.Command{
		Use:   "menu [flags] [dir...]",
		Short: "Generate a categorized launcher menu",
		Long: `Scan directories for desktop entries and group the visible, launchable
ones into menu categories. Without arguments the XDG application
directories are scanned.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sf.apply(cmd, opts.Config); err != nil {
				return err
			}

			application := app.New(opts.Config)
			defer application.Shutdown()

			return application.Menu(args, app.MenuOptions{
				ScanOptions:       sf.scanOptions(),
				DropUncategorized: dropUncategorized,
			})
		},
	}

	sf.register(cmd)
	cmd.Flags().BoolVar(&dropUncategorized, "drop-uncategorized", false,
		"omit entries without a known category instead of listing them under Other")

	return cmd
}
