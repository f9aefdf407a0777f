package commands

import (
	"runtime"

	"github.com/sonemaro/menuscan/cmd/menuscan/app"
	"github.com/sonemaro/menuscan/internal/config"
	"github.com/spf13/cobra"
)

// scanFlags are shared by the scan and menu commands
type scanFlags struct {
	workers        int
	rateLimit      int
	batchSize      int
	maxDepth       int
	followSymlinks bool
	allFiles       bool
	showHidden     bool
	wmName         string
	terminal       string
	iconTheme      string
	iconSize       int
}

func (f *scanFlags) register(cmd *cobra.Command) {
	def := config.Default()

	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0,
		"number of concurrent workers (default: number of CPUs)")
	cmd.Flags().IntVarP(&f.rateLimit, "rate-limit", "r", 0,
		"maximum descriptor parses per second (0 for unlimited)")
	cmd.Flags().IntVarP(&f.batchSize, "batch-size", "b", def.BatchSize,
		"directory entries read per round-trip")
	cmd.Flags().IntVarP(&f.maxDepth, "max-depth", "d", def.MaxDepth,
		"maximum directory depth to scan")
	cmd.Flags().BoolVar(&f.followSymlinks, "follow-symlinks", false,
		"descend into symlinked directories (symlinked files are always parsed)")
	cmd.Flags().BoolVar(&f.allFiles, "all-files", false,
		"parse every regular file, not only *.desktop")
	cmd.Flags().BoolVar(&f.showHidden, "show-hidden", false,
		"include entries hidden by NoDisplay or OnlyShowIn")
	cmd.Flags().StringVar(&f.wmName, "wm", def.WMName,
		"window manager name matched against OnlyShowIn")
	cmd.Flags().StringVar(&f.terminal, "terminal", def.Terminal,
		"terminal emulator for Terminal=true entries")
	cmd.Flags().StringVar(&f.iconTheme, "icon-theme", def.IconTheme,
		"icon theme to search")
	cmd.Flags().IntVar(&f.iconSize, "icon-size", def.IconSize,
		"preferred icon size in pixels")
}

// apply overrides cfg with every flag set on the command line and
// validates the result.
func (f *scanFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = f.workers
		if cfg.Workers == 0 {
			cfg.Workers = runtime.NumCPU()
		}
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimit = f.rateLimit
	}
	if flags.Changed("batch-size") {
		cfg.BatchSize = f.batchSize
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = f.maxDepth
	}
	if flags.Changed("follow-symlinks") {
		cfg.FollowSymlinks = f.followSymlinks
	}
	if flags.Changed("show-hidden") {
		cfg.ShowHidden = f.showHidden
	}
	if flags.Changed("wm") {
		cfg.WMName = f.wmName
	}
	if flags.Changed("terminal") {
		cfg.Terminal = f.terminal
	}
	if flags.Changed("icon-theme") {
		cfg.IconTheme = f.iconTheme
	}
	if flags.Changed("icon-size") {
		cfg.IconSize = f.iconSize
	}
	return cfg.Validate()
}

func (f *scanFlags) scanOptions() app.ScanOptions {
	return app.ScanOptions{DesktopOnly: !f.allFiles}
}

func newScanCommand(opts *Options) *cobra.Command {
	sf := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan [flags] [dir...]",
		Short: "List desktop entries",
		Long: `Scan directories for desktop entries and print every entry found.
Without arguments the XDG application directories are scanned.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sf.apply(cmd, opts.Config); err != nil {
				return err
			}

			application := app.New(opts.Config)
			defer application.Shutdown()

			return application.Scan(args, sf.scanOptions())
		},
	}

	sf.register(cmd)
	return cmd
}
