/*
Package commands implements the menuscan CLI. The root command loads the
configuration from the environment; subcommand flags override it.
*/
package commands

import (
	"fmt"

	"github.com/sonemaro/menuscan/internal/config"
	"github.com/sonemaro/menuscan/internal/version"
	"github.com/sonemaro/menuscan/pkg/logger"
	"github.com/spf13/cobra"
)

// Options holds command-line options that apply to all commands
type Options struct {
	Config     *config.Config
	Verbose    int
	NoProgress bool
	NoColor    bool
	Output     string
	OutputFile string
}

// NewRootCommand creates the root command for the application
func NewRootCommand() *cobra.Command {
	return newRootCommand(&Options{})
}

func newRootCommand(opts *Options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "menuscan [command] [flags]",
		Short: "Desktop entry scanner and menu generator",
		Long: `menuscan v` + version.Version + `
========================================

menuscan discovers freedesktop application descriptors (.desktop files),
resolves their visibility, icons and command lines, and prints the raw
entries or a categorized launcher menu.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeCommand(cmd, opts)
		},
		SilenceUsage: true,
	}

	// Add persistent flags that apply to all commands
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.Verbose, "verbose", "v",
		"verbose output (can be used multiple times)")
	flags.BoolVar(&opts.NoProgress, "no-progress", false,
		"disable progress reporting")
	flags.BoolVar(&opts.NoColor, "no-color", false,
		"disable colored output")
	flags.StringVarP(&opts.Output, "output", "o", "tree",
		"output format: tree|json|yaml")
	flags.StringVarP(&opts.OutputFile, "file", "f", "",
		"write output to file instead of stdout")

	rootCmd.AddCommand(
		newScanCommand(opts),
		newMenuCommand(opts),
		newParseCommand(opts),
		newVersionCommand(opts),
	)

	return rootCmd
}

// initializeCommand loads the configuration and applies global flags
func initializeCommand(cmd *cobra.Command, opts *Options) error {
	log := logger.NewLogger(logger.Config{
		Verbosity: opts.Verbose,
		Format:    logger.FormatConsole,
	})

	log.WithFields(logger.Fields{
		"verbosity": opts.Verbose,
		"command":   cmd.Name(),
	}).Debug("Initializing command")

	cfg, err := config.Load()
	if err != nil {
		log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to load configuration")
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override config with command line flags
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose = opts.Verbose
	}
	if flags.Changed("no-progress") {
		cfg.NoProgress = opts.NoProgress
	}
	if flags.Changed("no-color") {
		cfg.NoColor = opts.NoColor
	}
	if flags.Changed("output") {
		cfg.Output = opts.Output
	}
	if flags.Changed("file") {
		cfg.OutputFile = opts.OutputFile
	}

	opts.Config = &cfg
	return nil
}
