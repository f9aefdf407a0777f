package config

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Workers is the number of concurrent directory walkers and parsers
	Workers int

	// RateLimit is the maximum number of descriptor parses per second (0 for unlimited)
	RateLimit int

	// BatchSize is the number of directory entries read per round-trip
	BatchSize int

	// MaxDepth is the maximum directory depth to scan (-1 for unlimited)
	MaxDepth int

	// FollowSymlinks descends into symlinked directories. Symlinked files are
	// parsed either way.
	FollowSymlinks bool

	// WMName is the window manager name matched against OnlyShowIn
	WMName string

	// Terminal is the emulator used for Terminal=true entries
	Terminal string

	// IconTheme is the icon theme searched before unthemed directories
	IconTheme string

	// IconSize is the preferred icon size in pixels
	IconSize int

	// Dirs are the directories to scan (empty for the XDG application dirs)
	Dirs []string

	// Output specifies the output format (tree, json, or yaml)
	Output string

	// OutputFile is the path to write the output (empty for stdout)
	OutputFile string

	// ShowHidden includes entries hidden by NoDisplay or OnlyShowIn
	ShowHidden bool

	// NoProgress disables progress reporting
	NoProgress bool

	// NoColor disables colored output
	NoColor bool

	// Verbose sets the verbosity level
	Verbose int
}

// validOutputFormats contains the list of supported output formats
var validOutputFormats = map[string]bool{
	string(OutputFormatTree): true,
	string(OutputFormatJSON): true,
	string(OutputFormatYAML): true,
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Workers:   runtime.NumCPU(),
		BatchSize: DefaultBatchSize,
		MaxDepth:  UnlimitedDepth,
		WMName:    DefaultWMName,
		Terminal:  DefaultTerminal,
		IconTheme: DefaultIconTheme,
		IconSize:  DefaultIconSize,
		Output:    string(OutputFormatTree),
	}
}

// Load reads configuration from environment variables and validates it
func Load() (Config, error) {
	v := viper.New()
	def := Default()

	// Set default values
	v.SetDefault("workers", def.Workers)
	v.SetDefault("rate_limit", 0)
	v.SetDefault("batch_size", def.BatchSize)
	v.SetDefault("max_depth", def.MaxDepth)
	v.SetDefault("follow_symlinks", false)
	v.SetDefault("wm_name", def.WMName)
	v.SetDefault("terminal", def.Terminal)
	v.SetDefault("icon_theme", def.IconTheme)
	v.SetDefault("icon_size", def.IconSize)
	v.SetDefault("output", def.Output)
	v.SetDefault("show_hidden", false)
	v.SetDefault("no_progress", false)
	v.SetDefault("no_color", false)
	v.SetDefault("verbose", 0)

	// Configure environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// Map environment variables to config fields
	for _, key := range []string{
		"workers", "rate_limit", "batch_size", "max_depth", "follow_symlinks",
		"wm_name", "terminal", "icon_theme", "icon_size", "dirs",
		"output", "output_file", "show_hidden", "no_progress", "no_color", "verbose",
	} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	cfg := Config{
		Workers:        v.GetInt("workers"),
		RateLimit:      v.GetInt("rate_limit"),
		BatchSize:      v.GetInt("batch_size"),
		MaxDepth:       v.GetInt("max_depth"),
		FollowSymlinks: v.GetBool("follow_symlinks"),
		WMName:         strings.TrimSpace(v.GetString("wm_name")),
		Terminal:       strings.TrimSpace(v.GetString("terminal")),
		IconTheme:      strings.TrimSpace(v.GetString("icon_theme")),
		IconSize:       v.GetInt("icon_size"),
		Dirs:           SplitList(v.GetString("dirs")),
		Output:         v.GetString("output"),
		OutputFile:     v.GetString("output_file"),
		ShowHidden:     v.GetBool("show_hidden"),
		NoProgress:     v.GetBool("no_progress"),
		NoColor:        v.GetBool("no_color"),
		Verbose:        parseVerbosity(v.GetString("verbose")),
	}

	// Handle special case for workers=0
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// parseVerbosity accepts either a count ("2") or a string of 'v's ("vv").
func parseVerbosity(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return strings.Count(s, "v")
}

// SplitList splits a comma separated list, dropping blank items.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	// Validate workers count
	if c.Workers <= 0 {
		return fmt.Errorf("workers count must be positive")
	}
	maxWorkers := runtime.NumCPU() * MaxWorkerMultiplier
	if c.Workers > maxWorkers {
		return fmt.Errorf("workers count cannot exceed system CPU count * %d", MaxWorkerMultiplier)
	}

	// Validate rate limit
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}

	// Validate batch size
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.BatchSize > MaxBatchSize {
		return fmt.Errorf("batch size cannot exceed %d", MaxBatchSize)
	}

	// Validate max depth
	if c.MaxDepth < UnlimitedDepth {
		return fmt.Errorf("max depth must be -1 (unlimited) or positive")
	}

	// Validate host settings
	if c.WMName == "" {
		return fmt.Errorf("window manager name must not be empty")
	}
	if c.Terminal == "" {
		return fmt.Errorf("terminal must not be empty")
	}
	if c.IconSize < MinIconSize || c.IconSize > MaxIconSize {
		return fmt.Errorf("icon size must be between %d and %d", MinIconSize, MaxIconSize)
	}

	// Validate output format
	if !validOutputFormats[c.Output] {
		return fmt.Errorf("invalid output format: must be one of [tree json yaml]")
	}

	return nil
}

// String returns a string representation of the configuration
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Workers: %d, RateLimit: %d, BatchSize: %d, MaxDepth: %d, "+
			"FollowSymlinks: %v, WMName: %s, Terminal: %s, IconTheme: %s, "+
			"IconSize: %d, Dirs: %v, Output: %s, OutputFile: %s, ShowHidden: %v, "+
			"NoProgress: %v, NoColor: %v, Verbose: %d}",
		c.Workers, c.RateLimit, c.BatchSize, c.MaxDepth,
		c.FollowSymlinks, c.WMName, c.Terminal, c.IconTheme,
		c.IconSize, c.Dirs, c.Output, c.OutputFile, c.ShowHidden,
		c.NoProgress, c.NoColor, c.Verbose,
	)
}
