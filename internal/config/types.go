package config

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	// OutputFormatTree represents the tree-style output format
	OutputFormatTree OutputFormat = "tree"

	// OutputFormatJSON represents the JSON output format
	OutputFormatJSON OutputFormat = "json"

	// OutputFormatYAML represents the YAML output format
	OutputFormatYAML OutputFormat = "yaml"
)

// Constants for configuration limits and defaults
const (
	// EnvPrefix prefixes every environment variable
	EnvPrefix = "MENUSCAN"

	// DefaultBatchSize is the default directory page size
	DefaultBatchSize = 100

	// MaxBatchSize bounds the directory page size
	MaxBatchSize = 10000

	// MaxWorkerMultiplier is the maximum multiple of CPU cores for worker count
	MaxWorkerMultiplier = 4

	// UnlimitedDepth represents unlimited directory depth
	UnlimitedDepth = -1

	// DefaultWMName is matched against OnlyShowIn
	DefaultWMName = "awesome"

	// DefaultTerminal wraps Terminal=true commands
	DefaultTerminal = "xterm"

	// DefaultIconTheme is the icon theme searched first
	DefaultIconTheme = "hicolor"

	// DefaultIconSize is the preferred icon size in pixels
	DefaultIconSize = 48

	// MinIconSize and MaxIconSize bound the icon size
	MinIconSize = 8
	MaxIconSize = 512
)
