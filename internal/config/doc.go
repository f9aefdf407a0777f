// Package config provides configuration management for menuscan. It reads
// environment variables through viper and validates every parameter.
//
// # Configuration Loading
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Command-line flags are applied on top of the loaded values by the CLI.
//
// # Environment Variables
//
//	MENUSCAN_WORKERS          Number of concurrent workers (default: CPU cores)
//	MENUSCAN_RATE_LIMIT       Descriptor parses per second (0 for unlimited)
//	MENUSCAN_BATCH_SIZE       Directory entries read per round-trip (default: 100)
//	MENUSCAN_MAX_DEPTH        Maximum directory depth (-1 for unlimited)
//	MENUSCAN_FOLLOW_SYMLINKS  Follow symbolic links (true/false)
//	MENUSCAN_WM_NAME          Window manager matched against OnlyShowIn (default: awesome)
//	MENUSCAN_TERMINAL         Terminal emulator for Terminal=true entries (default: xterm)
//	MENUSCAN_ICON_THEME       Icon theme (default: hicolor)
//	MENUSCAN_ICON_SIZE        Preferred icon size in pixels (default: 48)
//	MENUSCAN_DIRS             Comma-separated directories to scan
//	MENUSCAN_OUTPUT           Output format: json|yaml|tree
//	MENUSCAN_OUTPUT_FILE      Output file path (empty for stdout)
//	MENUSCAN_SHOW_HIDDEN      Include hidden entries (true/false)
//	MENUSCAN_NO_PROGRESS      Disable progress reporting (true/false)
//	MENUSCAN_NO_COLOR         Disable colored output (true/false)
//	MENUSCAN_VERBOSE          Verbosity level (number of 'v's or a count)
//
// # Configuration Validation
//
//   - Workers must be positive and not exceed CPU cores * 4
//   - RateLimit must be non-negative
//   - BatchSize must be between 1 and 10000
//   - MaxDepth must be -1 (unlimited) or positive
//   - WMName and Terminal must not be empty
//   - IconSize must be between 8 and 512
//   - Output format must be one of: tree, json, yaml
//
// The configuration is immutable after loading and is safe for concurrent
// access across multiple goroutines.
package config
