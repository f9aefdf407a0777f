package config

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"MENUSCAN_WORKERS",
	"MENUSCAN_RATE_LIMIT",
	"MENUSCAN_BATCH_SIZE",
	"MENUSCAN_MAX_DEPTH",
	"MENUSCAN_FOLLOW_SYMLINKS",
	"MENUSCAN_WM_NAME",
	"MENUSCAN_TERMINAL",
	"MENUSCAN_ICON_THEME",
	"MENUSCAN_ICON_SIZE",
	"MENUSCAN_DIRS",
	"MENUSCAN_OUTPUT",
	"MENUSCAN_OUTPUT_FILE",
	"MENUSCAN_SHOW_HIDDEN",
	"MENUSCAN_NO_PROGRESS",
	"MENUSCAN_NO_COLOR",
	"MENUSCAN_VERBOSE",
}

// clearEnv blanks every variable for the test. Viper ignores empty values.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envVars {
		t.Setenv(env, "")
	}
}

func TestConfig(t *testing.T) {
	withDefaults := func(mod func(*Config)) Config {
		cfg := Default()
		mod(&cfg)
		return cfg
	}

	tests := []struct {
		name     string
		envVars  map[string]string
		expected Config
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "default configuration",
			expected: Default(),
		},
		{
			name: "configuration from environment variables",
			envVars: map[string]string{
				"MENUSCAN_WORKERS":         "1",
				"MENUSCAN_RATE_LIMIT":      "100",
				"MENUSCAN_BATCH_SIZE":      "25",
				"MENUSCAN_MAX_DEPTH":       "3",
				"MENUSCAN_FOLLOW_SYMLINKS": "true",
				"MENUSCAN_WM_NAME":         "i3",
				"MENUSCAN_TERMINAL":        "alacritty",
				"MENUSCAN_ICON_THEME":      "Adwaita",
				"MENUSCAN_ICON_SIZE":       "32",
				"MENUSCAN_DIRS":            "/usr/share/applications, ~/.local/share/applications,",
				"MENUSCAN_OUTPUT":          "json",
				"MENUSCAN_OUTPUT_FILE":     "menu.json",
				"MENUSCAN_SHOW_HIDDEN":     "true",
				"MENUSCAN_NO_PROGRESS":     "true",
				"MENUSCAN_NO_COLOR":        "1",
				"MENUSCAN_VERBOSE":         "vv",
			},
			expected: Config{
				Workers:        1,
				RateLimit:      100,
				BatchSize:      25,
				MaxDepth:       3,
				FollowSymlinks: true,
				WMName:         "i3",
				Terminal:       "alacritty",
				IconTheme:      "Adwaita",
				IconSize:       32,
				Dirs:           []string{"/usr/share/applications", "~/.local/share/applications"},
				Output:         "json",
				OutputFile:     "menu.json",
				ShowHidden:     true,
				NoProgress:     true,
				NoColor:        true,
				Verbose:        2,
			},
		},
		{
			name:     "zero workers defaults to cpu count",
			envVars:  map[string]string{"MENUSCAN_WORKERS": "0"},
			expected: Default(),
		},
		{
			name:     "numeric verbosity",
			envVars:  map[string]string{"MENUSCAN_VERBOSE": "3"},
			expected: withDefaults(func(c *Config) { c.Verbose = 3 }),
		},
		{
			name:     "boolean parsing - false values",
			envVars:  map[string]string{"MENUSCAN_NO_PROGRESS": "false", "MENUSCAN_NO_COLOR": "0"},
			expected: Default(),
		},
		{
			name:    "invalid workers count - negative",
			envVars: map[string]string{"MENUSCAN_WORKERS": "-1"},
			wantErr: true,
			errMsg:  "workers count must be positive",
		},
		{
			name:    "maximum workers limit",
			envVars: map[string]string{"MENUSCAN_WORKERS": "1000000"},
			wantErr: true,
			errMsg:  "workers count cannot exceed system CPU count * 4",
		},
		{
			name:    "invalid output format",
			envVars: map[string]string{"MENUSCAN_OUTPUT": "invalid"},
			wantErr: true,
			errMsg:  "invalid output format: must be one of [tree json yaml]",
		},
		{
			name:    "invalid batch size",
			envVars: map[string]string{"MENUSCAN_BATCH_SIZE": "-5"},
			wantErr: true,
			errMsg:  "batch size must be positive",
		},
		{
			name:    "invalid max depth - negative but not -1",
			envVars: map[string]string{"MENUSCAN_MAX_DEPTH": "-2"},
			wantErr: true,
			errMsg:  "max depth must be -1 (unlimited) or positive",
		},
		{
			name:    "invalid rate limit - negative",
			envVars: map[string]string{"MENUSCAN_RATE_LIMIT": "-1"},
			wantErr: true,
			errMsg:  "rate limit must be non-negative",
		},
		{
			name:    "invalid icon size",
			envVars: map[string]string{"MENUSCAN_ICON_SIZE": "4096"},
			wantErr: true,
			errMsg:  "icon size must be between 8 and 512",
		},
		{
			name:    "blank window manager name",
			envVars: map[string]string{"MENUSCAN_WM_NAME": "   "},
			wantErr: true,
			errMsg:  "window manager name must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg)
		})
	}
}

func TestValidateConfig(t *testing.T) {
	valid := Default()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid configuration",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Workers = 0 },
			wantErr: true,
			errMsg:  "workers count must be positive",
		},
		{
			name:    "workers exceed max",
			mutate:  func(c *Config) { c.Workers = runtime.NumCPU()*MaxWorkerMultiplier + 1 },
			wantErr: true,
			errMsg:  "workers count cannot exceed",
		},
		{
			name:    "batch size too large",
			mutate:  func(c *Config) { c.BatchSize = MaxBatchSize + 1 },
			wantErr: true,
			errMsg:  "batch size cannot exceed 10000",
		},
		{
			name:    "empty terminal",
			mutate:  func(c *Config) { c.Terminal = "" },
			wantErr: true,
			errMsg:  "terminal must not be empty",
		},
		{
			name:    "icon size too small",
			mutate:  func(c *Config) { c.IconSize = 4 },
			wantErr: true,
			errMsg:  "icon size must be between",
		},
		{
			name:   "output file without path",
			mutate: func(c *Config) { c.OutputFile = "" },
		},
		{
			name:   "high verbosity",
			mutate: func(c *Config) { c.Verbose = 4 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList("  "))
	assert.Equal(t, []string{"a", "b"}, SplitList(" a ,, b,"))
}

func TestString(t *testing.T) {
	s := Default().String()
	assert.Contains(t, s, "WMName: awesome")
	assert.Contains(t, s, "Output: tree")
}
