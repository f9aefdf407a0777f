package output

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sonemaro/menuscan/pkg/desktop"
	"github.com/sonemaro/menuscan/pkg/logger"
	"github.com/sonemaro/menuscan/pkg/menu"
	"github.com/sonemaro/menuscan/pkg/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements logger.Logger interface for testing
type mockLogger struct {
	logs []string
}

func (m *mockLogger) Info(msg string)                               { m.logs = append(m.logs, "INFO: "+msg) }
func (m *mockLogger) Debug(msg string)                              { m.logs = append(m.logs, "DEBUG: "+msg) }
func (m *mockLogger) Error(msg string)                              { m.logs = append(m.logs, "ERROR: "+msg) }
func (m *mockLogger) Warn(msg string)                               { m.logs = append(m.logs, "WARN: "+msg) }
func (m *mockLogger) Trace(msg string)                              { m.logs = append(m.logs, "TRACE: "+msg) }
func (m *mockLogger) WithFields(fields logger.Fields) logger.Logger { return m }

func createTestResult() scanner.Result {
	return scanner.Result{
		Roots: []string{"/usr/share/applications"},
		Entries: []*desktop.Entry{
			{
				Path:        "/usr/share/applications/firefox.desktop",
				Name:        "Firefox",
				CommandLine: "firefox",
				Categories:  []string{"Network"},
				Show:        true,
			},
			{
				Path:        "/usr/share/applications/htop.desktop",
				Name:        "Htop",
				CommandLine: "xterm -e htop",
				Terminal:    true,
				Show:        true,
			},
			{
				Path:        "/usr/share/applications/kde/settings.desktop",
				Name:        "KDE Settings",
				CommandLine: "systemsettings",
				OnlyShowIn:  "KDE;",
				Show:        false,
			},
		},
		Errors: map[string]error{
			"/usr/share/applications/private": errors.New("permission denied"),
		},
		Stats: scanner.ScanStats{
			Directories: 3,
			Files:       4,
			Entries:     3,
			Hidden:      1,
			ErrorCount:  1,
			Duration:    1500 * time.Millisecond,
		},
	}
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		name       string
		format     Format
		withStats  bool
		withColors bool
		showHidden bool
		verify     func(*testing.T, string, *mockLogger)
	}{
		{
			name:   "tree format basic",
			format: FormatTree,
			verify: func(t *testing.T, output string, log *mockLogger) {
				assert.Contains(t, output, "/usr/share/applications/\n")
				assert.Contains(t, output, "├── Firefox  firefox")
				assert.Contains(t, output, "└── Htop  xterm -e htop")
				assert.NotContains(t, output, "KDE Settings")
				assert.Contains(t, output, "Errors:")
				assert.Contains(t, output, "/usr/share/applications/private: permission denied")
				assert.NotContains(t, output, "\x1b[")
			},
		},
		{
			name:       "tree format shows hidden entries",
			format:     FormatTree,
			showHidden: true,
			verify: func(t *testing.T, output string, log *mockLogger) {
				assert.Contains(t, output, "/usr/share/applications/kde/\n")
				assert.Contains(t, output, "└── KDE Settings  systemsettings (hidden)")
			},
		},
		{
			name:       "tree format with colors",
			format:     FormatTree,
			withColors: true,
			verify: func(t *testing.T, output string, log *mockLogger) {
				assert.Contains(t, output, "\x1b[34;1m") // Bold blue for directories
				assert.Contains(t, output, "\x1b[36m")   // Cyan for commands
				assert.Contains(t, output, "\x1b[31m")   // Red for errors
				assert.Contains(t, output, "\x1b[0m")    // Reset
			},
		},
		{
			name:      "tree format with stats",
			format:    FormatTree,
			withStats: true,
			verify: func(t *testing.T, output string, log *mockLogger) {
				assert.Contains(t, output, "Total Entries: 3")
				assert.Contains(t, output, "Hidden Entries: 1")
				assert.Contains(t, output, "Total Directories: 3")
				assert.Contains(t, output, "Duration: 1.5s")
				assert.Contains(t, log.logs, "DEBUG: Adding statistics to output")
			},
		},
		{
			name:   "json format",
			format: FormatJSON,
			verify: func(t *testing.T, output string, log *mockLogger) {
				assert.Contains(t, output, `"name": "Firefox"`)
				assert.Contains(t, output, `"commandLine": "xterm -e htop"`)
				assert.Contains(t, output, `"path": "/usr/share/applications/private"`)
				assert.NotContains(t, output, `"statistics"`)
				assert.Contains(t, log.logs, "DEBUG: Formatting JSON output")
			},
		},
		{
			name:      "json format with stats",
			format:    FormatJSON,
			withStats: true,
			verify: func(t *testing.T, output string, log *mockLogger) {
				assert.Contains(t, output, `"statistics"`)
				assert.Contains(t, output, `"totalEntries": 3`)
				assert.Contains(t, output, `"hiddenEntries": 1`)
			},
		},
		{
			name:   "yaml format",
			format: FormatYAML,
			verify: func(t *testing.T, output string, log *mockLogger) {
				assert.Contains(t, output, "name: Firefox")
				assert.Contains(t, output, "entries:")
				assert.Contains(t, output, "roots:")
				assert.Contains(t, log.logs, "DEBUG: Formatting YAML output")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &mockLogger{}

			formatter := NewFormatter(Config{
				Format:     tt.format,
				WithStats:  tt.withStats,
				WithColors: tt.withColors,
				ShowHidden: tt.showHidden,
			}, log)

			output, err := formatter.FormatResult(createTestResult())

			require.NoError(t, err)
			require.NotEmpty(t, output)

			tt.verify(t, output, log)
		})
	}
}

func TestFormatMenu(t *testing.T) {
	m := menu.Generate(createTestResult().Entries, menu.Options{})

	tests := []struct {
		name   string
		format Format
		verify func(*testing.T, string)
	}{
		{
			name:   "tree",
			format: FormatTree,
			verify: func(t *testing.T, output string) {
				assert.True(t, strings.HasPrefix(output, "menu/\n"))
				assert.Contains(t, output, "├── Internet/\n│   └── Firefox  firefox")
				assert.Contains(t, output, "└── Other/\n    └── Htop  xterm -e htop")
				assert.NotContains(t, output, "KDE Settings")
			},
		},
		{
			name:   "json",
			format: FormatJSON,
			verify: func(t *testing.T, output string) {
				assert.Contains(t, output, `"key": "Network"`)
				assert.Contains(t, output, `"items": 2`)
			},
		},
		{
			name:   "yaml",
			format: FormatYAML,
			verify: func(t *testing.T, output string) {
				assert.Contains(t, output, "name: Internet")
				assert.Contains(t, output, "command: firefox")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := NewFormatter(Config{Format: tt.format}, &mockLogger{})
			output, err := formatter.FormatMenu(m)
			require.NoError(t, err)
			tt.verify(t, output)
		})
	}
}

func TestFormatEntry(t *testing.T) {
	entry := &desktop.Entry{
		Path:        "/apps/vim.desktop",
		Name:        "Vim",
		Exec:        "vim %F",
		CommandLine: "xterm -e vim ",
		Terminal:    true,
		Categories:  []string{"Utility", "TextEditor"},
		Show:        true,
	}

	formatter := NewFormatter(Config{Format: FormatTree}, &mockLogger{})
	output, err := formatter.FormatEntry(entry)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(output, "/apps/vim.desktop\n"))
	assert.Contains(t, output, "├── Name: Vim")
	assert.Contains(t, output, "├── Categories: Utility;TextEditor")
	assert.Contains(t, output, "└── Show: true")
	assert.NotContains(t, output, "GenericName")
}

func TestFormatterEdgeCases(t *testing.T) {
	tests := []struct {
		name      string
		run       func(Formatter) (string, error)
		format    Format
		wantErr   bool
		errString string
	}{
		{
			name:      "nil menu",
			run:       func(f Formatter) (string, error) { return f.FormatMenu(nil) },
			format:    FormatTree,
			wantErr:   true,
			errString: "nil menu",
		},
		{
			name:      "nil entry",
			run:       func(f Formatter) (string, error) { return f.FormatEntry(nil) },
			format:    FormatJSON,
			wantErr:   true,
			errString: "nil entry",
		},
		{
			name:      "invalid format",
			run:       func(f Formatter) (string, error) { return f.FormatResult(createTestResult()) },
			format:    "invalid",
			wantErr:   true,
			errString: "unsupported format",
		},
		{
			name:   "empty result",
			run:    func(f Formatter) (string, error) { return f.FormatResult(scanner.Result{}) },
			format: FormatJSON,
		},
		{
			name: "large number of entries",
			run: func(f Formatter) (string, error) {
				res := scanner.Result{}
				for i := 0; i < 1000; i++ {
					res.Entries = append(res.Entries, &desktop.Entry{
						Path: fmt.Sprintf("/apps/%d/app.desktop", i%10),
						Name: fmt.Sprintf("app%d", i),
						Show: true,
					})
				}
				return f.FormatResult(res)
			},
			format: FormatTree,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &mockLogger{}
			output, err := tt.run(NewFormatter(Config{Format: tt.format}, log))

			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)

				hasError := false
				for _, logMsg := range log.logs {
					if strings.HasPrefix(logMsg, "ERROR: ") {
						hasError = true
						break
					}
				}
				assert.True(t, hasError, "Expected error log message not found")
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, output)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m30s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h2m3s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.d))
	}
}

func TestFormatValid(t *testing.T) {
	assert.True(t, FormatTree.Valid())
	assert.True(t, FormatJSON.Valid())
	assert.True(t, FormatYAML.Valid())
	assert.False(t, Format("xml").Valid())
}
