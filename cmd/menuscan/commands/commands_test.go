package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sonemaro/menuscan/internal/config"
	"github.com/sonemaro/menuscan/internal/version"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, opts *Options, args ...string) (string, error) {
	t.Helper()

	root := newRootCommand(opts)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, &Options{}, "version")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", out)

	out, err = execute(t, &Options{}, "version", "--full")
	require.NoError(t, err)
	assert.Contains(t, out, "menuscan "+version.Version)
}

func TestGlobalFlags(t *testing.T) {
	opts := &Options{}
	_, err := execute(t, opts, "-vv", "--no-color", "--no-progress", "-o", "json", "-f", "/tmp/x.json", "version")
	require.NoError(t, err)

	require.NotNil(t, opts.Config)
	assert.Equal(t, 2, opts.Config.Verbose)
	assert.True(t, opts.Config.NoColor)
	assert.True(t, opts.Config.NoProgress)
	assert.Equal(t, "json", opts.Config.Output)
	assert.Equal(t, "/tmp/x.json", opts.Config.OutputFile)
}

func TestInvalidEnvironment(t *testing.T) {
	t.Setenv("MENUSCAN_OUTPUT", "xml")

	_, err := execute(t, &Options{}, "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestParseRequiresFile(t *testing.T) {
	_, err := execute(t, &Options{}, "parse")
	assert.Error(t, err)
}

func TestScanFlagsApply(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		validate func(*testing.T, config.Config)
		wantErr  string
	}{
		{
			name: "defaults untouched",
			validate: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, config.Default(), cfg)
			},
		},
		{
			name: "overrides",
			args: []string{"-w", "1", "-r", "20", "-b", "7", "-d", "2",
				"--follow-symlinks", "--show-hidden", "--wm", "i3",
				"--terminal", "st", "--icon-theme", "Adwaita", "--icon-size", "32"},
			validate: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, 1, cfg.Workers)
				assert.Equal(t, 20, cfg.RateLimit)
				assert.Equal(t, 7, cfg.BatchSize)
				assert.Equal(t, 2, cfg.MaxDepth)
				assert.True(t, cfg.FollowSymlinks)
				assert.True(t, cfg.ShowHidden)
				assert.Equal(t, "i3", cfg.WMName)
				assert.Equal(t, "st", cfg.Terminal)
				assert.Equal(t, "Adwaita", cfg.IconTheme)
				assert.Equal(t, 32, cfg.IconSize)
			},
		},
		{
			name: "zero workers means CPU count",
			args: []string{"-w", "0"},
			validate: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, runtime.NumCPU(), cfg.Workers)
			},
		},
		{
			name:    "invalid batch size",
			args:    []string{"-b", "0"},
			wantErr: "batch size must be positive",
		},
		{
			name:    "empty terminal",
			args:    []string{"--terminal", ""},
			wantErr: "terminal must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sf := &scanFlags{}
			cmd := &cobra.Command{Use: "scan"}
			sf.register(cmd)
			require.NoError(t, cmd.ParseFlags(tt.args))

			cfg := config.Default()
			err := sf.apply(cmd, &cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}

func TestScanOptions(t *testing.T) {
	sf := &scanFlags{}
	assert.True(t, sf.scanOptions().DesktopOnly)

	sf.allFiles = true
	assert.False(t, sf.scanOptions().DesktopOnly)
}

func TestScanCommandWritesFile(t *testing.T) {
	dir := t.TempDir()
	apps := filepath.Join(dir, "applications")
	require.NoError(t, os.MkdirAll(apps, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(apps, "app.desktop"),
		[]byte("[Desktop Entry]\nName=Tmp App\nExec=tmpapp %U\n"), 0644))

	outFile := filepath.Join(dir, "out", "entries.json")
	_, err := execute(t, &Options{},
		"--no-progress", "-o", "json", "-f", outFile, "scan", "-w", "1", apps)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "Tmp App"`)
	assert.Contains(t, string(data), `"commandLine": "tmpapp "`)
}

func TestMenuCommandWritesFile(t *testing.T) {
	dir := t.TempDir()
	apps := filepath.Join(dir, "applications")
	require.NoError(t, os.MkdirAll(apps, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(apps, "edit.desktop"),
		[]byte("[Desktop Entry]\nName=Editor\nExec=edit\nCategories=Utility;\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(apps, "misc.desktop"),
		[]byte("[Desktop Entry]\nName=Misc\nExec=misc\n"), 0644))

	outFile := filepath.Join(dir, "menu.json")
	_, err := execute(t, &Options{},
		"--no-progress", "-o", "json", "-f", outFile,
		"menu", "--drop-uncategorized", "-w", "1", apps)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "Editor"`)
	assert.NotContains(t, string(data), `"name": "Misc"`)
}
