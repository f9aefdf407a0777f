package progress

import (
	"bytes"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sonemaro/menuscan/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLogger struct {
	mu   sync.Mutex
	logs []string
}

func (m *mockLogger) add(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, msg)
}

func (m *mockLogger) Info(msg string)                               { m.add("INFO: " + msg) }
func (m *mockLogger) Debug(msg string)                              { m.add("DEBUG: " + msg) }
func (m *mockLogger) Error(msg string)                              { m.add("ERROR: " + msg) }
func (m *mockLogger) Warn(msg string)                               { m.add("WARN: " + msg) }
func (m *mockLogger) Trace(msg string)                              { m.add("TRACE: " + msg) }
func (m *mockLogger) WithFields(fields logger.Fields) logger.Logger { return m }

type testWriter struct {
	buffer bytes.Buffer
	mu     sync.Mutex
}

func (w *testWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buffer.Write(p)
}

func (w *testWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buffer.String()
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name       string
		config     Config
		operations func(*testing.T, Progress)
		verify     func(*testing.T, string)
	}{
		{
			name: "spinner with stats",
			config: Config{
				Style:       StyleSpinner,
				Width:       200,
				ShowStats:   true,
				NoColor:     true,
				RefreshRate: 10 * time.Millisecond,
			},
			operations: func(t *testing.T, p Progress) {
				p.Start("Scanning")
				p.Update(Status{
					CurrentDir:  "/usr/share/applications",
					Directories: 3,
					Files:       12,
					Parsed:      10,
				})
				time.Sleep(30 * time.Millisecond)
				p.Complete("Scan complete")
			},
			verify: func(t *testing.T, output string) {
				assert.Contains(t, output, "Scanning")
				assert.Contains(t, output, "dirs: 3 | files: 12 | parsed: 10")
				assert.Contains(t, output, "/usr/share/applications")
				assert.Contains(t, output, "✓ Scan complete")
				assert.NotContains(t, output, "errors:")
				assert.NotContains(t, output, "\033[3")
			},
		},
		{
			name: "simple progress with error",
			config: Config{
				Style:       StyleSimple,
				Width:       200,
				NoColor:     true,
				RefreshRate: 10 * time.Millisecond,
			},
			operations: func(t *testing.T, p Progress) {
				p.Start("Scanning")
				p.Update(Status{Parsed: 75, Errors: 2})
				p.Error("Scan failed")
			},
			verify: func(t *testing.T, output string) {
				assert.Contains(t, output, "Scanning (75 parsed)")
				assert.Contains(t, output, "Scan failed (75 parsed)")
				assert.NotContains(t, output, "dirs:")
			},
		},
		{
			name: "colored completion",
			config: Config{
				Style:       StyleSimple,
				Width:       200,
				RefreshRate: 10 * time.Millisecond,
			},
			operations: func(t *testing.T, p Progress) {
				p.Start("Scanning")
				p.Complete("Scan complete")
			},
			verify: func(t *testing.T, output string) {
				assert.Contains(t, output, "\033[32mScan complete\033[0m")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &testWriter{}
			p := newProgress(tt.config, &mockLogger{}, w)

			done := make(chan struct{})
			go func() {
				defer close(done)
				tt.operations(t, p)
			}()

			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("Test timeout")
			}

			p.Stop()
			tt.verify(t, w.String())
		})
	}
}

func TestProgressPollsSource(t *testing.T) {
	var parsed atomic.Int64
	w := &testWriter{}
	p := newProgress(Config{
		Style:       StyleSpinner,
		Width:       200,
		ShowStats:   true,
		NoColor:     true,
		RefreshRate: 5 * time.Millisecond,
		Source: func() Status {
			return Status{Parsed: parsed.Load()}
		},
	}, &mockLogger{}, w)

	p.Start("Scanning")
	parsed.Store(42)

	assert.Eventually(t, func() bool {
		return strings.Contains(w.String(), "parsed: 42")
	}, time.Second, 5*time.Millisecond)

	parsed.Store(50)
	p.Complete("Done")
	assert.Contains(t, w.String(), "✓ Done | dirs: 0 | files: 0 | parsed: 50")
}

func TestProgressEdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		setup  func(*progress)
		verify func(*testing.T, *testWriter)
	}{
		{
			name:   "stop without start",
			config: Config{Style: StyleSpinner},
			setup: func(p *progress) {
				p.Stop()
				p.Stop()
			},
			verify: func(t *testing.T, w *testWriter) {
				assert.Empty(t, w.String())
			},
		},
		{
			name:   "update before start does not render",
			config: Config{Style: StyleSimple},
			setup: func(p *progress) {
				p.Update(Status{Parsed: 5})
			},
			verify: func(t *testing.T, w *testWriter) {
				assert.Empty(t, w.String())
			},
		},
		{
			name: "rapid updates",
			config: Config{
				Style:       StyleSpinner,
				RefreshRate: time.Millisecond,
			},
			setup: func(p *progress) {
				p.Start("Starting...")
				for i := 0; i < 100; i++ {
					p.Update(Status{Parsed: int64(i)})
				}
				p.Stop()
			},
			verify: func(t *testing.T, w *testWriter) {
				assert.NotEmpty(t, w.String())
			},
		},
		{
			name: "restart after complete",
			config: Config{
				Style:       StyleSimple,
				NoColor:     true,
				RefreshRate: time.Millisecond,
			},
			setup: func(p *progress) {
				p.Start("first")
				p.Complete("first done")
				p.Start("second")
				p.Complete("second done")
			},
			verify: func(t *testing.T, w *testWriter) {
				assert.Contains(t, w.String(), "first done")
				assert.Contains(t, w.String(), "second done")
			},
		},
		{
			name: "long lines are truncated",
			config: Config{
				Style:   StyleSimple,
				Width:   20,
				NoColor: true,
			},
			setup: func(p *progress) {
				p.Start(strings.Repeat("x", 100))
				p.Stop()
			},
			verify: func(t *testing.T, w *testWriter) {
				assert.Contains(t, w.String(), strings.Repeat("x", 17)+"...")
				assert.NotContains(t, w.String(), strings.Repeat("x", 18))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &testWriter{}
			p := newProgress(tt.config, &mockLogger{}, w)

			tt.setup(p)
			tt.verify(t, w)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0s", formatDuration(0))
	assert.Equal(t, "2s", formatDuration(1600*time.Millisecond))
	assert.Equal(t, "1m5s", formatDuration(65*time.Second))
	assert.Equal(t, "2h0m1s", formatDuration(2*time.Hour+time.Second))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", truncate("abc", 0))
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "a...", truncate("abcdef", 4))
}
