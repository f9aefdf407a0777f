package progress

import "time"

// Style represents the type of progress visualization
type Style string

const (
	// StyleSpinner shows a spinning indicator with live counters
	StyleSpinner Style = "spinner"

	// StyleSimple shows basic text progress
	StyleSimple Style = "simple"
)

// Config holds the configuration for progress visualization
type Config struct {
	// Style defines how progress should be displayed
	Style Style

	// Width is the maximum line width (0 = auto-detect)
	Width int

	// ShowStats enables/disables the counter line
	ShowStats bool

	// NoColor disables colored output
	NoColor bool

	// RefreshRate defines how often the display updates
	RefreshRate time.Duration

	// HideAfterComplete removes the progress line after completion
	HideAfterComplete bool

	// Source, when set, is polled on every refresh for the current status.
	Source func() Status
}

// Status represents the current scan state
type Status struct {
	// Directory currently being enumerated
	CurrentDir string

	Directories int64
	Files       int64
	Parsed      int64
	Errors      int64
}

// Statistics provides derived progress information
type Statistics struct {
	StartTime   time.Time
	ElapsedTime time.Duration

	// ParseRate is descriptors parsed per second
	ParseRate float64
}

// state is the lifecycle phase shown by a renderer.
type state int

const (
	stateRunning state = iota
	stateComplete
	stateFailed
)

// Progress defines the interface for progress visualization
type Progress interface {
	// Start begins progress visualization with initial message
	Start(message string)

	// Update updates the progress status
	Update(status Status)

	// Complete marks the operation as successfully completed
	Complete(message string)

	// Error marks the operation as failed
	Error(message string)

	// Stop stops progress visualization
	Stop()

	// EnableStats enables/disables statistics display
	EnableStats(enable bool)

	// IsSupportedTerminal checks if terminal supports advanced features
	IsSupportedTerminal() bool
}
