package installer

import "time"

// Stage represents where an item is in its evaluation.
type Stage string

const (
	StageDetecting  Stage = "detecting"
	StageConfirming Stage = "confirming"
	StageInstalling Stage = "installing"
	StageVerifying  Stage = "verifying"
	StageDone       Stage = "done"
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the stage.
func (s Stage) DisplayName() string {
	switch s {
	case StageDetecting:
		return "Detecting"
	case StageConfirming:
		return "Waiting for confirmation"
	case StageInstalling:
		return "Installing"
	case StageVerifying:
		return "Verifying"
	case StageDone:
		return "Done"
	default:
		return string(s)
	}
}

// Event is a progress update for a single item.
type Event struct {
	Stage     Stage
	Item      string
	Index     int // zero-based position in the run
	Total     int
	Message   string
	Outcome   *Outcome // set on StageDone
	Timestamp time.Time
}

// IsError reports whether the event records a failure.
func (e Event) IsError() bool {
	return e.Outcome != nil && e.Outcome.Kind == Failed
}

// ProgressCallback is called with progress updates during a run.
type ProgressCallback func(Event)

// NoOpProgress is a progress callback that does nothing.
func NoOpProgress(_ Event) {}
