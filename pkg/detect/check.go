package detect

import (
	"context"

	"github.com/jaspreet-dot-casa/devbox/pkg/installer"
)

// Status represents the result of probing a detector.
type Status int

const (
	// StatusOK indicates the tool is installed.
	StatusOK Status = iota
	// StatusMissing indicates the tool is not installed.
	StatusMissing
	// StatusError indicates the detector could not run.
	StatusError
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMissing:
		return "missing"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Check is the result of probing a single item without installing anything.
type Check struct {
	Name        string
	Description string
	Status      Status
	Message     string // version info or reason
}

// versioner is implemented by detectors that can report a version.
type versioner interface {
	Version(ctx context.Context) string
}

// Inspect runs a detector and describes the result for display.
func Inspect(ctx context.Context, name, description string, d installer.Detector) (check Check) {
	check = Check{Name: name, Description: description}

	defer func() {
		if r := recover(); r != nil {
			check.Status = StatusError
			check.Message = "detector failed"
		}
	}()

	if d == nil {
		check.Status = StatusError
		check.Message = "no detector"
		return check
	}

	if d.Detect(ctx) != installer.Present {
		check.Status = StatusMissing
		check.Message = "not installed"
		return check
	}

	check.Status = StatusOK
	check.Message = "installed"
	if v, ok := d.(versioner); ok {
		if version := v.Version(ctx); version != "" {
			check.Message = version
		}
	}
	return check
}

// Summary counts inspection results.
type Summary struct {
	Total   int
	OK      int
	Missing int
	Errors  int
}

// Summarize returns a summary of check results.
func Summarize(checks []Check) Summary {
	var summary Summary
	for _, c := range checks {
		summary.Total++
		switch c.Status {
		case StatusOK:
			summary.OK++
		case StatusMissing:
			summary.Missing++
		case StatusError:
			summary.Errors++
		}
	}
	return summary
}
