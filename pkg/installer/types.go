// Package installer sequences installable items through detection, consent,
// installation and verification, and records exactly one outcome per item.
package installer

import (
	"context"
	"errors"
)

// Presence is the result of a detection check.
type Presence int

const (
	// Absent means the item is not installed.
	Absent Presence = iota
	// Present means the item is installed.
	Present
)

// String returns the string representation of the presence.
func (p Presence) String() string {
	if p == Present {
		return "present"
	}
	return "absent"
}

// Operation tells an Installer whether it is installing from scratch or
// reinstalling an item that is already present.
type Operation int

const (
	// OpInstall installs an absent item.
	OpInstall Operation = iota
	// OpUpdate reinstalls or upgrades a present item.
	OpUpdate
)

// String returns the string representation of the operation.
func (o Operation) String() string {
	if o == OpUpdate {
		return "update"
	}
	return "install"
}

// Detector reports whether an item is installed. It should be cheap and free
// of side effects.
type Detector interface {
	Detect(ctx context.Context) Presence
}

// Installer performs the installation. A nil error means success.
type Installer interface {
	Install(ctx context.Context, op Operation) error
}

// DetectFunc adapts a function to the Detector interface.
type DetectFunc func(ctx context.Context) Presence

// Detect calls f(ctx).
func (f DetectFunc) Detect(ctx context.Context) Presence {
	return f(ctx)
}

// InstallFunc adapts a function to the Installer interface.
type InstallFunc func(ctx context.Context, op Operation) error

// Install calls f(ctx, op).
func (f InstallFunc) Install(ctx context.Context, op Operation) error {
	return f(ctx, op)
}

// Prompt is what a ConsentProvider is asked about.
type Prompt struct {
	Item        string
	Description string
	Operation   Operation
}

// Question returns the human-readable question for the prompt.
func (p Prompt) Question() string {
	if p.Operation == OpUpdate {
		return "Reinstall " + p.Item + "?"
	}
	return "Install " + p.Item + "?"
}

// ConsentProvider returns a yes/no decision for a single item. Returning a
// *ConsentInputError means the answer was not recognised and the provider
// will be asked again.
type ConsentProvider interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// ConsentFunc adapts a function to the ConsentProvider interface.
type ConsentFunc func(ctx context.Context, p Prompt) (bool, error)

// Confirm calls f(ctx, p).
func (f ConsentFunc) Confirm(ctx context.Context, p Prompt) (bool, error) {
	return f(ctx, p)
}

// Item is one provisionable unit: a CLI tool, runtime or integration.
type Item struct {
	Name        string
	Description string
	Detector    Detector
	Installer   Installer

	// RequiresConfirmation gates the install behind the consent provider
	// unless the run is auto-approved.
	RequiresConfirmation bool

	// DependsOn names items that must be declared earlier in the same run.
	DependsOn []string
}

// Mode is fixed for the whole run.
type Mode struct {
	AutoApprove    bool `json:"auto_approve"`
	ForceReinstall bool `json:"force_reinstall"`
}

// OutcomeKind classifies what happened to an item.
type OutcomeKind int

const (
	AlreadyPresent OutcomeKind = iota
	Installed
	Updated
	SkippedByUser
	SkippedNoConsent
	Failed
)

// String returns the string representation of the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case AlreadyPresent:
		return "already-present"
	case Installed:
		return "installed"
	case Updated:
		return "updated"
	case SkippedByUser:
		return "skipped-by-user"
	case SkippedNoConsent:
		return "skipped-no-consent"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *OutcomeKind) UnmarshalText(text []byte) error {
	for c := AlreadyPresent; c <= Failed; c++ {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return errors.New("unknown outcome kind: " + string(text))
}

// Outcome is the single result recorded for an item.
type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	Reason string      `json:"reason,omitempty"`

	err error
}

// Err returns the underlying failure, if the outcome was produced in this
// process. Outcomes loaded from history only carry the Reason.
func (o Outcome) Err() error {
	return o.err
}

// IsSkipped reports whether the item was skipped for lack of consent.
func (o Outcome) IsSkipped() bool {
	return o.Kind == SkippedByUser || o.Kind == SkippedNoConsent
}

// blocksDependents reports whether items depending on this one must be
// short-circuited.
func (o Outcome) blocksDependents() bool {
	return o.Kind == Failed || o.IsSkipped()
}

// Entry pairs an item name with its outcome.
type Entry struct {
	Name    string  `json:"name"`
	Outcome Outcome `json:"outcome"`
}
