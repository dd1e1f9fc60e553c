package installer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jaspreet-dot-casa/devbox/pkg/logging"
)

// Orchestrator runs items one at a time, in declaration order.
type Orchestrator struct {
	consent  ConsentProvider
	progress ProgressCallback
	log      zerolog.Logger
}

// New creates an Orchestrator that asks consent through the given provider.
// The provider may be nil if every run is auto-approved.
func New(consent ConsentProvider) *Orchestrator {
	return &Orchestrator{
		consent:  consent,
		progress: NoOpProgress,
		log:      logging.GetLogger("installer"),
	}
}

// SetProgress sets the progress callback.
func (o *Orchestrator) SetProgress(cb ProgressCallback) {
	if cb == nil {
		cb = NoOpProgress
	}
	o.progress = cb
}

// SetLogger replaces the logger.
func (o *Orchestrator) SetLogger(l zerolog.Logger) {
	o.log = l
}

// Run evaluates every item and returns the report. Item failures are
// recorded in the report and never returned as errors. Run only fails on a
// *PreconditionError, before anything executes, or when ctx is cancelled, in
// which case the partial report is discarded.
func (o *Orchestrator) Run(ctx context.Context, items []Item, mode Mode) (*Report, error) {
	hasDependents, err := o.validate(items, mode)
	if err != nil {
		return nil, err
	}

	o.log.Info().
		Int("items", len(items)).
		Bool("auto_approve", mode.AutoApprove).
		Bool("force_reinstall", mode.ForceReinstall).
		Msg("Starting run")

	report := newReport(len(items))
	outcomes := make(map[string]Outcome, len(items))

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			o.log.Warn().Err(err).Str("item", item.Name).Msg("Run interrupted, discarding report")
			return nil, err
		}

		step := &itemRun{o: o, item: item, index: i, total: len(items), mode: mode}
		outcome, err := step.evaluate(ctx, outcomes, hasDependents[item.Name])
		if err == nil {
			// Cancellation during an item discards the report too.
			err = ctx.Err()
		}
		if err != nil {
			o.log.Warn().Err(err).Str("item", item.Name).Msg("Run interrupted, discarding report")
			return nil, err
		}

		outcomes[item.Name] = outcome
		report.append(Entry{Name: item.Name, Outcome: outcome})
		step.emit(StageDone, outcome.Kind.String(), &outcome)
	}

	o.log.Info().Int("failed", len(report.Buckets()[BucketFailed])).Msg("Run complete")
	return report, nil
}

// validate checks run preconditions and returns the set of items that later
// items depend on.
func (o *Orchestrator) validate(items []Item, mode Mode) (map[string]bool, error) {
	if len(items) == 0 {
		return nil, &PreconditionError{Reason: "no items to run"}
	}

	seen := make(map[string]bool, len(items))
	hasDependents := make(map[string]bool)
	needsConsent := false

	for _, item := range items {
		if item.Name == "" {
			return nil, &PreconditionError{Reason: "item without a name"}
		}
		if seen[item.Name] {
			return nil, &PreconditionError{Item: item.Name, Reason: "declared more than once"}
		}
		if item.Detector == nil {
			return nil, &PreconditionError{Item: item.Name, Reason: "no detector"}
		}
		if item.Installer == nil {
			return nil, &PreconditionError{Item: item.Name, Reason: "no installer"}
		}
		for _, dep := range item.DependsOn {
			if !seen[dep] {
				return nil, &PreconditionError{
					Item:   item.Name,
					Reason: fmt.Sprintf("dependency %q must be declared before it", dep),
				}
			}
			hasDependents[dep] = true
		}
		if item.RequiresConfirmation {
			needsConsent = true
		}
		seen[item.Name] = true
	}

	if needsConsent && !mode.AutoApprove && o.consent == nil {
		return nil, &PreconditionError{Reason: "consent required but no consent provider configured"}
	}

	return hasDependents, nil
}

// itemRun holds the state for evaluating a single item.
type itemRun struct {
	o     *Orchestrator
	item  Item
	index int
	total int
	mode  Mode
}

// evaluate produces the outcome for one item. The error is non-nil only when
// the run must stop.
func (r *itemRun) evaluate(ctx context.Context, outcomes map[string]Outcome, required bool) (Outcome, error) {
	log := r.o.log.With().Str("item", r.item.Name).Logger()

	for _, dep := range r.item.DependsOn {
		if outcomes[dep].blocksDependents() {
			log.Debug().Str("dependency", dep).Stringer("dependency_outcome", outcomes[dep].Kind).
				Msg("Prerequisite not satisfied, skipping")
			return Outcome{
				Kind:   SkippedNoConsent,
				Reason: fmt.Sprintf("prerequisite %s was %s", dep, outcomes[dep].Kind),
			}, nil
		}
	}

	r.emit(StageDetecting, "", nil)
	presence, err := r.detect(ctx)
	if err != nil {
		return r.failed(OpInstall, err), nil
	}

	op := OpInstall
	if presence == Present {
		if !r.mode.ForceReinstall {
			log.Debug().Msg("Already present")
			return Outcome{Kind: AlreadyPresent}, nil
		}
		op = OpUpdate
	}

	if r.item.RequiresConfirmation && !r.mode.AutoApprove {
		r.emit(StageConfirming, "", nil)
		ok, err := r.confirm(ctx, op)
		if err != nil {
			return Outcome{}, err
		}
		if !ok {
			if required {
				log.Debug().Msg("Declined, dependents will be skipped")
				return Outcome{Kind: SkippedNoConsent, Reason: "declined"}, nil
			}
			log.Debug().Msg("Declined")
			return Outcome{Kind: SkippedByUser, Reason: "declined"}, nil
		}
	}

	r.emit(StageInstalling, op.String(), nil)
	started := time.Now()
	if err := r.install(ctx, op); err != nil {
		log.Warn().Err(err).Stringer("op", op).Msg("Install failed")
		return r.failed(op, err), nil
	}
	log.Debug().Dur("took", time.Since(started)).Stringer("op", op).Msg("Installer returned success")

	r.emit(StageVerifying, "", nil)
	presence, err = r.detect(ctx)
	if err != nil {
		return r.failed(op, err), nil
	}
	if presence != Present {
		log.Warn().Msg("Still absent after install")
		return r.failed(op, errors.New(ReasonVerificationFailed)), nil
	}

	if op == OpUpdate {
		return Outcome{Kind: Updated}, nil
	}
	return Outcome{Kind: Installed}, nil
}

// confirm asks the consent provider until it gives a valid answer. Errors
// other than unrecognised input count as a "no", unless the context is done.
func (r *itemRun) confirm(ctx context.Context, op Operation) (bool, error) {
	prompt := Prompt{Item: r.item.Name, Description: r.item.Description, Operation: op}

	for {
		ok, err := r.o.consent.Confirm(ctx, prompt)
		if err == nil {
			return ok, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}

		var inputErr *ConsentInputError
		if errors.As(err, &inputErr) {
			r.o.log.Debug().Str("item", r.item.Name).Str("input", inputErr.Input).Msg("Unrecognised answer, asking again")
			continue
		}

		r.o.log.Warn().Err(err).Str("item", r.item.Name).Msg("Could not read consent, treating as no")
		return false, nil
	}
}

func (r *itemRun) detect(ctx context.Context) (p Presence, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("detector panicked: %v", rec)
		}
	}()
	return r.item.Detector.Detect(ctx), nil
}

func (r *itemRun) install(ctx context.Context, op Operation) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("installer panicked: %v", rec)
		}
	}()
	return r.item.Installer.Install(ctx, op)
}

func (r *itemRun) failed(op Operation, err error) Outcome {
	failure := &ItemFailure{Item: r.item.Name, Op: op, Err: err}
	return Outcome{Kind: Failed, Reason: err.Error(), err: failure}
}

func (r *itemRun) emit(stage Stage, message string, outcome *Outcome) {
	r.o.progress(Event{
		Stage:     stage,
		Item:      r.item.Name,
		Index:     r.index,
		Total:     r.total,
		Message:   message,
		Outcome:   outcome,
		Timestamp: time.Now(),
	})
}
