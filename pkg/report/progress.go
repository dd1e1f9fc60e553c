package report

import (
	"fmt"
	"io"

	"github.com/jaspreet-dot-casa/devbox/pkg/installer"
	"github.com/jaspreet-dot-casa/devbox/pkg/ui"
)

// NewProgressPrinter returns a progress callback that prints one line when
// an install starts and one when each item is done.
func NewProgressPrinter(w io.Writer) installer.ProgressCallback {
	s := ui.NewStyles(w)

	return func(e installer.Event) {
		counter := s.Muted.Render(fmt.Sprintf("[%d/%d]", e.Index+1, e.Total))

		switch e.Stage {
		case installer.StageInstalling:
			verb := "Installing"
			if e.Message == installer.OpUpdate.String() {
				verb = "Reinstalling"
			}
			fmt.Fprintf(w, "%s %s %s...\n", counter, s.Info.Render(verb), e.Item)

		case installer.StageDone:
			if e.Outcome == nil {
				return
			}
			o := *e.Outcome
			if e.IsError() {
				fmt.Fprintf(w, "%s %s %s failed: %s\n", counter, s.Error.Render(ui.SymbolFail), e.Item, firstLine(o.Reason))
				return
			}
			switch bucket := installer.BucketOf(o.Kind); bucket {
			case installer.BucketSkipped:
				fmt.Fprintf(w, "%s %s %s skipped (%s)\n", counter, s.Warning.Render(ui.SymbolSkip), e.Item, Detail(o))
			default:
				fmt.Fprintf(w, "%s %s %s %s\n", counter, s.Success.Render(ui.SymbolOK), e.Item, bucket)
			}
		}
	}
}
