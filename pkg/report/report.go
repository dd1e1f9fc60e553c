// Package report renders the outcome of an install run for people.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jaspreet-dot-casa/devbox/pkg/installer"
	"github.com/jaspreet-dot-casa/devbox/pkg/ui"
)

// Heading returns the display title of a bucket, e.g. "Already Present".
func Heading(b installer.Bucket) string {
	return cases.Title(language.English).String(string(b))
}

// Render writes a bucketed summary of r to w. Empty buckets are left out of
// the listing but still counted in the totals line.
func Render(w io.Writer, r *installer.Report) error {
	s := ui.NewStyles(w)
	buckets := r.Buckets()

	var b strings.Builder
	b.WriteString(s.Title.Render("Summary"))
	b.WriteString("\n")

	for _, bucket := range installer.BucketOrder {
		entries := buckets[bucket]
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n  %s %s\n", headingStyle(s, bucket).Render(Heading(bucket)), s.Muted.Render(fmt.Sprintf("(%d)", len(entries))))
		for _, e := range entries {
			b.WriteString("    ")
			b.WriteString(line(s, bucket, e))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(Totals(r))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// Totals returns the one-line count summary, e.g.
// "5 items: 2 installed, 0 updated, 1 already present, 1 skipped, 1 failed".
func Totals(r *installer.Report) string {
	buckets := r.Buckets()
	parts := make([]string, len(installer.BucketOrder))
	for i, bucket := range installer.BucketOrder {
		parts[i] = fmt.Sprintf("%d %s", len(buckets[bucket]), bucket)
	}
	noun := "items"
	if r.Len() == 1 {
		noun = "item"
	}
	return fmt.Sprintf("%d %s: %s", r.Len(), noun, strings.Join(parts, ", "))
}

func headingStyle(s ui.Styles, b installer.Bucket) lipgloss.Style {
	switch b {
	case installer.BucketFailed:
		return s.Error
	case installer.BucketSkipped:
		return s.Warning
	case installer.BucketAlreadyPresent:
		return s.Info
	default:
		return s.Success
	}
}

func line(s ui.Styles, b installer.Bucket, e installer.Entry) string {
	switch b {
	case installer.BucketFailed:
		return fmt.Sprintf("%s %s  %s", s.Error.Render(ui.SymbolFail), e.Name, s.Muted.Render(firstLine(e.Outcome.Reason)))
	case installer.BucketSkipped:
		return fmt.Sprintf("%s %s  %s", s.Warning.Render(ui.SymbolSkip), e.Name, s.Muted.Render(Detail(e.Outcome)))
	default:
		return fmt.Sprintf("%s %s", s.Success.Render(ui.SymbolOK), e.Name)
	}
}

// Detail explains an outcome in a few words.
func Detail(o installer.Outcome) string {
	switch o.Kind {
	case installer.SkippedByUser:
		return "declined"
	case installer.SkippedNoConsent:
		if o.Reason != "" {
			return o.Reason
		}
		return "not approved"
	case installer.Failed:
		return o.Reason
	default:
		return ""
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// FailedError reports the items that failed in a run.
type FailedError struct {
	Items []string
}

func (e *FailedError) Error() string {
	noun := "items"
	if len(e.Items) == 1 {
		noun = "item"
	}
	return fmt.Sprintf("%d %s failed: %s", len(e.Items), noun, strings.Join(e.Items, ", "))
}

// ExitError returns a *FailedError when any item failed, and nil otherwise.
func ExitError(r *installer.Report) error {
	if !r.HasFailures() {
		return nil
	}
	return &FailedError{Items: r.Buckets().Names(installer.BucketFailed)}
}
