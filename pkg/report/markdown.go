package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/jaspreet-dot-casa/devbox/pkg/installer"
)

// escapeMarkdownTable escapes characters that would break markdown table cells.
func escapeMarkdownTable(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}

// escapeMarkdownText escapes characters for general markdown text.
func escapeMarkdownText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	s = strings.ReplaceAll(s, "`", "\\`")
	return s
}

const summaryTemplate = `# devbox install summary

Generated {{ .GeneratedAt }}.

| Setting | Value |
|---------|-------|
| Auto-approve | {{ yesno .Mode.AutoApprove }} |
| Reinstall | {{ yesno .Mode.ForceReinstall }} |

**{{ .Totals }}**
{{ range .Sections }}
## {{ .Heading }}

{{ range .Entries }}- [{{ if .Done }}x{{ else }} {{ end }}] {{ text .Name }}{{ if .Detail }}: {{ text .Detail }}{{ end }}
{{ end }}{{ end }}
## Details

| Item | Outcome | Reason |
|------|---------|--------|
{{ range .Rows }}| {{ cell .Name }} | {{ .Outcome.Kind }} | {{ cell .Outcome.Reason }} |
{{ end }}`

var summaryTmpl = template.Must(template.New("summary").Funcs(template.FuncMap{
	"text": escapeMarkdownText,
	"cell": escapeMarkdownTable,
	"yesno": func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	},
}).Parse(summaryTemplate))

// SummaryData holds all data for the summary markdown template.
type SummaryData struct {
	GeneratedAt string
	Mode        installer.Mode
	Totals      string
	Sections    []SectionSummary
	Rows        []installer.Entry
}

// SectionSummary is one non-empty bucket in the summary.
type SectionSummary struct {
	Heading string
	Entries []EntrySummary
}

// EntrySummary is one item line in a section.
type EntrySummary struct {
	Name   string
	Detail string
	Done   bool
}

// WriteMarkdown writes a markdown summary of r to path, creating parent
// directories. The file is removed again if writing fails.
func WriteMarkdown(path string, r *installer.Report, mode installer.Mode) (err error) {
	data := buildSummaryData(r, mode, time.Now())

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close summary file: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if err = summaryTmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	return nil
}

func buildSummaryData(r *installer.Report, mode installer.Mode, now time.Time) SummaryData {
	buckets := r.Buckets()

	data := SummaryData{
		GeneratedAt: now.Format(time.RFC1123),
		Mode:        mode,
		Totals:      Totals(r),
		Sections:    make([]SectionSummary, 0, len(installer.BucketOrder)),
		Rows:        r.Entries(),
	}

	for _, bucket := range installer.BucketOrder {
		entries := buckets[bucket]
		if len(entries) == 0 {
			continue
		}
		section := SectionSummary{Heading: Heading(bucket), Entries: make([]EntrySummary, 0, len(entries))}
		for _, e := range entries {
			section.Entries = append(section.Entries, EntrySummary{
				Name:   e.Name,
				Detail: firstLine(Detail(e.Outcome)),
				Done:   bucket != installer.BucketFailed && bucket != installer.BucketSkipped,
			})
		}
		data.Sections = append(data.Sections, section)
	}
	return data
}
