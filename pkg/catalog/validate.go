package catalog

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/jaspreet-dot-casa/devbox/pkg/system"
)

// Severity represents the severity of a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue represents a problem found in a manifest.
type Issue struct {
	Item     string   `json:"item,omitempty"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func (i Issue) String() string {
	var b strings.Builder
	b.WriteString(string(i.Severity))
	b.WriteString(": ")
	if i.Item != "" {
		b.WriteString(i.Item)
		if i.Field != "" {
			b.WriteString(".")
			b.WriteString(i.Field)
		}
		b.WriteString(": ")
	}
	b.WriteString(i.Message)
	return b.String()
}

// Result holds all validation results.
type Result struct {
	Issues []Issue `json:"issues"`
}

// HasErrors returns true if there are any error-level issues.
func (r *Result) HasErrors() bool {
	return r.ErrorCount() > 0
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	return r.count(SeverityError)
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	return r.count(SeverityWarning)
}

func (r *Result) count(s Severity) int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			count++
		}
	}
	return count
}

// Err returns an error summarising the error-level issues, or nil.
func (r *Result) Err() error {
	var msgs []string
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			msgs = append(msgs, issue.String())
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid manifest:\n  %s", strings.Join(msgs, "\n  "))
}

func (r *Result) add(item, field string, severity Severity, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Item:     item,
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
		Severity: severity,
	})
}

var nameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Validate checks the catalog for problems that would stop it from building
// or running in order.
func (c *Catalog) Validate() *Result {
	result := &Result{Issues: []Issue{}}

	if c.Version != ManifestVersion {
		result.add("", "version", SeverityError, "unsupported manifest version %d (expected %d)", c.Version, ManifestVersion)
	}
	if len(c.Entries) == 0 {
		result.add("", "items", SeverityError, "manifest has no items")
	}

	declared := make(map[string]bool, len(c.Entries))
	all := make(map[string]bool, len(c.Entries))
	for _, e := range c.Entries {
		all[e.Name] = true
	}

	for i, e := range c.Entries {
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("items[%d]", i)
			result.add(name, "name", SeverityError, "name is required")
		} else if !nameRe.MatchString(name) {
			result.add(name, "name", SeverityError, "name must be lowercase letters, digits, '.', '_' or '-'")
		}
		if e.Name != "" && declared[e.Name] {
			result.add(name, "name", SeverityError, "duplicate item name")
		}

		if strings.TrimSpace(e.Description) == "" {
			result.add(name, "description", SeverityWarning, "description is empty")
		}

		for _, dep := range e.DependsOn {
			switch {
			case dep == e.Name:
				result.add(name, "depends_on", SeverityError, "item depends on itself")
			case declared[dep]:
			case all[dep]:
				result.add(name, "depends_on", SeverityError, "dependency %q must be listed before this item", dep)
			default:
				result.add(name, "depends_on", SeverityError, "unknown dependency %q", dep)
			}
		}

		validateDetect(result, name, e.Detect)
		validateInstall(result, name, e.Install)

		for shell := range e.ShellInit {
			if shell != "bash" && shell != "zsh" {
				result.add(name, "shell_init", SeverityWarning, "unsupported shell %q is ignored", shell)
			}
		}

		if e.Name != "" {
			declared[e.Name] = true
		}
	}

	return result
}

func validateDetect(result *Result, name string, d DetectSpec) {
	if d.IsZero() {
		result.add(name, "detect", SeverityWarning, "no detect section; falls back to looking up %q on PATH", name)
		return
	}
	if p := d.Package; p != nil {
		if !system.Manager(p.Manager).Valid() {
			result.add(name, "detect.package.manager", SeverityError, "unknown package manager %q", p.Manager)
		}
		if strings.TrimSpace(p.Name) == "" {
			result.add(name, "detect.package.name", SeverityError, "package name is required")
		}
	}
}

func validateInstall(result *Result, name string, methods []Method) {
	if len(methods) == 0 {
		result.add(name, "install", SeverityError, "at least one install method is required")
		return
	}
	for i, m := range methods {
		field := fmt.Sprintf("install[%d]", i)
		kinds := m.Kinds()
		switch len(kinds) {
		case 0:
			result.add(name, field, SeverityError, "install method is empty")
			continue
		case 1:
		default:
			result.add(name, field, SeverityError, "install method sets more than one of %s", strings.Join(kinds, ", "))
			continue
		}
		if m.Script != "" {
			u, err := url.Parse(m.Script)
			if err != nil || u.Host == "" {
				result.add(name, field, SeverityError, "script must be an absolute URL")
			} else if u.Scheme != "https" {
				result.add(name, field, SeverityWarning, "script is not fetched over https")
			}
		}
		if len(m.Args) > 0 && m.Script == "" {
			result.add(name, field, SeverityWarning, "args are only used with script")
		}
	}
}
