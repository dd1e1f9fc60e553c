package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func issueFor(r *Result, item, field string) *Issue {
	for i := range r.Issues {
		if r.Issues[i].Item == item && r.Issues[i].Field == field {
			return &r.Issues[i]
		}
	}
	return nil
}

func TestValidate_Valid(t *testing.T) {
	c := &Catalog{
		Version: ManifestVersion,
		Entries: []Entry{
			{Name: "nodejs", Description: "Runtime", Detect: DetectSpec{Commands: []string{"node"}}, Install: []Method{{Brew: "node"}}},
			{Name: "tool", Description: "Tool", DependsOn: []string{"nodejs"}, Detect: DetectSpec{Commands: []string{"tool"}}, Install: []Method{{Npm: "tool"}}},
		},
	}

	result := c.Validate()
	assert.Empty(t, result.Issues)
	assert.NoError(t, result.Err())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		item    string
		field   string
	}{
		{
			name:    "missing name",
			entries: []Entry{{Install: []Method{{Apt: "x"}}}},
			item:    "items[0]",
			field:   "name",
		},
		{
			name:    "bad name",
			entries: []Entry{{Name: "Bad Name", Install: []Method{{Apt: "x"}}}},
			item:    "Bad Name",
			field:   "name",
		},
		{
			name:    "duplicate",
			entries: []Entry{{Name: "a", Install: []Method{{Apt: "a"}}}, {Name: "a", Install: []Method{{Apt: "a"}}}},
			item:    "a",
			field:   "name",
		},
		{
			name:    "dependency declared later",
			entries: []Entry{{Name: "a", DependsOn: []string{"b"}, Install: []Method{{Apt: "a"}}}, {Name: "b", Install: []Method{{Apt: "b"}}}},
			item:    "a",
			field:   "depends_on",
		},
		{
			name:    "unknown dependency",
			entries: []Entry{{Name: "a", DependsOn: []string{"ghost"}, Install: []Method{{Apt: "a"}}}},
			item:    "a",
			field:   "depends_on",
		},
		{
			name:    "self dependency",
			entries: []Entry{{Name: "a", DependsOn: []string{"a"}, Install: []Method{{Apt: "a"}}}},
			item:    "a",
			field:   "depends_on",
		},
		{
			name:    "no install methods",
			entries: []Entry{{Name: "a"}},
			item:    "a",
			field:   "install",
		},
		{
			name:    "empty method",
			entries: []Entry{{Name: "a", Install: []Method{{}}}},
			item:    "a",
			field:   "install[0]",
		},
		{
			name:    "ambiguous method",
			entries: []Entry{{Name: "a", Install: []Method{{Apt: "a", Brew: "a"}}}},
			item:    "a",
			field:   "install[0]",
		},
		{
			name:    "relative script",
			entries: []Entry{{Name: "a", Install: []Method{{Script: "install.sh"}}}},
			item:    "a",
			field:   "install[0]",
		},
		{
			name:    "unknown detect manager",
			entries: []Entry{{Name: "a", Detect: DetectSpec{Package: &PackageSpec{Manager: "zypper", Name: "a"}}, Install: []Method{{Apt: "a"}}}},
			item:    "a",
			field:   "detect.package.manager",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := (&Catalog{Version: ManifestVersion, Entries: tt.entries}).Validate()

			assert.True(t, result.HasErrors())
			issue := issueFor(result, tt.item, tt.field)
			if assert.NotNil(t, issue, "issues: %v", result.Issues) {
				assert.Equal(t, SeverityError, issue.Severity)
			}
			assert.Error(t, result.Err())
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	c := &Catalog{
		Version: ManifestVersion,
		Entries: []Entry{{
			Name:      "a",
			Install:   []Method{{Script: "http://example.com/i.sh"}, {Apt: "a", Args: []string{"x"}}},
			ShellInit: map[string]string{"fish": "x"},
		}},
	}

	result := c.Validate()
	assert.False(t, result.HasErrors(), "issues: %v", result.Issues)
	assert.Equal(t, 5, result.WarningCount())
	assert.NotNil(t, issueFor(result, "a", "description"))
	assert.NotNil(t, issueFor(result, "a", "detect"))
	assert.NotNil(t, issueFor(result, "a", "shell_init"))
}

func TestValidate_CatalogLevel(t *testing.T) {
	result := (&Catalog{Version: 2}).Validate()

	assert.Equal(t, 2, result.ErrorCount())
	assert.NotNil(t, issueFor(result, "", "version"))
	assert.NotNil(t, issueFor(result, "", "items"))
}

func TestIssue_String(t *testing.T) {
	assert.Equal(t, "error: a.install: missing", Issue{Item: "a", Field: "install", Message: "missing", Severity: SeverityError}.String())
	assert.Equal(t, "warning: a: odd", Issue{Item: "a", Message: "odd", Severity: SeverityWarning}.String())
	assert.Equal(t, "error: bad version", Issue{Message: "bad version", Severity: SeverityError}.String())
}
