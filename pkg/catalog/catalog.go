// Package catalog describes installable items as data and turns them into
// installer.Items.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownItem is returned when a name is not in the catalog.
var ErrUnknownItem = errors.New("unknown item")

// Category groups related items for listing and picking.
type Category string

const (
	CategoryGit     Category = "Git & Version Control"
	CategoryCLI     Category = "CLI Tools"
	CategoryShell   Category = "Shell & Terminal"
	CategoryRuntime Category = "Languages & Runtimes"
	CategoryAI      Category = "AI Assistants"
)

var categoryOrder = []Category{CategoryGit, CategoryCLI, CategoryShell, CategoryRuntime, CategoryAI}

// Entry is one item in the manifest.
type Entry struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Category    Category          `yaml:"category,omitempty"`
	Confirm     *bool             `yaml:"confirm,omitempty"`
	DependsOn   []string          `yaml:"depends_on,omitempty"`
	Detect      DetectSpec        `yaml:"detect,omitempty"`
	Install     []Method          `yaml:"install"`
	Update      string            `yaml:"update,omitempty"`
	ShellInit   map[string]string `yaml:"shell_init,omitempty"`
}

// RequiresConfirmation reports whether the user is asked before the entry is
// installed. Entries ask unless confirm is explicitly false.
func (e Entry) RequiresConfirmation() bool {
	return e.Confirm == nil || *e.Confirm
}

// DetectSpec lists the ways of telling that an entry is installed. Any match
// counts as present.
type DetectSpec struct {
	Commands    []string     `yaml:"commands,omitempty"`
	VersionArgs []string     `yaml:"version_args,omitempty"`
	File        string       `yaml:"file,omitempty"`
	Package     *PackageSpec `yaml:"package,omitempty"`
}

// IsZero reports whether no detection method is configured.
func (d DetectSpec) IsZero() bool {
	return len(d.Commands) == 0 && d.File == "" && d.Package == nil
}

// PackageSpec names a package in a package manager's database.
type PackageSpec struct {
	Manager string `yaml:"manager"`
	Name    string `yaml:"name"`
}

// Method is one install candidate. Exactly one field should be set; the
// package manager fields take whitespace-separated package names.
type Method struct {
	Apt    string   `yaml:"apt,omitempty"`
	Dnf    string   `yaml:"dnf,omitempty"`
	Pacman string   `yaml:"pacman,omitempty"`
	Brew   string   `yaml:"brew,omitempty"`
	Npm    string   `yaml:"npm,omitempty"`
	Script string   `yaml:"script,omitempty"`
	Args   []string `yaml:"args,omitempty"`
	Shell  string   `yaml:"shell,omitempty"`
}

// Kinds returns the names of the fields that are set.
func (m Method) Kinds() []string {
	var kinds []string
	for _, f := range []struct {
		kind, value string
	}{
		{"apt", m.Apt}, {"dnf", m.Dnf}, {"pacman", m.Pacman}, {"brew", m.Brew},
		{"npm", m.Npm}, {"script", m.Script}, {"shell", m.Shell},
	} {
		if strings.TrimSpace(f.value) != "" {
			kinds = append(kinds, f.kind)
		}
	}
	return kinds
}

// Catalog is an ordered set of entries.
// Note: Catalog is not safe for concurrent modification.
type Catalog struct {
	Version int     `yaml:"version"`
	Entries []Entry `yaml:"items"`
}

// Get returns the entry called name, or nil if there is none.
func (c *Catalog) Get(name string) *Entry {
	for i := range c.Entries {
		if c.Entries[i].Name == name {
			e := c.Entries[i]
			return &e
		}
	}
	return nil
}

// Names returns entry names in manifest order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.Entries)
}

// ByCategory groups entries by category, keeping manifest order inside each
// group. Entries without a category are grouped under CategoryCLI.
func (c *Catalog) ByCategory() map[Category][]Entry {
	groups := make(map[Category][]Entry)
	for _, e := range c.Entries {
		cat := e.Category
		if cat == "" {
			cat = CategoryCLI
		}
		groups[cat] = append(groups[cat], e)
	}
	return groups
}

// Categories returns the categories in use. Known categories come first in a
// fixed order, followed by custom ones in order of first appearance.
func (c *Catalog) Categories() []Category {
	groups := c.ByCategory()
	result := make([]Category, 0, len(groups))
	seen := make(map[Category]bool)
	for _, cat := range categoryOrder {
		if len(groups[cat]) > 0 {
			result = append(result, cat)
			seen[cat] = true
		}
	}
	for _, e := range c.Entries {
		cat := e.Category
		if cat == "" || seen[cat] {
			continue
		}
		result = append(result, cat)
		seen[cat] = true
	}
	return result
}

// Select returns a catalog holding the named entries and everything they
// depend on, in manifest order.
func (c *Catalog) Select(names ...string) (*Catalog, error) {
	wanted := make(map[string]bool)
	var visit func(name string, from string) error
	visit = func(name string, from string) error {
		if wanted[name] {
			return nil
		}
		e := c.Get(name)
		if e == nil {
			if from != "" {
				return fmt.Errorf("%s depends on %w %q", from, ErrUnknownItem, name)
			}
			return fmt.Errorf("%w %q", ErrUnknownItem, name)
		}
		wanted[name] = true
		for _, dep := range e.DependsOn {
			if err := visit(dep, name); err != nil {
				return err
			}
		}
		return nil
	}

	for _, name := range names {
		if err := visit(name, ""); err != nil {
			return nil, err
		}
	}
	return c.filter(func(e Entry) bool { return wanted[e.Name] }), nil
}

// Without returns a catalog lacking the named entries and every entry that
// depends on them, directly or not. Unknown names are ignored.
func (c *Catalog) Without(names ...string) *Catalog {
	removed := make(map[string]bool, len(names))
	for _, name := range names {
		removed[name] = true
	}
	// Dependencies point backwards in a valid manifest, so one pass in
	// order catches transitive dependents.
	for _, e := range c.Entries {
		for _, dep := range e.DependsOn {
			if removed[dep] {
				removed[e.Name] = true
				break
			}
		}
	}
	return c.filter(func(e Entry) bool { return !removed[e.Name] })
}

func (c *Catalog) filter(keep func(Entry) bool) *Catalog {
	out := &Catalog{Version: c.Version}
	for _, e := range c.Entries {
		if keep(e) {
			out.Entries = append(out.Entries, e)
		}
	}
	return out
}
