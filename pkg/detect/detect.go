// Package detect provides Detectors that decide whether a tool is already
// installed on the host.
package detect

import (
	"context"
	"regexp"
	"strings"

	"github.com/jaspreet-dot-casa/devbox/pkg/installer"
	"github.com/jaspreet-dot-casa/devbox/pkg/system"
)

var defaultVersionRe = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?(?:-[a-zA-Z0-9]+)?)`)

// Command is present when any of its names resolves on PATH. Debian ships
// some tools under a different name (fdfind, batcat), hence the list.
type Command struct {
	Exec         system.CommandExecutor
	Names        []string
	VersionArgs  []string       // defaults to --version
	VersionRegex *regexp.Regexp // first submatch is the version
}

// Detect implements installer.Detector.
func (c *Command) Detect(_ context.Context) installer.Presence {
	if _, ok := c.lookup(); ok {
		return installer.Present
	}
	return installer.Absent
}

// Version returns the installed version, or "" when it cannot be determined.
func (c *Command) Version(ctx context.Context) string {
	path, ok := c.lookup()
	if !ok {
		return ""
	}
	args := c.VersionArgs
	if len(args) == 0 {
		args = []string{"--version"}
	}
	output, err := c.Exec.Run(ctx, path, args...)
	if err != nil {
		return ""
	}
	return extractVersion(output, c.VersionRegex)
}

func (c *Command) lookup() (string, bool) {
	for _, name := range c.Names {
		if path, err := c.Exec.LookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}

// File is present when its path exists.
type File struct {
	Exec system.CommandExecutor
	Path string
}

// Detect implements installer.Detector.
func (f *File) Detect(_ context.Context) installer.Presence {
	if f.Exec.FileExists(system.ExpandHome(f.Path)) {
		return installer.Present
	}
	return installer.Absent
}

// Package is present when the package manager's database lists the package.
type Package struct {
	Exec    system.CommandExecutor
	Manager system.Manager
	Name    string
}

// Detect implements installer.Detector.
func (p *Package) Detect(ctx context.Context) installer.Presence {
	if !p.Manager.Available(p.Exec) {
		return installer.Absent
	}

	var (
		output string
		err    error
	)
	switch p.Manager {
	case system.ManagerApt:
		output, err = p.Exec.Run(ctx, "dpkg-query", "-W", "-f=${Status}", p.Name)
		if err == nil && strings.Contains(output, "install ok installed") {
			return installer.Present
		}
		return installer.Absent
	case system.ManagerDnf:
		_, err = p.Exec.Run(ctx, "rpm", "-q", p.Name)
	case system.ManagerPacman:
		_, err = p.Exec.Run(ctx, "pacman", "-Q", p.Name)
	case system.ManagerBrew:
		output, err = p.Exec.Run(ctx, "brew", "list", "--versions", p.Name)
		if err == nil && strings.TrimSpace(output) == "" {
			return installer.Absent
		}
	case system.ManagerNpm:
		output, err = p.Exec.Run(ctx, "npm", "ls", "-g", "--depth=0", p.Name)
		if err == nil && !strings.Contains(output, p.Name) {
			return installer.Absent
		}
	default:
		return installer.Absent
	}

	if err != nil {
		return installer.Absent
	}
	return installer.Present
}

// Any is present when at least one of its detectors is.
type Any []installer.Detector

// Detect implements installer.Detector.
func (a Any) Detect(ctx context.Context) installer.Presence {
	for _, d := range a {
		if d.Detect(ctx) == installer.Present {
			return installer.Present
		}
	}
	return installer.Absent
}

// extractVersion extracts version string from command output.
func extractVersion(output string, regex *regexp.Regexp) string {
	if regex == nil {
		regex = defaultVersionRe
	}
	matches := regex.FindStringSubmatch(output)
	if len(matches) >= 2 {
		return matches[1]
	}
	return ""
}

// Version returns the version reported by the first detector that knows one.
func (a Any) Version(ctx context.Context) string {
	for _, d := range a {
		if v, ok := d.(versioner); ok {
			if version := v.Version(ctx); version != "" {
				return version
			}
		}
	}
	return ""
}
