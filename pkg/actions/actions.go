// Package actions provides Installers that shell out to package managers and
// vendor install scripts.
package actions

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jaspreet-dot-casa/devbox/pkg/installer"
	"github.com/jaspreet-dot-casa/devbox/pkg/logging"
	"github.com/jaspreet-dot-casa/devbox/pkg/rcfile"
	"github.com/jaspreet-dot-casa/devbox/pkg/system"
)

// ErrNoPackageManager is returned when none of an item's install methods can
// be used on this host.
var ErrNoPackageManager = errors.New("no supported install method available")

// maxOutputLines bounds how much command output is kept in an error.
const maxOutputLines = 15

// Shell runs a command through sh -c.
type Shell struct {
	Exec          system.CommandExecutor
	Command       string
	UpdateCommand string // used for OpUpdate when set
}

// Install implements installer.Installer.
func (s *Shell) Install(ctx context.Context, op installer.Operation) error {
	command := s.Command
	if op == installer.OpUpdate && s.UpdateCommand != "" {
		command = s.UpdateCommand
	}
	if strings.TrimSpace(command) == "" {
		return errors.New("no command to run")
	}
	return run(ctx, s.Exec, "sh", "-c", command)
}

// Package installs one or more packages with a package manager.
type Package struct {
	Exec    system.CommandExecutor
	Manager system.Manager
	Names   []string
}

// Install implements installer.Installer.
func (p *Package) Install(ctx context.Context, op installer.Operation) error {
	argv, err := p.Command(ctx, op)
	if err != nil {
		return err
	}
	return run(ctx, p.Exec, argv[0], argv[1:]...)
}

// Command returns the argv used for op. System managers run under sudo
// unless devbox is root, and so does npm when its global prefix is not
// writable.
func (p *Package) Command(ctx context.Context, op installer.Operation) ([]string, error) {
	update := op == installer.OpUpdate

	var args []string
	switch p.Manager {
	case system.ManagerApt:
		args = []string{"install", "-y"}
		if update {
			args = append(args, "--reinstall")
		}
	case system.ManagerDnf:
		args = []string{"install", "-y"}
		if update {
			args = []string{"reinstall", "-y"}
		}
	case system.ManagerPacman:
		args = []string{"-S", "--noconfirm", "--needed"}
		if update {
			args = []string{"-S", "--noconfirm"}
		}
	case system.ManagerBrew:
		args = []string{"install"}
		if update {
			args = []string{"reinstall"}
		}
	case system.ManagerNpm:
		args = []string{"install", "-g"}
	default:
		return nil, fmt.Errorf("unsupported package manager %q", p.Manager)
	}
	if len(p.Names) == 0 {
		return nil, errors.New("no package names")
	}

	argv := append([]string{p.Manager.Binary()}, args...)
	for _, name := range p.Names {
		if update && p.Manager == system.ManagerNpm {
			name += "@latest"
		}
		argv = append(argv, name)
	}
	if p.needsSudo(ctx) {
		argv = append([]string{"sudo"}, argv...)
	}
	return argv, nil
}

func (p *Package) needsSudo(ctx context.Context) bool {
	if p.Exec.IsRoot() {
		return false
	}
	if p.Manager.System() {
		return true
	}
	if p.Manager == system.ManagerNpm {
		return !p.npmPrefixWritable(ctx)
	}
	return false
}

// npmPrefixWritable checks the directory global packages land in. If npm
// cannot report its prefix, npm itself will report the real error.
func (p *Package) npmPrefixWritable(ctx context.Context) bool {
	out, err := p.Exec.Run(ctx, "npm", "prefix", "-g")
	prefix := strings.TrimSpace(out)
	if err != nil || prefix == "" {
		return true
	}
	dir := filepath.Join(prefix, "lib", "node_modules")
	if !p.Exec.FileExists(dir) {
		dir = prefix
	}
	return p.Exec.Writable(dir)
}

// Script pipes a vendor install script into a shell.
type Script struct {
	Exec  system.CommandExecutor
	URL   string
	Shell string   // defaults to sh
	Args  []string // passed to the script
}

// Install implements installer.Installer. The same script is used for
// updates since vendor scripts install the latest release.
func (s *Script) Install(ctx context.Context, _ installer.Operation) error {
	return run(ctx, s.Exec, "sh", "-c", s.Command())
}

// Command returns the shell pipeline that fetches and runs the script.
func (s *Script) Command() string {
	shell := s.Shell
	if shell == "" {
		shell = "sh"
	}
	cmd := fmt.Sprintf("curl -fsSL %s | %s", shellQuote(s.URL), shell)
	if len(s.Args) > 0 {
		quoted := make([]string, len(s.Args))
		for i, a := range s.Args {
			quoted[i] = shellQuote(a)
		}
		cmd += " -s -- " + strings.Join(quoted, " ")
	}
	return cmd
}

// Candidate is one way of installing an item.
type Candidate struct {
	Manager   system.Manager // empty means usable everywhere
	Installer installer.Installer
}

// Selector installs with the first candidate whose package manager is
// available. The choice is made at install time, so a manager installed
// earlier in the same run (npm after Node.js) is picked up.
type Selector struct {
	Exec       system.CommandExecutor
	Candidates []Candidate
}

// Install implements installer.Installer.
func (s *Selector) Install(ctx context.Context, op installer.Operation) error {
	c, err := s.Pick()
	if err != nil {
		return err
	}
	logger := logging.GetLogger("actions")
	logger.Debug().Str("manager", string(c.Manager)).Stringer("op", op).Msg("Selected install method")
	return c.Installer.Install(ctx, op)
}

// Pick returns the candidate that would be used right now.
func (s *Selector) Pick() (Candidate, error) {
	var tried []string
	for _, c := range s.Candidates {
		if c.Manager == "" || c.Manager.Available(s.Exec) {
			return c, nil
		}
		tried = append(tried, string(c.Manager))
	}
	if len(tried) == 0 {
		return Candidate{}, ErrNoPackageManager
	}
	return Candidate{}, fmt.Errorf("%w (tried %s)", ErrNoPackageManager, strings.Join(tried, ", "))
}

// ShellInit runs an installer and then writes a block into a shell rc file.
type ShellInit struct {
	Inner   installer.Installer
	RC      *rcfile.File
	Block   string
	Content string
}

// Install implements installer.Installer.
func (s *ShellInit) Install(ctx context.Context, op installer.Operation) error {
	if err := s.Inner.Install(ctx, op); err != nil {
		return err
	}
	if _, err := s.RC.Ensure(s.Block, s.Content); err != nil {
		return fmt.Errorf("installed but failed to update %s: %w", s.RC.Path, err)
	}
	return nil
}

func run(ctx context.Context, exec system.CommandExecutor, name string, args ...string) error {
	logging.LogCommand(logging.GetLogger("actions"), name, args)
	output, err := exec.CombinedOutput(ctx, name, args...)
	if err != nil {
		if tail := lastLines(string(output), maxOutputLines); tail != "" {
			return fmt.Errorf("%s failed: %w\nOutput: %s", name, err, tail)
		}
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
