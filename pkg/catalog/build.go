package catalog

import (
	"context"
	"strings"

	"github.com/jaspreet-dot-casa/devbox/pkg/actions"
	"github.com/jaspreet-dot-casa/devbox/pkg/detect"
	"github.com/jaspreet-dot-casa/devbox/pkg/installer"
	"github.com/jaspreet-dot-casa/devbox/pkg/logging"
	"github.com/jaspreet-dot-casa/devbox/pkg/rcfile"
	"github.com/jaspreet-dot-casa/devbox/pkg/system"
)

// Env is the host-specific context items are built for.
type Env struct {
	Exec system.CommandExecutor
	// RC receives shell_init blocks. Nil disables shell integration.
	RC *rcfile.File
	// Shell selects the shell_init variant, e.g. "bash" or "zsh".
	Shell string
}

// Build validates the catalog and turns each entry into an installer.Item
// in manifest order.
func (c *Catalog) Build(env Env) ([]installer.Item, error) {
	if err := c.Validate().Err(); err != nil {
		return nil, err
	}

	items := make([]installer.Item, 0, len(c.Entries))
	for _, e := range c.Entries {
		items = append(items, installer.Item{
			Name:                 e.Name,
			Description:          e.Description,
			Detector:             e.Detector(env.Exec),
			Installer:            e.installer(env),
			RequiresConfirmation: e.RequiresConfirmation(),
			DependsOn:            append([]string(nil), e.DependsOn...),
		})
	}
	return items, nil
}

// Detector returns the detector described by the entry's detect section.
func (e Entry) Detector(exec system.CommandExecutor) installer.Detector {
	d := e.Detect
	if d.IsZero() {
		return &detect.Command{Exec: exec, Names: []string{e.Name}}
	}

	var detectors detect.Any
	if len(d.Commands) > 0 {
		detectors = append(detectors, &detect.Command{Exec: exec, Names: d.Commands, VersionArgs: d.VersionArgs})
	}
	if d.File != "" {
		detectors = append(detectors, &detect.File{Exec: exec, Path: d.File})
	}
	if d.Package != nil {
		detectors = append(detectors, &detect.Package{Exec: exec, Manager: system.Manager(d.Package.Manager), Name: d.Package.Name})
	}
	if len(detectors) == 1 {
		return detectors[0]
	}
	return detectors
}

func (e Entry) installer(env Env) installer.Installer {
	selector := &actions.Selector{Exec: env.Exec}
	for _, m := range e.Install {
		selector.Candidates = append(selector.Candidates, m.candidate(env.Exec))
	}

	var inst installer.Installer = selector
	if e.Update != "" {
		update := &actions.Shell{Exec: env.Exec, Command: e.Update}
		inst = installer.InstallFunc(func(ctx context.Context, op installer.Operation) error {
			if op == installer.OpUpdate {
				return update.Install(ctx, op)
			}
			return selector.Install(ctx, op)
		})
	}

	if content, ok := e.ShellInit[env.Shell]; ok && content != "" {
		if env.RC == nil {
			logger := logging.GetLogger("catalog")
			logger.Debug().Str("item", e.Name).Msg("No rc file configured, skipping shell integration")
			return inst
		}
		inst = &actions.ShellInit{Inner: inst, RC: env.RC, Block: e.Name, Content: content}
	}
	return inst
}

func (m Method) candidate(exec system.CommandExecutor) actions.Candidate {
	for _, p := range []struct {
		manager system.Manager
		names   string
	}{
		{system.ManagerApt, m.Apt},
		{system.ManagerDnf, m.Dnf},
		{system.ManagerPacman, m.Pacman},
		{system.ManagerBrew, m.Brew},
		{system.ManagerNpm, m.Npm},
	} {
		if strings.TrimSpace(p.names) != "" {
			return actions.Candidate{
				Manager:   p.manager,
				Installer: &actions.Package{Exec: exec, Manager: p.manager, Names: strings.Fields(p.names)},
			}
		}
	}
	if m.Script != "" {
		return actions.Candidate{Installer: &actions.Script{Exec: exec, URL: m.Script, Args: m.Args}}
	}
	return actions.Candidate{Installer: &actions.Shell{Exec: exec, Command: m.Shell}}
}
