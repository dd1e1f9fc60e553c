package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/devbox/pkg/config"
	"github.com/jaspreet-dot-casa/devbox/pkg/installer"
	"github.com/jaspreet-dot-casa/devbox/pkg/rcfile"
	"github.com/jaspreet-dot-casa/devbox/pkg/ui"
)

type shellInitOptions struct {
	remove      bool
	catalogPath string
}

func newShellInitCmd() *cobra.Command {
	opts := &shellInitOptions{}

	cmd := &cobra.Command{
		Use:   "shell-init [item...]",
		Short: "Repair or remove shell integration blocks",
		Long: `Rewrite the rc file blocks of installed items that have shell integration,
or remove them with --remove.

The rc file is rc_file from the config, or ~/.bashrc / ~/.zshrc based on $SHELL.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShellInit(cmd, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.remove, "remove", false, "Remove the blocks instead of writing them")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "Catalog manifest (defaults to the built-in catalog)")

	return cmd
}

func runShellInit(cmd *cobra.Command, opts *shellInitOptions, args []string) error {
	out := cmd.OutOrStdout()
	s := ui.NewStyles(out)

	cfg, err := config.LoadOrDefault()
	if err != nil {
		return err
	}

	cat, err := loadCatalog(opts.catalogPath, cfg)
	if err != nil {
		return err
	}

	selected, err := selectItems(cat, cfg, args)
	if err != nil {
		return err
	}

	shell, rcPath := cfg.Shell()
	rc := rcfile.New(rcPath)
	exec := newExecutor()
	touched := 0

	for _, e := range selected.Entries {
		content, ok := e.ShellInit[shell]
		if !ok {
			continue
		}

		if opts.remove {
			changed, err := rc.Remove(e.Name)
			if err != nil {
				return err
			}
			if changed {
				touched++
				fmt.Fprintf(out, "%s %s removed\n", s.Success.Render(ui.SymbolOK), e.Name)
			}
			continue
		}

		if e.Detector(exec).Detect(cmd.Context()) != installer.Present {
			fmt.Fprintf(out, "%s %s not installed\n", s.Warning.Render(ui.SymbolSkip), e.Name)
			continue
		}
		changed, err := rc.Ensure(e.Name, content)
		if err != nil {
			return err
		}
		if changed {
			touched++
			fmt.Fprintf(out, "%s %s written\n", s.Success.Render(ui.SymbolOK), e.Name)
		} else {
			fmt.Fprintf(out, "%s %s up to date\n", s.Muted.Render(ui.SymbolOK), e.Name)
		}
	}

	fmt.Fprintf(out, "\n%d block(s) changed in %s\n", touched, rcPath)
	return nil
}

// shellInitStatus compares the block in rc with what the catalog would write.
func shellInitStatus(rc *rcfile.File, name, content string) (string, error) {
	current, found, err := rc.Block(name)
	if err != nil {
		return "", err
	}
	switch {
	case !found:
		return "missing", nil
	case current != strings.TrimRight(content, "\n"):
		return "outdated", nil
	default:
		return "ok", nil
	}
}
