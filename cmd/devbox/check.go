package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/devbox/pkg/config"
	"github.com/jaspreet-dot-casa/devbox/pkg/detect"
	"github.com/jaspreet-dot-casa/devbox/pkg/rcfile"
	"github.com/jaspreet-dot-casa/devbox/pkg/ui"
)

func newCheckCmd() *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "check [item...]",
		Short: "Show which tools are installed",
		Long: `Detect every catalog item without installing anything.

Reports the installed version where the tool can tell.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, catalogPath, args)
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog manifest (defaults to the built-in catalog)")

	return cmd
}

func runCheck(cmd *cobra.Command, catalogPath string, args []string) error {
	out := cmd.OutOrStdout()
	s := ui.NewStyles(out)

	cfg, err := config.LoadOrDefault()
	if err != nil {
		return err
	}

	cat, err := loadCatalog(catalogPath, cfg)
	if err != nil {
		return err
	}

	selected, err := selectItems(cat, cfg, args)
	if err != nil {
		return err
	}

	exec := newExecutor()
	shell, rcPath := cfg.Shell()
	rc := rcfile.New(rcPath)
	checks := make([]detect.Check, 0, selected.Len())

	groups := selected.ByCategory()

	fmt.Fprintln(out, s.Title.Render("Installed tools"))
	for _, category := range selected.Categories() {
		fmt.Fprintf(out, "\n%s\n", s.Subtitle.Render(string(category)))
		for _, e := range groups[category] {
			check := detect.Inspect(cmd.Context(), e.Name, e.Description, e.Detector(exec))
			checks = append(checks, check)
			line := fmt.Sprintf("  %s %-14s %s", checkSymbol(s, check.Status), check.Name, s.Muted.Render(check.Message))
			if content, ok := e.ShellInit[shell]; ok && check.Status == detect.StatusOK {
				status, err := shellInitStatus(rc, e.Name, content)
				if err != nil {
					return err
				}
				line += s.Muted.Render(fmt.Sprintf(" (shell integration %s)", status))
			}
			fmt.Fprintln(out, line)
		}
	}

	summary := detect.Summarize(checks)
	fmt.Fprintf(out, "\n%d of %d installed", summary.OK, summary.Total)
	if summary.Errors > 0 {
		fmt.Fprintf(out, ", %d could not be checked", summary.Errors)
	}
	fmt.Fprintln(out)

	return nil
}

func checkSymbol(s ui.Styles, status detect.Status) string {
	switch status {
	case detect.StatusOK:
		return s.Success.Render(ui.SymbolOK)
	case detect.StatusMissing:
		return s.Warning.Render(ui.SymbolSkip)
	default:
		return s.Error.Render(ui.SymbolFail)
	}
}
