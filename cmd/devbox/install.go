package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/devbox/pkg/catalog"
	"github.com/jaspreet-dot-casa/devbox/pkg/config"
	"github.com/jaspreet-dot-casa/devbox/pkg/consent"
	"github.com/jaspreet-dot-casa/devbox/pkg/history"
	"github.com/jaspreet-dot-casa/devbox/pkg/installer"
	"github.com/jaspreet-dot-casa/devbox/pkg/logging"
	"github.com/jaspreet-dot-casa/devbox/pkg/rcfile"
	"github.com/jaspreet-dot-casa/devbox/pkg/report"
)

type installOptions struct {
	yes         bool
	reinstall   bool
	pick        bool
	plain       bool
	noHistory   bool
	catalogPath string
	summaryPath string
}

// newInstallCmd creates the install subcommand
func newInstallCmd() *cobra.Command {
	opts := &installOptions{}

	cmd := &cobra.Command{
		Use:   "install [item...]",
		Short: "Install missing tools",
		Long: `Install the named catalog items, or every enabled item when none are named.
Items that an item depends on are installed first.

Exits non-zero when any item fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, opts, args)
		},
	}

	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Install without asking")
	cmd.Flags().BoolVar(&opts.reinstall, "reinstall", false, "Reinstall items that are already present")
	cmd.Flags().BoolVar(&opts.reinstall, "update", false, "Alias for --reinstall")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "Choose items from an interactive list")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Ask with line prompts instead of single-key dialogs")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "Do not record this run")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "Catalog manifest (defaults to the built-in catalog)")
	cmd.Flags().StringVar(&opts.summaryPath, "summary", "", "Write a markdown summary to this file")

	return cmd
}

func runInstall(cmd *cobra.Command, opts *installOptions, args []string) error {
	log := logging.GetLogger("cli")
	out := cmd.OutOrStdout()

	cfg, err := config.LoadOrDefault()
	if err != nil {
		return err
	}

	cat, err := loadCatalog(opts.catalogPath, cfg)
	if err != nil {
		return err
	}

	names := args
	if opts.pick {
		names, err = pickItems(cat.Without(cfg.Disabled...))
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(out, "Nothing selected.")
			return nil
		}
	}

	selected, err := selectItems(cat, cfg, names)
	if err != nil {
		return err
	}

	shell, rcPath := cfg.Shell()
	items, err := selected.Build(catalog.Env{
		Exec:  newExecutor(),
		RC:    rcfile.New(rcPath),
		Shell: shell,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	mode := installer.Mode{
		AutoApprove:    opts.yes || cfg.AutoApprove,
		ForceReinstall: opts.reinstall,
	}

	orch := installer.New(consentProvider(cmd.InOrStdin(), out, opts.plain, cancel))
	orch.SetProgress(report.NewProgressPrinter(out))

	started := time.Now()
	rep, err := orch.Run(ctx, items, mode)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(out, "\nInterrupted, nothing recorded.")
		}
		return err
	}
	finished := time.Now()

	fmt.Fprintln(out)
	if err := report.Render(out, rep); err != nil {
		return err
	}

	if opts.summaryPath != "" {
		if err := report.WriteMarkdown(opts.summaryPath, rep, mode); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nSummary written to %s\n", opts.summaryPath)
	}

	if cfg.History && !opts.noHistory {
		store := history.NewStore(config.StateDir(), cfg.HistoryLimit)
		if err := store.Append(history.NewRun(started, finished, mode, rep)); err != nil {
			log.Warn().Err(err).Msg("Failed to record run history")
		}
	}

	return report.ExitError(rep)
}

// consentProvider picks a single-key dialog for terminals and line prompts
// otherwise.
func consentProvider(in io.Reader, out io.Writer, plain bool, interrupt func()) installer.ConsentProvider {
	if f, ok := in.(*os.File); ok && !plain {
		return consent.ForTerminal(f, out, interrupt)
	}
	return consent.NewReader(in, out)
}
