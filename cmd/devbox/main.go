// Package main provides the devbox CLI for setting up a development machine.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/devbox/pkg/config"
	"github.com/jaspreet-dot-casa/devbox/pkg/consent"
	"github.com/jaspreet-dot-casa/devbox/pkg/logging"
	"github.com/jaspreet-dot-casa/devbox/pkg/system"
)

// version is set via -ldflags during build
var version = "dev"

// newExecutor is replaced in tests.
var newExecutor = func() system.CommandExecutor {
	return &system.RealExecutor{}
}

func main() {
	rootCmd := newRootCmd()

	// Cobra handles error printing
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	if errors.Is(err, context.Canceled) || errors.Is(err, consent.ErrInterrupted) {
		return 130
	}
	return 1
}

// newRootCmd creates the root command for devbox
func newRootCmd() *cobra.Command {
	var verbose int

	rootCmd := &cobra.Command{
		Use:   "devbox",
		Short: "Development machine setup tool",
		Long: `devbox installs the tools a development machine needs, one item at a time.

For every item it:
  - Detects whether the tool is already installed
  - Asks before installing anything (unless --yes is given)
  - Installs with the first available package manager
  - Verifies the install and reports the outcome`,
		Version: version,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logging.SetupLogger(verbose, config.StateDir())
		},
	}

	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "Increase log verbosity (-v, -vv, -vvv)")

	rootCmd.AddCommand(
		newInstallCmd(),
		newCheckCmd(),
		newListCmd(),
		newValidateCmd(),
		newHistoryCmd(),
		newInitCmd(),
		newShellInitCmd(),
	)

	return rootCmd
}
