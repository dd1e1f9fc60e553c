package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/devbox/pkg/config"
)

func newListCmd() *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, catalogPath)
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog manifest (defaults to the built-in catalog)")

	return cmd
}

// runList lists all catalog items by category.
func runList(cmd *cobra.Command, catalogPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.LoadOrDefault()
	if err != nil {
		return err
	}

	cat, err := loadCatalog(catalogPath, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Found %d items:\n\n", cat.Len())

	groups := cat.ByCategory()
	for _, category := range cat.Categories() {
		fmt.Fprintf(out, "%s:\n", category)
		for _, e := range groups[category] {
			desc := e.Description
			if desc == "" {
				desc = "(no description)"
			}
			line := fmt.Sprintf("  - %s: %s", e.Name, desc)
			if len(e.DependsOn) > 0 {
				line += fmt.Sprintf(" (needs %s)", joinNames(e.DependsOn))
			}
			if cfg.IsDisabled(e.Name) {
				line += " [disabled]"
			}
			fmt.Fprintln(out, line)
		}
		fmt.Fprintln(out)
	}

	return nil
}
