package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/devbox/pkg/catalog"
	"github.com/jaspreet-dot-casa/devbox/pkg/config"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [manifest]",
		Short: "Validate a catalog manifest",
		Long: `Validate a catalog manifest. Without an argument the configured
manifest is checked, or the built-in catalog when none is configured.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runValidate,
	}
}

// runValidate prints every issue in the manifest.
func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	var path string
	if len(args) == 1 {
		path = args[0]
	}

	cfg, err := config.LoadOrDefault()
	if err != nil {
		return err
	}

	cat, err := loadCatalog(path, cfg)
	if err != nil {
		return err
	}

	result := cat.Validate()

	for _, issue := range result.Issues {
		prefix := "WARNING"
		if issue.Severity == catalog.SeverityError {
			prefix = "ERROR"
		}

		switch {
		case issue.Item != "" && issue.Field != "":
			fmt.Fprintf(out, "[%s] %s: %s (%s)\n", prefix, issue.Item, issue.Message, issue.Field)
		case issue.Item != "":
			fmt.Fprintf(out, "[%s] %s: %s\n", prefix, issue.Item, issue.Message)
		default:
			fmt.Fprintf(out, "[%s] %s\n", prefix, issue.Message)
		}
	}

	if result.HasErrors() {
		return fmt.Errorf("validation failed with %d error(s)", result.ErrorCount())
	}

	if len(result.Issues) == 0 {
		fmt.Fprintf(out, "Catalog is valid (%d items).\n", cat.Len())
	} else {
		fmt.Fprintf(out, "\nValidation passed with %d warning(s).\n", result.WarningCount())
	}

	return nil
}
