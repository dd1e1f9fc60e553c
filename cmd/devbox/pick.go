package main

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/jaspreet-dot-casa/devbox/pkg/catalog"
	"github.com/jaspreet-dot-casa/devbox/pkg/ui"
)

// pickItems lets the user choose catalog items from a multi-select list.
func pickItems(c *catalog.Catalog) ([]string, error) {
	var selected []string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select Items").
				Description("Choose what to install (all selected by default)").
				Options(buildItemOptions(c)...).
				Value(&selected),
		),
	).WithTheme(ui.Theme())

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}
	return selected, nil
}

// buildItemOptions builds the multi-select options grouped by category.
func buildItemOptions(c *catalog.Catalog) []huh.Option[string] {
	options := make([]huh.Option[string], 0, c.Len())
	groups := c.ByCategory()

	for _, category := range c.Categories() {
		for _, e := range groups[category] {
			label := e.Name
			if e.Description != "" {
				label = fmt.Sprintf("%s - %s", e.Name, e.Description)
			}
			options = append(options, huh.NewOption(label, e.Name).Selected(true))
		}
	}

	return options
}
