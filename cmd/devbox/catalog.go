package main

import (
	"fmt"
	"strings"

	"github.com/jaspreet-dot-casa/devbox/pkg/catalog"
	"github.com/jaspreet-dot-casa/devbox/pkg/config"
)

// loadCatalog loads the manifest at path, falling back to the configured
// manifest and then the built-in catalog.
func loadCatalog(path string, cfg *config.Config) (*catalog.Catalog, error) {
	if path == "" {
		path = cfg.Catalog
	}
	if path == "" {
		c, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("failed to load built-in catalog: %w", err)
		}
		return c, nil
	}
	return catalog.Load(path)
}

// selectItems narrows the catalog to what the user asked for. Without
// names, every item not disabled in the config is selected.
func selectItems(c *catalog.Catalog, cfg *config.Config, names []string) (*catalog.Catalog, error) {
	if len(names) == 0 {
		return c.Without(cfg.Disabled...), nil
	}
	return c.Select(names...)
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
