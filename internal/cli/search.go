package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/relictum/pkg/config"
	"github.com/glorpus-work/relictum/pkg/launcher"
)

func newAddonBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "browse GAME [QUERY]",
		Aliases: []string{"search"},
		Short:   "Browse the add-on catalog",
		Long: `List the catalog add-ons for GAME, optionally filtered by a
case-insensitive QUERY on title and description.

Add-ons already present in the game's Interface/AddOns folder are marked.`,
		Args: cobra.RangeArgs(1, setCommandArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 1 {
				query = args[1]
			}
			return withLauncher(func(cfg *config.Config, l *launcher.Launcher) error {
				items, err := l.BrowseAddons(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("browse failed: %w", err)
				}
				return printCatalog(cfg, filterCatalog(items, query), query)
			})
		},
	}

	return cmd
}

func filterCatalog(items []launcher.CatalogItem, query string) []launcher.CatalogItem {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}
	out := make([]launcher.CatalogItem, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Title), query) || strings.Contains(strings.ToLower(it.Description), query) {
			out = append(out, it)
		}
	}
	return out
}

func printCatalog(cfg *config.Config, items []launcher.CatalogItem, query string) error {
	if jsonOutput(cfg) {
		return printJSON(items)
	}
	if len(items) == 0 {
		if query != "" {
			fmt.Printf("No addons found matching '%s'\n", query)
		} else {
			fmt.Println("No addons found")
		}
		return nil
	}

	fmt.Printf("%-30s %-10s %s\n", "TITLE", "STATUS", "DESCRIPTION")
	fmt.Println(strings.Repeat("-", 90))
	for _, it := range items {
		status := ""
		if it.Installed {
			status = "installed"
		}
		description := it.Description
		if len(description) > MaxDescriptionLength {
			description = description[:MaxDescriptionLength-3] + "..."
		}
		fmt.Printf("%-30s %-10s %s\n", it.Title, status, description)
		fmt.Printf("  %s\n", it.DetailURL)
	}
	fmt.Printf("\nFound %d addon(s)\n", len(items))
	return nil
}
