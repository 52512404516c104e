package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dressup/pkg/catalog"
)

// catalogCommand creates the catalog listing command.
func (c *CLI) catalogCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "catalog [category]",
		Short: "List garment categories and items",
		Long: `List the catalog in codec order. Item indices are the positions encoded
in outfit codes, so the listing changes codes if assets are added or renamed.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return categoryNames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			prog := newProgress(loggerFromContext(cmd.Context()))
			cat, err := cfg.LoadCatalog()
			if err != nil {
				return err
			}
			prog.done("loaded catalog", "items", cat.Total())

			cats := catalog.Categories
			if len(args) == 1 {
				one, err := catalog.ParseCategory(args[0])
				if err != nil {
					return err
				}
				cats = []catalog.Category{one}
			}

			if asJSON {
				out := make(map[catalog.Category][]catalog.AssetItem, len(cats))
				for _, k := range cats {
					out[k] = cat.Items(k)
				}
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			for i, k := range cats {
				if i > 0 {
					printNewline()
				}
				items := cat.Items(k)
				heading := StyleTitle.Render(k.String()) + " " + StyleDim.Render(fmt.Sprintf("(%d)", len(items)))
				if k.Required() {
					heading += " " + StyleDim.Render("required")
				}
				fmt.Println(heading)
				if len(items) == 0 {
					printDetail("no items")
				}
				for j, it := range items {
					printItem(j, it.PrettyLabel, it.URL)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")
	return cmd
}
