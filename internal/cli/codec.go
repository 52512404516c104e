package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dressup/pkg/catalog"
	"github.com/matzehuels/dressup/pkg/codec"
	"github.com/matzehuels/dressup/pkg/outfit"
)

// encodeCommand creates the encode command.
func (c *CLI) encodeCommand() *cobra.Command {
	var (
		sel    selectionFlags
		fields bool
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Pack an outfit into a numeric code",
		Example: `  dressup encode --hair long --up "Long Sleeve" --down jeans
  dressup encode --code 593 --hair none`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			cat, err := cfg.LoadCatalog()
			if err != nil {
				return err
			}
			s, err := sel.selection(cat)
			if err != nil {
				return err
			}
			code := codec.Encode(s, cat)
			fmt.Fprintln(c.Out, uint32(code))
			if fields {
				printFields(code, s, cat)
			}
			return nil
		},
	}

	sel.register(cmd, c.completeItems)
	cmd.Flags().BoolVar(&fields, "fields", false, "show the per-category field values")
	return cmd
}

// decodeCommand creates the decode command.
func (c *CLI) decodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <code>",
		Short: "Show the outfit a code selects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := codec.Parse(args[0])
			if err != nil {
				return err
			}
			cfg, err := c.config()
			if err != nil {
				return err
			}
			cat, err := cfg.LoadCatalog()
			if err != nil {
				return err
			}
			printFields(code, codec.Decode(code, cat), cat)
			if norm := codec.Encode(codec.Decode(code, cat), cat); norm != code {
				printDetail("normalized code: %d", norm)
			}
			return nil
		},
	}
}

// printFields prints one line per category: raw field value and the item it
// selects.
func printFields(code codec.Code, sel outfit.Selection, cat *catalog.Catalog) {
	raw := codec.Fields(code)
	for _, k := range catalog.Categories {
		value := StyleDim.Render("none")
		if url, ok := sel.Get(k); ok {
			it, _ := cat.Item(k, url)
			value = it.PrettyLabel + " " + StyleDim.Render(url)
		}
		printKeyValue(k.String(), StyleNumber.Render(fmt.Sprintf("%d", raw[k]))+"  "+value)
	}
}
