package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dressup/pkg/assets"
	"github.com/matzehuels/dressup/pkg/errors"
	"github.com/matzehuels/dressup/pkg/landmark"
)

// scanCommand creates the landmark scan command.
func (c *CLI) scanCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Detect body landmarks in a base character image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", args[0])
			}
			img, err := assets.DecodeImage(data)
			if err != nil {
				return err
			}

			prog := newProgress(loggerFromContext(cmd.Context()))
			meta := landmark.Scan(img)
			prog.done("scanned image", "path", args[0])

			if asJSON {
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(meta)
			}
			printKeyValue("size", fmt.Sprintf("%dx%d", meta.Width, meta.Height))
			for _, z := range landmark.Zones {
				printRegion(z, meta.Zone(z))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print landmarks as JSON")
	return cmd
}

func printRegion(z landmark.Zone, r landmark.Region) {
	printKeyValue(string(z), fmt.Sprintf("x %d..%d  y %d..%d  (%.0fx%.0f, center %.1f)",
		r.Left, r.Right, r.Top, r.Bottom, r.Width(), r.Height(), r.CenterX()))
}
