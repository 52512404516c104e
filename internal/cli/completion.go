package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dressup/pkg/catalog"
	"github.com/matzehuels/dressup/pkg/outfit"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for dressup.

Category flags such as --up and --hair complete to the item labels of the
catalog selected by --assets or the config file.

  $ source <(dressup completion bash)
  $ dressup completion zsh > "${fpath[1]}/_dressup"
  $ dressup completion fish > ~/.config/fish/completions/dressup.fish
  PS> dressup completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// flagCompleter is a cobra flag value completion function.
type flagCompleter func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective)

// completeItems completes the labels of category k, described by their url.
// Optional categories also offer "none".
func (c *CLI) completeItems(k catalog.Category) flagCompleter {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := c.config()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		cat, err := cfg.LoadCatalog()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		prefix := strings.ToLower(toComplete)
		var out []string
		if !k.Required() && strings.HasPrefix(outfit.None, prefix) {
			out = append(out, outfit.None+"\tno "+k.String())
		}
		for _, it := range cat.Items(k) {
			if strings.HasPrefix(strings.ToLower(it.Label), prefix) {
				out = append(out, it.Label+"\t"+it.URL)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

func categoryNames() []string {
	names := make([]string, len(catalog.Categories))
	for i, k := range catalog.Categories {
		names[i] = k.String()
	}
	return names
}
