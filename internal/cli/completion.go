package cli

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vitrinhq/vitrin/pkg/header"
	"github.com/vitrinhq/vitrin/pkg/pipeline"
	"github.com/vitrinhq/vitrin/pkg/render"
	"github.com/vitrinhq/vitrin/pkg/templates"
)

// completionCommand prints a shell completion script.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for vitrin.

Besides commands and flags, the scripts complete header values
(--logo-size, --logo-position, --title-position), template ids,
surfaces, output formats and catalog file names.

  bash:        source <(vitrin completion bash)
  zsh:         vitrin completion zsh > "${fpath[1]}/_vitrin"
  fish:        vitrin completion fish > ~/.config/fish/completions/vitrin.fish
  powershell:  vitrin completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return root.GenBashCompletionV2(os.Stdout, true)
		},
	}
}

// flagValues lists the values offered for domain flags, wherever a command
// declares them.
var flagValues = map[string]func() []string{
	"template":       templates.IDs,
	"logo-size":      func() []string { return names(header.Tiers()) },
	"logo-position":  func() []string { return names(header.LogoPositions()) },
	"title-position": func() []string { return names(header.TitlePositions()) },
	"surface":        func() []string { return names(render.Surfaces()) },
}

// formats is completed per comma-separated element.
var formats = []string{pipeline.FormatHTML, pipeline.FormatJSON, pipeline.FormatPDF, pipeline.FormatPNG}

func names[T ~string](vs []T) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}

// registerCompletions attaches value completions to cmd and its children.
func registerCompletions(cmd *cobra.Command) {
	for name, values := range flagValues {
		if cmd.LocalFlags().Lookup(name) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(name, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return values(), cobra.ShellCompDirectiveNoFileComp
		})
	}
	if cmd.LocalFlags().Lookup("format") != nil {
		_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	}
	for _, sub := range cmd.Commands() {
		registerCompletions(sub)
	}
}

// completeFormats completes the last element of a comma-separated format
// list, skipping formats already named.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	chosen := parseFormats(prefix)
	var out []string
	for _, f := range formats {
		if prefix != "" && slices.Contains(chosen, f) {
			continue
		}
		out = append(out, prefix+f)
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeCatalogFiles offers catalog files for commands taking a catalog
// argument. Stored ids and slugs are not listed.
func completeCatalogFiles(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"json", "yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
}
