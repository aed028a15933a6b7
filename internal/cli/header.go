package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vitrinhq/vitrin/pkg/catalog"
	"github.com/vitrinhq/vitrin/pkg/header"
	"github.com/vitrinhq/vitrin/pkg/templates"
)

// headerCommand groups the header resolver commands.
func (c *CLI) headerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "header",
		Short: "Resolve catalog header layouts",
	}

	cmd.AddCommand(c.headerResolveCommand())
	cmd.AddCommand(c.headerTiersCommand())
	cmd.AddCommand(c.headerPlaygroundCommand())

	return cmd
}

// headerResolution is the JSON output of "header resolve".
type headerResolution struct {
	LogoSize   string        `json:"logo_size"`
	LogoHeight int           `json:"logo_height"`
	Layout     header.Layout `json:"layout"`
	BandHeight int           `json:"band_height"`
}

// headerResolveCommand creates the "header resolve" subcommand.
func (c *CLI) headerResolveCommand() *cobra.Command {
	var (
		logoPos, titlePos, size, layout, title string
		asJSON                                 bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a logo size and header placement",
		Long: `Resolve a logo size tier and logo/title placement the way every catalog
surface does.

When the logo and title ask for the same slot, the title moves to the first
free slot in the order center, right, left.`,
		Example: `  vitrin header resolve --logo-position header-left --title-position left
  vitrin header resolve --logo-size xl --logo-position header-center --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := templates.Lookup(layout)
			if err != nil {
				return err
			}

			tier, ok := header.ParseSizeTier(size)
			if !ok {
				printWarning("Unknown logo size %q, using the medium height", size)
				tier = header.SizeTier(size)
			}
			frame := previewFrame(tpl, header.LogoPosition(logoPos), header.TitlePosition(titlePos), tier, title)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(headerResolution{
					LogoSize:   string(tier),
					LogoHeight: frame.LogoHeight,
					Layout:     frame.Layout,
					BandHeight: frame.BandHeight,
				})
			}

			printLayout(frame)
			fmt.Println(drawBand(frame, 60))
			return nil
		},
	}

	cmd.Flags().StringVar(&logoPos, "logo-position", string(header.LogoHeaderLeft), "logo position (header-left, header-center, header-right, footer-*, none)")
	cmd.Flags().StringVar(&titlePos, "title-position", string(header.TitleLeft), "title position (left, center, right)")
	cmd.Flags().StringVar(&size, "logo-size", string(header.SizeMedium), "logo size tier (small, medium, large, xlarge)")
	cmd.Flags().StringVar(&layout, "template", templates.DefaultID, "template id")
	cmd.Flags().StringVar(&title, "title", "Catalog", "title text shown in the preview")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the resolution as JSON")

	return cmd
}

// headerTiersCommand creates the "header tiers" subcommand.
func (c *CLI) headerTiersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "List logo size tiers and their heights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(header.Tiers()))
			for _, t := range header.Tiers() {
				rows = append(rows, []string{string(t), strconv.Itoa(header.LogoHeight(t)) + "px"})
			}
			fmt.Fprintln(cmd.OutOrStdout(), newTable("Tier", "Height").Rows(rows...).Render())
			printDetail("Unknown tiers fall back to %dpx", header.FallbackHeight)
			return nil
		},
	}
}

// headerPlaygroundCommand creates the interactive "header playground".
func (c *CLI) headerPlaygroundCommand() *cobra.Command {
	var layout string

	cmd := &cobra.Command{
		Use:   "playground",
		Short: "Explore header layouts interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := templates.Lookup(layout)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(NewHeaderModel(tpl), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&layout, "template", templates.DefaultID, "template id")

	return cmd
}

// templatesCommand lists the registered templates.
func (c *CLI) templatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List catalog templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for _, t := range templates.All() {
				tier := "free"
				if t.Premium {
					tier = "premium"
				}
				rows = append(rows, []string{t.ID, t.Name, tier, strconv.Itoa(t.HeaderHeight) + "px", t.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), newTable("ID", "Name", "Plan", "Header", "Description").Rows(rows...).Render())
			return nil
		},
	}
}

// =============================================================================
// Rendering helpers
// =============================================================================

// previewFrame builds the header frame for a placeholder catalog.
func previewFrame(tpl templates.Template, logo header.LogoPosition, title header.TitlePosition, tier header.SizeTier, name string) templates.HeaderFrame {
	c := &catalog.Catalog{
		Name:          name,
		LogoURL:       "logo",
		LogoPosition:  logo,
		LogoSize:      tier,
		TitlePosition: title,
	}
	if logo == header.LogoNone {
		c.LogoURL = ""
	}
	return templates.BuildHeader(tpl, c)
}

// printLayout prints the resolved layout as key-value lines.
func printLayout(f templates.HeaderFrame) {
	l := f.Layout
	printKeyValue("Logo", fmt.Sprintf("%dpx (%s, %s)", f.LogoHeight, l.Placement, l.LogoAlignment))
	printKeyValue("Title", string(l.FinalTitlePosition))
	printKeyValue("Band", fmt.Sprintf("%dpx", f.BandHeight))
	switch {
	case l.Stacked:
		printKeyValue("Collision", StyleWarning.Render("stacked, no free slot"))
	case l.Overridden:
		printKeyValue("Collision", StyleWarning.Render("title moved to "+string(l.TitleAnchor)))
	default:
		printKeyValue("Collision", StyleSuccess.Render("none"))
	}
}

// drawBand sketches the header band as three slots.
func drawBand(f templates.HeaderFrame, width int) string {
	slotWidth := max(width/3, 10)
	cells := make([]string, len(f.Slots))
	for i, s := range f.Slots {
		var lines []string
		if s.Logo {
			lines = append(lines, StyleHighlight.Render(fmt.Sprintf("[logo %dpx]", f.LogoHeight)))
		}
		if s.Title {
			lines = append(lines, StyleValue.Bold(true).Render(f.Title))
		}
		if len(lines) == 0 {
			lines = append(lines, StyleDim.Render("·"))
		}
		cells[i] = lipgloss.NewStyle().
			Width(slotWidth).
			Align(slotAlign(s.Anchor)).
			Render(strings.Join(lines, "\n"))
	}

	band := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorDim).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, cells...))

	if f.FooterLogo != header.AnchorNone {
		footer := lipgloss.NewStyle().
			Width(slotWidth * 3).
			Align(slotAlign(f.FooterLogo)).
			Foreground(colorGray).
			Render(fmt.Sprintf("footer: [logo %dpx]", f.LogoHeight))
		band = lipgloss.JoinVertical(lipgloss.Left, band, " "+footer)
	}
	return band
}

func slotAlign(a header.Anchor) lipgloss.Position {
	switch a {
	case header.AnchorCenter:
		return lipgloss.Center
	case header.AnchorRight:
		return lipgloss.Right
	}
	return lipgloss.Left
}

// newTable returns a table in the CLI's house style.
func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}
