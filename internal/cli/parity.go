package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vitrinhq/vitrin/pkg/pipeline"
	"github.com/vitrinhq/vitrin/pkg/render"
)

// parityCommand creates the parity command.
func (c *CLI) parityCommand() *cobra.Command {
	var (
		opts   pipeline.Options
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "parity [catalog.json | catalog.yaml | id | slug]",
		Short: "Check that every surface renders the same header",
		Long: `Compose a catalog for the editor, public and export surfaces and compare
their frames: template, header band, logo height, title placement and page
plan. Exits non-zero when any surface differs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeCatalogFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParity(cmd.Context(), cmd, args[0], opts, asJSON)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "only include products matching this search")
	cmd.Flags().StringVar(&opts.Category, "category", "", "only include products in this category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the parity report as JSON")

	return cmd
}

func (c *CLI) runParity(ctx context.Context, cmd *cobra.Command, ref string, opts pipeline.Options, asJSON bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	newRunner := c.newRunner
	if isCatalogFile(ref) {
		newRunner = c.newLocalRunner
	}
	runner, err := newRunner(ctx, cfg, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	cat, err := resolveCatalog(ctx, runner, ref)
	if err != nil {
		return err
	}

	report, err := runner.Parity(ctx, cat, opts)
	if report == nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(report); encErr != nil {
			return encErr
		}
		return err
	}

	rows := make([][]string, 0, len(report.Frames))
	for _, s := range render.Surfaces() {
		f, ok := report.Frames[s]
		if !ok {
			continue
		}
		h := f.Header
		rows = append(rows, []string{
			string(s),
			f.Template,
			strconv.Itoa(h.BandHeight) + "px",
			strconv.Itoa(h.LogoHeight) + "px",
			string(h.Layout.LogoAlignment),
			string(h.Layout.FinalTitlePosition),
			strconv.Itoa(len(f.Pages)),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), newTable("Surface", "Template", "Band", "Logo", "Logo at", "Title at", "Pages").Rows(rows...).Render())

	if report.Equal {
		printSuccess("All %d surfaces agree", len(report.Frames))
		return err
	}
	printError("Surfaces diverge: %s", report.Divergence)
	return err
}
