package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vitrinhq/vitrin/pkg/pipeline"
	"github.com/vitrinhq/vitrin/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output file (single format) or base path
	formats   string // comma-separated formats
	noCache   bool   // disable the artifact and logo cache
	noEmbed   bool   // keep the logo URL instead of embedding it
	embedLogo bool   // embed the normalized logo as a data URI
	pipeline  pipeline.Options
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		pipeline: pipeline.Options{Surface: string(pipeline.DefaultSurface)},
	}

	cmd := &cobra.Command{
		Use:   "render [catalog.json | catalog.yaml | id | slug]",
		Short: "Render a catalog to HTML, JSON, PDF or PNG",
		Long: `Render a catalog to HTML, JSON, PDF or PNG.

The argument is a catalog file (.json, .yaml) or the id or share slug of a
catalog in the configured store. PDF and PNG need Chrome or Chromium; set
CHROME_PATH or export.chrome_path when it is not found automatically.

PNG output writes one file per page.

Results are cached locally for faster subsequent runs.`,
		Example: `  vitrin render catalog.yaml
  vitrin render catalog.yaml -f html,pdf -o out/spring
  vitrin render yaz-koleksiyonu -f png --scale 3`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeCatalogFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (default: <input>.<format>, - for stdout)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): html (default), json, pdf, png (comma-separated)")
	cmd.Flags().StringVarP(&opts.pipeline.Surface, "surface", "s", opts.pipeline.Surface, "surface to compose: editor, public, export")
	cmd.Flags().StringVarP(&opts.pipeline.Query, "query", "q", "", "only include products matching this search")
	cmd.Flags().StringVar(&opts.pipeline.Category, "category", "", "only include products in this category")
	cmd.Flags().BoolVar(&opts.embedLogo, "embed-logo", false, "embed the normalized logo (default from export.embed_logo)")
	cmd.Flags().BoolVar(&opts.noEmbed, "no-embed-logo", false, "keep the logo URL")
	cmd.Flags().Float64Var(&opts.pipeline.Scale, "scale", 0, "device scale factor for PNG and logo normalization (default from export.scale)")
	cmd.Flags().StringVar(&opts.pipeline.Lang, "lang", "", "document language (default from export.lang)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.pipeline.Refresh, "refresh", false, "re-render even when cached")
	cmd.MarkFlagsMutuallyExclusive("embed-logo", "no-embed-logo")

	return cmd
}

// runRender loads the catalog, runs the pipeline and writes each artifact.
func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, ref string, opts *renderOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	popts := opts.pipeline
	popts.Formats = parseFormats(opts.formats)
	popts.Logger = c.Logger
	popts.EmbedLogo = cfg.Export.ShouldEmbedLogo()
	if cmd.Flags().Changed("embed-logo") {
		popts.EmbedLogo = opts.embedLogo
	}
	if opts.noEmbed {
		popts.EmbedLogo = false
	}
	if popts.Scale == 0 {
		popts.Scale = cfg.Export.Scale
	}
	if popts.Lang == "" {
		popts.Lang = cfg.Export.Lang
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	newRunner := c.newRunner
	if isCatalogFile(ref) {
		newRunner = c.newLocalRunner
	}
	runner, err := newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	cat, err := resolveCatalog(ctx, runner, ref)
	if err != nil {
		return err
	}

	spinner := newRenderSpinner(ctx, os.Stderr, cat.Name)
	restore := spinner.track()
	spinner.Start()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, cat, popts)
	restore()
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %s as %s", cat.Name, strings.Join(popts.Formats, ", ")))

	if spinner.Cancelled() {
		return ctx.Err()
	}

	paths, err := writeArtifacts(result, popts.Formats, outputBase(opts.output, ref, cat.ShareSlug), opts.output == "-")
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result)
	if result.Document.TemplateFallback {
		printWarning("Template %q not found, rendered with %s", cat.Layout, result.Document.Template.ID)
	}
	if popts.SurfaceValue() != render.SurfaceExport {
		printNewline()
		printNextStep("Check surfaces agree", "vitrin parity "+ref)
	}
	return nil
}

// outputBase derives the base output path. A file input keeps its name
// without the extension; a stored catalog uses its slug.
func outputBase(output, ref, slug string) string {
	if output != "" && output != "-" {
		ext := filepath.Ext(output)
		if pipeline.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if isCatalogFile(ref) {
		return strings.TrimSuffix(ref, filepath.Ext(ref))
	}
	if slug != "" {
		return slug
	}
	return ref
}

// writeArtifacts writes every artifact and returns the paths written.
// toStdout is only honored for a single non-PNG format.
func writeArtifacts(result *pipeline.Result, formats []string, base string, toStdout bool) ([]string, error) {
	if toStdout && len(formats) == 1 && formats[0] != pipeline.FormatPNG {
		_, err := os.Stdout.Write(result.Artifacts[formats[0]])
		return nil, err
	}

	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	var paths []string
	for _, format := range formats {
		if format == pipeline.FormatPNG {
			for i, page := range result.Pages {
				path := fmt.Sprintf("%s-%d.png", base, i+1)
				if err := writeFile(path, page); err != nil {
					return paths, err
				}
				paths = append(paths, path)
			}
			continue
		}
		path := base + "." + format
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// openOutput opens path for writing, or stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
