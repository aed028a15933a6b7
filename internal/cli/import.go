package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vitrinhq/vitrin/pkg/catalog"
	"github.com/vitrinhq/vitrin/pkg/store"
	"github.com/vitrinhq/vitrin/pkg/templates"
)

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var publish, dryRun bool

	cmd := &cobra.Command{
		Use:   "import [catalog files...]",
		Short: "Validate catalog files and save them to the configured store",
		Long: `Validate catalog files and save them to the configured store.

Catalogs without a share slug get one derived from their name. Files are
validated the same way the editor validates a save; the first invalid file
stops the import.`,
		Example: `  vitrin import catalogs/*.yaml
  VITRIN_STORE_DSN=vitrin.db vitrin import spring.json --publish`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeCatalogFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), args, publish, dryRun)
		},
	}

	cmd.Flags().BoolVar(&publish, "publish", false, "mark imported catalogs as published")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate only, do not save")

	return cmd
}

func (c *CLI) runImport(ctx context.Context, files []string, publish, dryRun bool) error {
	logger := loggerFromContext(ctx)
	cats := make([]*catalog.Catalog, 0, len(files))
	for _, path := range files {
		cat, err := catalog.ReadFile(path)
		if err != nil {
			return err
		}
		if cat.ShareSlug == "" {
			cat.ShareSlug = catalog.NewSlug(cat.Name)
		}
		if publish {
			cat.Published = true
		}
		if err := cat.Validate(templates.Known); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		logger.Debug("validated catalog", "file", path, "products", len(cat.Products))
		cats = append(cats, cat)
	}

	if dryRun {
		printSuccess("%d catalogs valid", len(cats))
		return nil
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	for i, cat := range cats {
		if err := runner.Store.Put(ctx, cat); err != nil {
			if errors.Is(err, catalog.ErrSlugTaken) {
				return fmt.Errorf("%s: share slug %q is used by another catalog", files[i], cat.ShareSlug)
			}
			return fmt.Errorf("%s: save: %w", files[i], err)
		}
		printSuccess("Imported %s", cat.Name)
		printDetail("id %s · slug %s", cat.ID, cat.ShareSlug)
	}
	if driver := cfg.Store.Driver; driver == store.DriverMemory || (driver == "" && store.InferDriver(cfg.Store.DSN) == store.DriverMemory) {
		printWarning("The store is in memory; imported catalogs are gone when vitrin exits")
		printNextStep("Persist to SQLite", "VITRIN_STORE_DSN=vitrin.db vitrin import ...")
	}
	return nil
}
