package pipeline

import (
	"context"
	"strings"

	"github.com/vitrinhq/vitrin/pkg/catalog"
	verrors "github.com/vitrinhq/vitrin/pkg/errors"
)

// Load returns the catalog identified by ref, which is either a catalog id
// or a share slug. An id that matches no catalog is retried as a slug.
func (r *Runner) Load(ctx context.Context, ref string) (*catalog.Catalog, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, verrors.New(verrors.ErrCodeInvalidInput, "catalog id or slug is required")
	}
	if r.Store == nil {
		return nil, verrors.New(verrors.ErrCodeInternal, "no catalog store configured")
	}

	if verrors.ValidateCatalogID(ref) == nil {
		c, err := r.Store.Get(ctx, ref)
		if err == nil || !catalog.IsNotFound(err) {
			return c, err
		}
	}
	return r.Store.GetBySlug(ctx, ref)
}

// LoadPublished returns the catalog shared under slug. Unpublished catalogs
// are reported as not published so viewers can't reach drafts.
func (r *Runner) LoadPublished(ctx context.Context, slug string) (*catalog.Catalog, error) {
	if err := verrors.ValidateSlug(slug); err != nil {
		return nil, err
	}
	if r.Store == nil {
		return nil, verrors.New(verrors.ErrCodeInternal, "no catalog store configured")
	}
	c, err := r.Store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !c.Published {
		return nil, verrors.New(verrors.ErrCodeNotPublished, "catalog %q is not published", slug)
	}
	return c, nil
}
