package catalog

import (
	"fmt"
	"strings"

	verrors "github.com/vitrinhq/vitrin/pkg/errors"
	"github.com/vitrinhq/vitrin/pkg/header"
)

// Limits enforced by Validate.
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 2000
	MaxProducts          = 500
	MinColumns           = 1
	MaxColumns           = 6
)

// LayoutChecker reports whether a template id exists. The template
// registry provides one; catalog does not import it to avoid a cycle.
type LayoutChecker func(layout string) bool

// Validate checks the configuration the way the editor's save endpoint
// does. Rendering does not depend on it: the header resolvers accept any
// value. knownLayout may be nil to skip the template check.
func (c *Catalog) Validate(knownLayout LayoutChecker) error {
	if strings.TrimSpace(c.Name) == "" {
		return verrors.New(verrors.ErrCodeInvalidCatalog, "catalog name is required")
	}
	if err := verrors.ValidateText("name", c.Name, MaxNameLength); err != nil {
		return err
	}
	if err := verrors.ValidateText("description", c.Description, MaxDescriptionLength); err != nil {
		return err
	}
	if c.ID != "" {
		if err := verrors.ValidateCatalogID(c.ID); err != nil {
			return err
		}
	}
	if knownLayout != nil && !knownLayout(c.Layout) {
		return verrors.New(verrors.ErrCodeInvalidTemplate, "unknown layout %q", c.Layout)
	}

	for _, color := range []struct{ field, value string }{
		{"primary_color", c.PrimaryColor},
		{"header_text_color", c.HeaderTextColor},
		{"background_color", c.BackgroundColor},
	} {
		if color.value == "" {
			continue
		}
		if err := verrors.ValidateColor(color.value); err != nil {
			return verrors.Wrap(verrors.ErrCodeInvalidColor, err, "%s", color.field)
		}
	}

	if c.ColumnsPerRow != 0 {
		if err := verrors.ValidateRange("columns_per_row", c.ColumnsPerRow, MinColumns, MaxColumns); err != nil {
			return err
		}
	}

	if err := c.validateHeader(); err != nil {
		return err
	}

	for _, fit := range []struct{ field, value string }{
		{"product_image_fit", c.ProductImageFit},
		{"background_image_fit", c.BackgroundImageFit},
	} {
		if fit.value == "" {
			continue
		}
		if err := verrors.ValidateOneOf(fit.field, fit.value, ImageFits); err != nil {
			return err
		}
	}
	if c.CoverTheme != "" {
		if err := verrors.ValidateOneOf("cover_theme", c.CoverTheme, CoverThemes); err != nil {
			return err
		}
	}

	for _, u := range []struct{ field, value string }{
		{"logo_url", c.LogoURL},
		{"background_image", c.BackgroundImage},
		{"cover_image_url", c.CoverImageURL},
	} {
		if u.value == "" {
			continue
		}
		if err := verrors.ValidateURL(u.value); err != nil {
			return verrors.Wrap(verrors.ErrCodeInvalidURL, err, "%s", u.field)
		}
	}

	if c.ShareSlug != "" {
		if err := verrors.ValidateSlug(c.ShareSlug); err != nil {
			return err
		}
	}
	if c.Published && c.ShareSlug == "" {
		return verrors.New(verrors.ErrCodeInvalidCatalog, "a published catalog needs a share slug")
	}

	if len(c.Products) > MaxProducts {
		return verrors.New(verrors.ErrCodeInvalidCatalog, "too many products (max %d)", MaxProducts)
	}
	seen := make(map[string]bool, len(c.Products))
	for i, p := range c.Products {
		if err := p.validate(); err != nil {
			return verrors.Wrap(verrors.ErrCodeInvalidCatalog, err, "product %d", i)
		}
		if p.ID != "" {
			if seen[p.ID] {
				return verrors.New(verrors.ErrCodeInvalidCatalog, "duplicate product id %q", p.ID)
			}
			seen[p.ID] = true
		}
	}
	return nil
}

func (c *Catalog) validateHeader() error {
	logo := header.LogoPosition(strings.ToLower(strings.TrimSpace(string(c.LogoPosition))))
	if logo != "" && !logo.Known() {
		return verrors.ValidateOneOf("logo_position", string(c.LogoPosition), stringsOf(header.LogoPositions()))
	}
	if _, ok := header.ParseSizeTier(string(c.LogoSize)); !ok {
		return verrors.ValidateOneOf("logo_size", string(c.LogoSize), stringsOf(header.Tiers()))
	}
	title := header.TitlePosition(strings.ToLower(strings.TrimSpace(string(c.TitlePosition))))
	if title != "" && title.Anchor() == header.AnchorNone {
		return verrors.ValidateOneOf("title_position", string(c.TitlePosition), stringsOf(header.TitlePositions()))
	}
	return nil
}

func (p Product) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if err := verrors.ValidateText("product name", p.Name, MaxNameLength); err != nil {
		return err
	}
	if p.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	for _, u := range []string{p.ImageURL, p.ProductURL} {
		if u == "" {
			continue
		}
		if err := verrors.ValidateURL(u); err != nil {
			return err
		}
	}
	return nil
}

func stringsOf[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}
