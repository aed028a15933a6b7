package catalog

import (
	"strings"

	"github.com/gosimple/slug"

	verrors "github.com/vitrinhq/vitrin/pkg/errors"
)

func init() {
	slug.MaxLength = verrors.MaxSlugLength
}

// NewSlug derives a public share slug from a catalog name. Turkish letters
// are transliterated (ş → s, ğ → g, ı → i). The result satisfies
// errors.ValidateSlug, or is empty when name has nothing sluggable.
func NewSlug(name string) string {
	s := slug.MakeLang(name, "tr")
	s = strings.ReplaceAll(s, "_", "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}
