package render

import (
	"strings"

	verrors "github.com/vitrinhq/vitrin/pkg/errors"
)

// Surface is where a composed catalog is shown.
type Surface string

const (
	SurfaceEditor Surface = "editor"
	SurfacePublic Surface = "public"
	SurfaceExport Surface = "export"
)

// Surfaces returns every surface in a stable order.
func Surfaces() []Surface {
	return []Surface{SurfaceEditor, SurfacePublic, SurfaceExport}
}

// Valid reports whether s is a known surface.
func (s Surface) Valid() bool {
	switch s {
	case SurfaceEditor, SurfacePublic, SurfaceExport:
		return true
	}
	return false
}

// ParseSurface parses a surface name, case-insensitively.
// An empty name is the export surface.
func ParseSurface(name string) (Surface, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return SurfaceExport, nil
	}
	s := Surface(name)
	if !s.Valid() {
		return "", verrors.New(verrors.ErrCodeInvalidSurface,
			"invalid surface %q (must be one of: editor, public, export)", name)
	}
	return s, nil
}
