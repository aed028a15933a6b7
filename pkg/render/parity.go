package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vitrinhq/vitrin/pkg/catalog"
	verrors "github.com/vitrinhq/vitrin/pkg/errors"
)

// ParityReport is the outcome of composing a catalog for every surface.
type ParityReport struct {
	Frames map[Surface]Frame `json:"frames"`
	Equal  bool              `json:"equal"`

	// Divergence names the first frame field that differed and the two
	// surfaces compared. Empty when Equal.
	Divergence string `json:"divergence,omitempty"`
}

// CheckParity composes c for every surface concurrently and compares the
// frames against the editor's. It returns an error when composing fails or
// when any frame differs.
func CheckParity(ctx context.Context, c *catalog.Catalog, opts ComposeOptions) (*ParityReport, error) {
	surfaces := Surfaces()
	frames := make([]Frame, len(surfaces))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range surfaces {
		g.Go(func() error {
			doc, err := Compose(gctx, c, s, opts)
			if err != nil {
				return fmt.Errorf("compose %s: %w", s, err)
			}
			frames[i] = doc.Frame()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &ParityReport{Frames: make(map[Surface]Frame, len(surfaces)), Equal: true}
	for i, s := range surfaces {
		report.Frames[s] = frames[i]
	}
	for i := 1; i < len(surfaces); i++ {
		field, err := diffFrames(frames[0], frames[i])
		if err != nil {
			return nil, err
		}
		if field != "" {
			report.Equal = false
			report.Divergence = fmt.Sprintf("%s differs between %s and %s", field, surfaces[0], surfaces[i])
			return report, verrors.New(verrors.ErrCodeRender, "surface parity: %s", report.Divergence)
		}
	}
	return report, nil
}

// diffFrames returns the JSON name of the first top-level field where a and
// b serialize differently, or "" when they are byte-identical.
func diffFrames(a, b Frame) (string, error) {
	ab, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return "", err
	}
	if bytes.Equal(ab, bb) {
		return "", nil
	}

	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	t := av.Type()
	for i := 0; i < t.NumField(); i++ {
		x, _ := json.Marshal(av.Field(i).Interface())
		y, _ := json.Marshal(bv.Field(i).Interface())
		if !bytes.Equal(x, y) {
			return jsonName(t.Field(i)), nil
		}
	}
	return "frame", nil
}

func jsonName(f reflect.StructField) string {
	tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if tag == "" {
		return f.Name
	}
	return tag
}
