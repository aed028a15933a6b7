package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vitrinhq/vitrin/pkg/cache"
	verrors "github.com/vitrinhq/vitrin/pkg/errors"
)

// File formats understood by Read and Write.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFromPath infers the file format from a path's extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", verrors.New(verrors.ErrCodeInvalidFormat, "unsupported catalog file %q (want .json, .yaml or .yml)", path)
}

// Read decodes a catalog from r in the given format and applies defaults.
// Unknown fields are rejected so that typos in hand-written files surface.
//
// Read does not call Validate; callers that accept user input should.
func Read(r io.Reader, format string) (*Catalog, error) {
	var c Catalog
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return nil, verrors.Wrap(verrors.ErrCodeInvalidCatalog, err, "decode json")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil {
			return nil, verrors.Wrap(verrors.ErrCodeInvalidCatalog, err, "decode yaml")
		}
	default:
		return nil, verrors.New(verrors.ErrCodeInvalidFormat, "unsupported catalog format %q", format)
	}
	c.SetDefaults()
	return &c, nil
}

// ReadFile reads a catalog file, choosing the decoder by extension.
func ReadFile(path string) (*Catalog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, verrors.Wrap(verrors.ErrCodeFileNotFound, err, "catalog file %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	c, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Write encodes c to w in the given format.
func Write(w io.Writer, c *Catalog, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	}
	return verrors.New(verrors.ErrCodeInvalidFormat, "unsupported catalog format %q", format)
}

// WriteFile writes c to path, choosing the encoder by extension.
func WriteFile(path string, c *Catalog) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, c, format); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Hash returns a stable content hash of the catalog's rendering inputs.
// Timestamps are excluded so re-saving an unchanged catalog keeps its hash.
func Hash(c *Catalog) (string, error) {
	cp := *c
	cp.CreatedAt, cp.UpdatedAt = time.Time{}, time.Time{}
	data, err := json.Marshal(cp)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
