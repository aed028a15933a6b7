// Package logo normalizes catalog logos to the standardized header height.
//
// Exports embed the logo as a PNG data URI resized to exactly
// header.LogoHeight(tier) pixels tall (times the device scale), so the
// printed logo never depends on how large the uploaded file was.
package logo

import (
	"bytes"
	"encoding/base64"
	"math"

	"github.com/disintegration/imaging"

	verrors "github.com/vitrinhq/vitrin/pkg/errors"
	"github.com/vitrinhq/vitrin/pkg/header"
)

// MaxScale bounds the device scale factor.
const MaxScale = 4.0

// Normalize decodes a raster logo, resizes it to the tier's logo height
// times scale with the aspect ratio preserved, and re-encodes it as PNG.
// A scale <= 0 is treated as 1.
func Normalize(data []byte, tier header.SizeTier, scale float64) ([]byte, error) {
	if len(data) == 0 {
		return nil, verrors.New(verrors.ErrCodeInvalidInput, "empty logo")
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, verrors.Wrap(verrors.ErrCodeUnsupported, err, "decode logo")
	}

	h := TargetHeight(tier, scale)
	resized := imaging.Resize(img, 0, h, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, verrors.Wrap(verrors.ErrCodeInternal, err, "encode logo")
	}
	return buf.Bytes(), nil
}

// TargetHeight returns the pixel height a normalized logo is resized to.
func TargetHeight(tier header.SizeTier, scale float64) int {
	if scale <= 0 {
		scale = 1
	}
	scale = math.Min(scale, MaxScale)
	return int(math.Round(float64(header.LogoHeight(tier)) * scale))
}

// DataURI returns png as a base64 data URI for <img src>.
func DataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
