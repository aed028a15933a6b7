package logo

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	verrors "github.com/vitrinhq/vitrin/pkg/errors"
	"github.com/vitrinhq/vitrin/pkg/header"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: 124, G: 58, B: 237, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func decodeBounds(t *testing.T, data []byte) image.Rectangle {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	return img.Bounds()
}

func TestNormalize(t *testing.T) {
	src := encodePNG(t, 400, 200)

	tests := []struct {
		tier  header.SizeTier
		scale float64
		w, h  int
	}{
		{header.SizeSmall, 1, 48, 24},
		{header.SizeMedium, 1, 72, 36},
		{header.SizeLarge, 2, 192, 96},
		{header.SizeXLarge, 1, 120, 60},
		{"jumbo", 1, 72, 36},
		{header.SizeSmall, 0, 48, 24},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			out, err := Normalize(src, tt.tier, tt.scale)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			b := decodeBounds(t, out)
			if b.Dx() != tt.w || b.Dy() != tt.h {
				t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.w, tt.h)
			}
		})
	}
}

func TestNormalizeJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	out, err := Normalize(buf.Bytes(), header.SizeLarge, 1)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if b := decodeBounds(t, out); b.Dy() != 48 {
		t.Errorf("height = %d, want 48", b.Dy())
	}
}

func TestNormalizeErrors(t *testing.T) {
	if _, err := Normalize(nil, header.SizeSmall, 1); !verrors.Is(err, verrors.ErrCodeInvalidInput) {
		t.Errorf("empty input error = %v", err)
	}
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)
	if _, err := Normalize(svg, header.SizeSmall, 1); !verrors.Is(err, verrors.ErrCodeUnsupported) {
		t.Errorf("svg error = %v, want UNSUPPORTED", err)
	}
}

func TestTargetHeight(t *testing.T) {
	if got := TargetHeight(header.SizeMedium, 1.5); got != 54 {
		t.Errorf("TargetHeight(medium, 1.5) = %d, want 54", got)
	}
	if got := TargetHeight(header.SizeXLarge, 10); got != 240 {
		t.Errorf("TargetHeight(xlarge, 10) = %d, want 240 (clamped)", got)
	}
}

func TestDataURI(t *testing.T) {
	uri := DataURI([]byte{0x89, 'P', 'N', 'G'})
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("DataURI = %q", uri)
	}
	if uri != "data:image/png;base64,iVBORw==" {
		t.Errorf("DataURI = %q", uri)
	}
}
