package errors

import (
	"strings"
	"testing"
)

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "spring", false},
		{"with dash", "spring-2024", false},
		{"digits", "2024", false},
		{"max length", strings.Repeat("a", MaxSlugLength), false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxSlugLength+1), true},
		{"uppercase", "Spring", true},
		{"space", "spring sale", true},
		{"underscore", "spring_sale", true},
		{"slash", "spring/sale", true},
		{"unicode", "yaz-koleksiyonu-ğ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlug(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSlug(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSlug) {
				t.Errorf("ValidateSlug(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidSlug)
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"hex lower", "#7c3aed", false},
		{"hex upper", "#7C3AED", false},
		{"rgba", "rgba(124, 58, 237, 1)", false},
		{"rgb", "rgb(0,0,0)", false},

		{"empty", "", true},
		{"short hex", "#fff", true},
		{"no hash", "7c3aed", true},
		{"named", "purple", true},
		{"empty rgb", "rgb()", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/logo.png", false},
		{"http", "http://example.com/path", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"javascript", "javascript:alert(1)", true},
		{"no host", "https://", true},
		{"control char", "https://example.com/\x01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCatalogID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "3f2b8c9e-1d4a-4b6e-9a7f-2c5d8e1f0a3b", false},
		{"empty", "", true},
		{"not uuid", "catalog-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCatalogID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCatalogID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOneOf(t *testing.T) {
	allowed := []string{"cover", "contain", "fill"}

	if err := ValidateOneOf("image fit", "contain", allowed); err != nil {
		t.Errorf("ValidateOneOf(contain) = %v, want nil", err)
	}

	err := ValidateOneOf("image fit", "stretch", allowed)
	if err == nil {
		t.Fatal("ValidateOneOf(stretch) = nil, want error")
	}
	if !strings.Contains(err.Error(), "cover, contain, fill") {
		t.Errorf("error %q does not list valid values", err)
	}
}

func TestValidateRange(t *testing.T) {
	tests := []struct {
		n       int
		wantErr bool
	}{
		{0, true},
		{1, false},
		{6, false},
		{7, true},
	}

	for _, tt := range tests {
		err := ValidateRange("columns", tt.n, 1, 6)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateRange(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
	}
}

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "Yaz Koleksiyonu", false},
		{"multiline", "line one\nline two", false},
		{"unicode counts runes", strings.Repeat("ş", 20), false},

		{"too long", strings.Repeat("a", 21), true},
		{"too long unicode", strings.Repeat("ş", 21), true},
		{"control", "bad\x00text", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText("name", tt.input, 20)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateText(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
