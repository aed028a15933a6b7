package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// MaxSlugLength is the longest share slug accepted by the configuration layer.
const MaxSlugLength = 100

var slugRegex = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidateSlug validates a public share slug.
//
// Slugs appear in public URLs (/c/{slug}) so the rules are strict:
//   - Not empty, at most 100 characters
//   - Lowercase ASCII letters, digits and hyphens only
func ValidateSlug(slug string) error {
	if slug == "" {
		return New(ErrCodeInvalidSlug, "slug cannot be empty")
	}
	if len(slug) > MaxSlugLength {
		return New(ErrCodeInvalidSlug, "slug too long (max %d characters)", MaxSlugLength)
	}
	if !slugRegex.MatchString(slug) {
		return New(ErrCodeInvalidSlug, "slug may only contain lowercase letters, digits and hyphens: %q", slug)
	}
	return nil
}

var colorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$|^rgba?\(.+\)$`)

// ValidateColor validates a CSS colour as stored on a catalog.
// Both #rrggbb and rgb()/rgba() notations are accepted.
func ValidateColor(color string) error {
	if color == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}
	if !colorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "invalid color %q (want #rrggbb or rgb()/rgba())", color)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL parses, has a host and uses the http or https scheme.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "URL cannot be empty")
	}
	for _, r := range rawURL {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidURL, "URL contains invalid control characters")
		}
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidURL, "URL must use http or https scheme")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidURL, err, "malformed URL")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidURL, "URL must include a host")
	}
	return nil
}

// ValidateCatalogID validates a catalog identifier (a UUID).
func ValidateCatalogID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "catalog id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid catalog id %q", id)
	}
	return nil
}

// ValidateOneOf checks that value is one of the allowed strings.
// The field name is used in the error message.
func ValidateOneOf(field, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "invalid %s %q (valid: %s)", field, value, strings.Join(allowed, ", "))
}

// ValidateRange checks lo <= n <= hi.
func ValidateRange(field string, n, lo, hi int) error {
	if n < lo || n > hi {
		return New(ErrCodeInvalidInput, "%s must be between %d and %d, got %d", field, lo, hi, n)
	}
	return nil
}

// ValidateText checks a free-text field for length and control characters.
// Newlines and tabs are allowed.
func ValidateText(field, s string, max int) error {
	if len([]rune(s)) > max {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", field, max)
	}
	for _, r := range s {
		if r == '\n' || r == '\t' || r == '\r' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", field)
		}
	}
	return nil
}
