package templates

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/vitrinhq/vitrin/pkg/catalog"
)

var (
	httpScheme  = regexp.MustCompile(`(?i)^https?://`)
	cssURLBreak = strings.NewReplacer("(", "%28", ")", "%29", "'", "%27", `"`, "%22")
)

// SanitizeCSSURL returns u if it is safe inside CSS url(), escaping
// characters that could end the url() context. Non-http(s) URLs return "".
func SanitizeCSSURL(u string) string {
	u = strings.TrimSpace(u)
	if !httpScheme.MatchString(u) {
		return ""
	}
	return cssURLBreak.Replace(u)
}

// SanitizeHref returns u if it is safe as a link target. Only http, https,
// mailto and tel are allowed.
func SanitizeHref(u string) string {
	u = strings.TrimSpace(u)
	if httpScheme.MatchString(u) {
		return u
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "mailto", "tel":
		return u
	}
	return ""
}

// BackgroundCSS returns inline CSS for a catalog page background.
// An image wins over a gradient, and a gradient wins over a plain colour.
func BackgroundCSS(c *catalog.Catalog) string {
	color := c.BackgroundColor
	if color == "" {
		color = "transparent"
	}
	var b strings.Builder
	b.WriteString("background-color:" + color + ";")

	if img := SanitizeCSSURL(c.BackgroundImage); img != "" {
		fit := c.BackgroundImageFit
		if fit == "" {
			fit = catalog.FitCover
		}
		b.WriteString("background-image:url(" + img + ");")
		b.WriteString("background-size:" + fit + ";")
		b.WriteString("background-position:center;background-repeat:no-repeat;")
		return b.String()
	}
	if g := c.BackgroundGradient; g != "" && g != "none" {
		b.WriteString("background-image:" + g + ";")
	}
	return b.String()
}

// HeaderTextColor returns the header text colour for a catalog, defaulting
// by template theme.
func HeaderTextColor(tpl Template, c *catalog.Catalog) string {
	if c.HeaderTextColor != "" {
		return c.HeaderTextColor
	}
	if tpl.Dark {
		return "#ffffff"
	}
	return "#111827"
}

// PrimaryColor returns the catalog accent colour or the default.
func PrimaryColor(c *catalog.Catalog) string {
	if c.PrimaryColor != "" {
		return c.PrimaryColor
	}
	return catalog.DefaultPrimaryColor
}
