// Package catalog defines the catalog configuration model.
//
// A [Catalog] is what a shop owner designs in the editor: a template
// (layout), brand colours, logo and title placement, page options and the
// ordered products to show. Rendering reads catalogs through the [Store]
// interface and never mutates them.
//
// Catalogs can be loaded from JSON or YAML files with [ReadFile] and
// persisted in SQLite, Postgres or MongoDB via the pkg/store backends.
package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitrinhq/vitrin/pkg/header"
)

// Defaults applied by [Catalog.SetDefaults].
const (
	DefaultLayout       = "modern-grid"
	DefaultPrimaryColor = "rgba(124, 58, 237, 1)"
	DefaultColumns      = 3
	DefaultImageFit     = "cover"
	DefaultCoverTheme   = "modern"
)

// Image fit values for product and background images.
const (
	FitCover   = "cover"
	FitContain = "contain"
	FitFill    = "fill"
)

// ImageFits lists the accepted image fit values.
var ImageFits = []string{FitCover, FitContain, FitFill}

// CoverThemes lists the accepted cover and divider themes.
var CoverThemes = []string{
	"modern", "minimal", "bold", "luxury", "fashion",
	"magazine", "corporate", "artistic", "tech", "industrial",
}

// Catalog is a catalog's full rendering configuration.
type Catalog struct {
	ID          string `json:"id" yaml:"id" bson:"_id"`
	Name        string `json:"name" yaml:"name" bson:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty"`

	// Layout is the template id, e.g. "modern-grid".
	Layout        string `json:"layout" yaml:"layout" bson:"layout"`
	PrimaryColor  string `json:"primary_color,omitempty" yaml:"primary_color,omitempty" bson:"primary_color,omitempty"`
	ColumnsPerRow int    `json:"columns_per_row,omitempty" yaml:"columns_per_row,omitempty" bson:"columns_per_row,omitempty"`

	// Header
	LogoURL         string               `json:"logo_url,omitempty" yaml:"logo_url,omitempty" bson:"logo_url,omitempty"`
	LogoPosition    header.LogoPosition  `json:"logo_position,omitempty" yaml:"logo_position,omitempty" bson:"logo_position,omitempty"`
	LogoSize        header.SizeTier      `json:"logo_size,omitempty" yaml:"logo_size,omitempty" bson:"logo_size,omitempty"`
	TitlePosition   header.TitlePosition `json:"title_position,omitempty" yaml:"title_position,omitempty" bson:"title_position,omitempty"`
	HeaderTextColor string               `json:"header_text_color,omitempty" yaml:"header_text_color,omitempty" bson:"header_text_color,omitempty"`

	// Product card options
	ShowPrices       bool   `json:"show_prices" yaml:"show_prices" bson:"show_prices"`
	ShowDescriptions bool   `json:"show_descriptions" yaml:"show_descriptions" bson:"show_descriptions"`
	ShowAttributes   bool   `json:"show_attributes" yaml:"show_attributes" bson:"show_attributes"`
	ShowSKU          bool   `json:"show_sku" yaml:"show_sku" bson:"show_sku"`
	ShowURLs         bool   `json:"show_urls" yaml:"show_urls" bson:"show_urls"`
	ProductImageFit  string `json:"product_image_fit,omitempty" yaml:"product_image_fit,omitempty" bson:"product_image_fit,omitempty"`

	// Background (image wins over gradient, gradient over colour)
	BackgroundColor    string `json:"background_color,omitempty" yaml:"background_color,omitempty" bson:"background_color,omitempty"`
	BackgroundGradient string `json:"background_gradient,omitempty" yaml:"background_gradient,omitempty" bson:"background_gradient,omitempty"`
	BackgroundImage    string `json:"background_image,omitempty" yaml:"background_image,omitempty" bson:"background_image,omitempty"`
	BackgroundImageFit string `json:"background_image_fit,omitempty" yaml:"background_image_fit,omitempty" bson:"background_image_fit,omitempty"`

	// Cover page and category dividers
	EnableCoverPage        bool     `json:"enable_cover_page" yaml:"enable_cover_page" bson:"enable_cover_page"`
	CoverImageURL          string   `json:"cover_image_url,omitempty" yaml:"cover_image_url,omitempty" bson:"cover_image_url,omitempty"`
	CoverDescription       string   `json:"cover_description,omitempty" yaml:"cover_description,omitempty" bson:"cover_description,omitempty"`
	CoverTheme             string   `json:"cover_theme,omitempty" yaml:"cover_theme,omitempty" bson:"cover_theme,omitempty"`
	EnableCategoryDividers bool     `json:"enable_category_dividers" yaml:"enable_category_dividers" bson:"enable_category_dividers"`
	CategoryOrder          []string `json:"category_order,omitempty" yaml:"category_order,omitempty" bson:"category_order,omitempty"`

	// Publishing
	Published bool   `json:"is_published" yaml:"is_published" bson:"is_published"`
	ShareSlug string `json:"share_slug,omitempty" yaml:"share_slug,omitempty" bson:"share_slug,omitempty"`

	Products []Product `json:"products" yaml:"products" bson:"products"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at,omitempty" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at,omitempty" bson:"updated_at"`
}

// Product is one item shown in a catalog.
type Product struct {
	ID          string      `json:"id" yaml:"id" bson:"id"`
	SKU         string      `json:"sku,omitempty" yaml:"sku,omitempty" bson:"sku,omitempty"`
	Name        string      `json:"name" yaml:"name" bson:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty"`
	Price       float64     `json:"price" yaml:"price" bson:"price"`
	Stock       int         `json:"stock,omitempty" yaml:"stock,omitempty" bson:"stock,omitempty"`
	Category    string      `json:"category,omitempty" yaml:"category,omitempty" bson:"category,omitempty"`
	ImageURL    string      `json:"image_url,omitempty" yaml:"image_url,omitempty" bson:"image_url,omitempty"`
	ProductURL  string      `json:"product_url,omitempty" yaml:"product_url,omitempty" bson:"product_url,omitempty"`
	Attributes  []Attribute `json:"custom_attributes,omitempty" yaml:"custom_attributes,omitempty" bson:"custom_attributes,omitempty"`
}

// Attribute is a free-form product property such as colour or material.
// The attribute named "currency" selects the price currency.
type Attribute struct {
	Name  string `json:"name" yaml:"name" bson:"name"`
	Value string `json:"value" yaml:"value" bson:"value"`
	Unit  string `json:"unit,omitempty" yaml:"unit,omitempty" bson:"unit,omitempty"`
}

// New returns a catalog with a fresh id, a slug derived from name and
// defaults applied.
func New(name string) *Catalog {
	now := time.Now().UTC()
	c := &Catalog{
		ID:        uuid.NewString(),
		Name:      name,
		ShareSlug: NewSlug(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.SetDefaults()
	return c
}

// SetDefaults fills unset fields with their defaults. Header positions are
// left alone: the header resolvers define what an empty value means.
func (c *Catalog) SetDefaults() {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Layout == "" {
		c.Layout = DefaultLayout
	}
	if c.PrimaryColor == "" {
		c.PrimaryColor = DefaultPrimaryColor
	}
	if c.ColumnsPerRow == 0 {
		c.ColumnsPerRow = DefaultColumns
	}
	if c.ProductImageFit == "" {
		c.ProductImageFit = DefaultImageFit
	}
	if c.CoverTheme == "" {
		c.CoverTheme = DefaultCoverTheme
	}
	if c.ShareSlug == "" && c.Name != "" {
		c.ShareSlug = NewSlug(c.Name)
	}
	for i := range c.Products {
		if c.Products[i].ID == "" {
			c.Products[i].ID = uuid.NewString()
		}
	}
}

// Attribute returns the value of the named attribute.
func (p Product) Attribute(name string) (string, bool) {
	for _, a := range p.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Currency returns the product currency code, TRY when unset.
func (p Product) Currency() string {
	if v, ok := p.Attribute("currency"); ok && v != "" {
		return v
	}
	return "TRY"
}

// DisplayAttributes returns the attributes shown on product cards.
// The currency attribute is consumed by the price and excluded.
func (p Product) DisplayAttributes() []Attribute {
	out := make([]Attribute, 0, len(p.Attributes))
	for _, a := range p.Attributes {
		if a.Name == "currency" || a.Value == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}
