// Package pages splits a catalog into printable A4 pages.
//
// A plan is an ordered list of pages: an optional cover, then product pages,
// optionally grouped under one divider page per category. Only product pages
// are numbered; the cover and dividers are not counted.
package pages

import (
	"sort"
	"strings"

	"github.com/vitrinhq/vitrin/pkg/catalog"
	"github.com/vitrinhq/vitrin/pkg/templates"
)

// A4 page size in CSS pixels at 96 DPI.
const (
	A4Width  = 794
	A4Height = 1123
)

// DefaultUncategorized is the divider title for products without a category.
const DefaultUncategorized = "Uncategorized"

// AllCategories selects every category in Options.Category.
const AllCategories = "all"

// Kind is the type of a page.
type Kind string

const (
	KindCover    Kind = "cover"
	KindDivider  Kind = "divider"
	KindProducts Kind = "products"
)

// Page is one printed page.
type Page struct {
	Kind Kind `json:"kind"`

	// Divider pages
	Category   string `json:"category,omitempty"`
	CoverImage string `json:"cover_image,omitempty"`

	// Product pages
	Products []catalog.Product `json:"products,omitempty"`
	Number   int               `json:"number,omitempty"`
	Total    int               `json:"total,omitempty"`
}

// Options filter the products that are planned.
type Options struct {
	// Query keeps products whose name, description or SKU contains it,
	// case-insensitively.
	Query string

	// Category keeps products of one category. Empty or "all" keeps all.
	Category string

	// UncategorizedLabel overrides DefaultUncategorized.
	UncategorizedLabel string
}

// Plan lays out the catalog's products into pages.
func Plan(c *catalog.Catalog, opts Options) []Page {
	uncategorized := opts.UncategorizedLabel
	if uncategorized == "" {
		uncategorized = DefaultUncategorized
	}

	products := Filter(c.Products, opts.Query, opts.Category)
	size := templates.PageSize(c.Layout, c.ColumnsPerRow)

	var out []Page
	if c.EnableCoverPage {
		out = append(out, Page{Kind: KindCover})
	}

	if c.EnableCategoryDividers && len(products) > 0 {
		for _, g := range group(products, uncategorized, c.CategoryOrder) {
			out = append(out, Page{
				Kind:       KindDivider,
				Category:   g.name,
				CoverImage: g.products[0].ImageURL,
			})
			out = appendChunks(out, g.products, size)
		}
	} else {
		out = appendChunks(out, products, size)
	}

	total := 0
	for _, p := range out {
		if p.Kind == KindProducts {
			total++
		}
	}
	n := 1
	for i := range out {
		if out[i].Kind == KindProducts {
			out[i].Number = n
			out[i].Total = total
			n++
		}
	}
	return out
}

// Filter returns the products matching query and category, in order.
func Filter(products []catalog.Product, query, category string) []catalog.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != AllCategories && p.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) &&
			!strings.Contains(strings.ToLower(p.SKU), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories returns "all" followed by each distinct non-empty category in
// order of first appearance.
func Categories(products []catalog.Product) []string {
	out := []string{AllCategories}
	seen := map[string]bool{}
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

type categoryGroup struct {
	name     string
	products []catalog.Product
}

// group buckets products by category in first-appearance order, then
// stable-sorts the buckets by their index in order. Categories missing from
// order keep their relative position after the listed ones.
func group(products []catalog.Product, uncategorized string, order []string) []categoryGroup {
	var groups []categoryGroup
	index := map[string]int{}
	for _, p := range products {
		name := p.Category
		if name == "" {
			name = uncategorized
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, categoryGroup{name: name})
		}
		groups[i].products = append(groups[i].products, p)
	}

	if len(order) == 0 {
		return groups
	}
	rank := make(map[string]int, len(order))
	for i, name := range order {
		if _, dup := rank[name]; !dup {
			rank[name] = i
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		ri, iok := rank[groups[i].name]
		rj, jok := rank[groups[j].name]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		}
		return false
	})
	return groups
}

func appendChunks(out []Page, products []catalog.Product, size int) []Page {
	if size <= 0 {
		size = 1
	}
	for i := 0; i < len(products); i += size {
		end := min(i+size, len(products))
		out = append(out, Page{
			Kind:     KindProducts,
			Products: products[i:end:end],
		})
	}
	return out
}
