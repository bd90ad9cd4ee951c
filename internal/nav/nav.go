package nav

import (
	"marketchoice.org/web/internal/view"
)

// Item represents a top-level navigation item.
type Item struct {
	Path  string
	Label string
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href   string
	Label  string
	Active bool
}

// Crumb represents a breadcrumb entry.
type Crumb struct {
	Href   string
	Label  string
	Active bool
}

// Main is the primary navigation definition.
var Main = []Item{
	{Path: "/", Label: "Home"},
	{Path: "/pages/about", Label: "About"},
	{Path: "/pages/affiliate-disclosure", Label: "Disclosure"},
}

// Build renders navigation items with active state given the current path.
func Build(currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Href:   it.Path,
			Label:  it.Label,
			Active: currentPath == it.Path,
		})
	}
	return items
}

// Breadcrumbs builds the crumb trail for a selection. The trail mirrors the
// view hierarchy: Home, then the category list, then the product.
func Breadcrumbs(sel view.Selection, productName string) []Crumb {
	crumbs := []Crumb{{Href: "/", Label: "Home", Active: sel.State == view.StateCategories}}
	if sel.State == view.StateCategories {
		return crumbs
	}

	categorySel := view.Selection{State: view.StateProductList, Category: sel.Category, Page: 1}
	crumbs = append(crumbs, Crumb{
		Href:   categorySel.URL(),
		Label:  sel.Category,
		Active: sel.State == view.StateProductList,
	})

	if sel.State == view.StateProductDetail {
		label := productName
		if label == "" {
			label = "Product"
		}
		crumbs = append(crumbs, Crumb{Href: sel.URL(), Label: label, Active: true})
	}
	return crumbs
}
