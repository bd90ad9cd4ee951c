package view

import (
	"net/url"
	"strconv"

	"marketchoice.org/web/internal/catalog"
)

// State identifies which of the three views is active.
type State int

const (
	StateCategories State = iota
	StateProductList
	StateProductDetail
)

// Selection is the navigable state of a session: which category, page or
// product is being looked at, plus the session-local search query. It is the
// only state user actions mutate; the catalog itself never changes.
//
// ProductIndex is only meaningful in StateProductDetail and always refers to
// the product's position in the category's stored sequence, never to a
// position in a filtered or paginated slice.
type Selection struct {
	State        State
	Category     string
	Page         int
	ProductIndex int

	// Query is never serialized into the URL; it resets on every fresh
	// category entry and pagination action.
	Query string
}

// NavigateToCategories returns the root selection.
func NavigateToCategories() Selection {
	return Selection{State: StateCategories, Page: 1}
}

// NavigateToCategory enters a category's product list. Unknown categories
// fall back to the categories view; the search query is always reset.
func NavigateToCategory(cat catalog.Catalog, name string, page int) Selection {
	if _, ok := cat.Products(name); !ok {
		return NavigateToCategories()
	}
	if page < 1 {
		page = 1
	}
	return Selection{State: StateProductList, Category: name, Page: page}
}

// NavigateToProduct enters a product detail view. An out-of-range index
// falls back to the category's first page.
func NavigateToProduct(cat catalog.Catalog, name string, index int) Selection {
	products, ok := cat.Products(name)
	if !ok {
		return NavigateToCategories()
	}
	if index < 0 || index >= len(products) {
		return NavigateToCategory(cat, name, 1)
	}
	return Selection{State: StateProductDetail, Category: name, ProductIndex: index, Page: 1}
}

// ApplySearch narrows the visible product subset. Valid only in the product
// list view; clearing the query is equivalent to re-entering the category at
// page one. The URL is never touched by a search.
func ApplySearch(s Selection, query string) Selection {
	if s.State != StateProductList {
		return s
	}
	if query == "" {
		s.Query = ""
		s.Page = 1
		return s
	}
	s.Query = query
	return s
}

// ParseSelection reconstructs a selection from URL query parameters. It is
// used both for deep links and for history replay, applying the same
// validation and fallback rules in either case:
//
//   - absent or unknown category        -> categories view
//   - valid product index               -> product detail
//   - invalid product index             -> product list at the parsed page
//   - page defaults to 1, floor 1; out-of-range pages are deliberately not
//     clamped to the last page and render an empty grid
func ParseSelection(values url.Values, cat catalog.Catalog) Selection {
	category := values.Get("category")
	products, ok := cat.Products(category)
	if category == "" || !ok {
		return NavigateToCategories()
	}

	page := 1
	if raw := values.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			page = n
		}
	}

	if raw := values.Get("product"); raw != "" {
		if idx, err := strconv.Atoi(raw); err == nil && idx >= 0 && idx < len(products) {
			return Selection{State: StateProductDetail, Category: category, ProductIndex: idx, Page: 1}
		}
		return Selection{State: StateProductList, Category: category, Page: page}
	}

	return Selection{State: StateProductList, Category: category, Page: page}
}

// Values serializes the selection into its canonical query parameters.
// Exactly one of product or page appears: page is omitted on detail views
// and product is omitted on list views. The search query never appears.
func (s Selection) Values() url.Values {
	v := url.Values{}
	switch s.State {
	case StateProductList:
		v.Set("category", s.Category)
		page := s.Page
		if page < 1 {
			page = 1
		}
		v.Set("page", strconv.Itoa(page))
	case StateProductDetail:
		v.Set("category", s.Category)
		v.Set("product", strconv.Itoa(s.ProductIndex))
	}
	return v
}

// URL builds the canonical deep link for the selection.
func (s Selection) URL() string {
	v := s.Values()
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}
