package view

import (
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"marketchoice.org/web/internal/catalog"
	"marketchoice.org/web/internal/format"
)

// DefaultPageSize is the number of product cards per unfiltered page.
const DefaultPageSize = 12

// PlaceholderImage is served while an auxiliary image is unresolved or absent.
const PlaceholderImage = "/assets/images/placeholder.svg"

// LiteralImagePrefix marks an image reference as a direct URL rather than an
// opaque database key.
const LiteralImagePrefix = "url:"

// specsPolicy sanitizes the product specs HTML fragment before rendering.
// The source is trusted, but the fragment still goes through the UGC policy
// so a bad upstream edit cannot inject script into every product page.
var specsPolicy = bluemonday.UGCPolicy()

// CategoryTile is one entry of the categories view.
type CategoryTile struct {
	Name string
	URL  string
}

// CategoriesView lists every category in stored order.
type CategoriesView struct {
	Tiles []CategoryTile
	Empty bool
}

// Card is one product in the grid. GlobalIndex is the product's position in
// the category's stored sequence regardless of filtering or pagination, so
// the detail link always addresses the right product.
type Card struct {
	Name          string
	GlobalIndex   int
	Image         string
	ImageKey      string
	PriceLabel    string
	DiscountLabel string
	OutOfStock    bool
	Coupon        string
	URL           string
}

// PageLink is a single pagination control.
type PageLink struct {
	Number  int
	Current bool
	URL     string
}

// Pagination is the page control strip. Nil when the listing fits one page
// or a search filter is active.
type Pagination struct {
	Pages []PageLink
	Prev  *PageLink
	Next  *PageLink
}

// ProductListView is the paginated or filtered grid for one category.
type ProductListView struct {
	Category   string
	Query      string
	Cards      []Card
	Pagination *Pagination
	Total      int
	Empty      bool
}

// StoreLink is a single buy control on the detail view.
type StoreLink struct {
	Store string
	Label string
	URL   string
	Icon  string
}

// ProductDetailView is the full product panel.
type ProductDetailView struct {
	Category      string
	Index         int
	Name          string
	Image         string
	ImageKey      string
	PriceLabel    string
	MRPLabel      string
	DiscountLabel string
	OutOfStock    bool
	Coupon        string
	Specs         template.HTML
	Links         []StoreLink
	BackURL       string
}

// BuildCategories projects the catalog's categories in stored order.
func BuildCategories(cat catalog.Catalog) CategoriesView {
	names := cat.Categories()
	tiles := make([]CategoryTile, 0, len(names))
	for _, name := range names {
		tiles = append(tiles, CategoryTile{
			Name: name,
			URL:  Selection{State: StateProductList, Category: name, Page: 1}.URL(),
		})
	}
	return CategoriesView{Tiles: tiles, Empty: len(tiles) == 0}
}

// BuildProductList renders the grid for the given selection. With an active
// query the products are filtered before any pagination and the full
// filtered set is shown on one page without controls; otherwise the page
// slice is taken from the stored order and controls cover pages 1..N.
func BuildProductList(cat catalog.Catalog, sel Selection, pageSize int) ProductListView {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	products, _ := cat.Products(sel.Category)
	v := ProductListView{Category: sel.Category, Query: sel.Query, Total: len(products)}

	if sel.Query != "" {
		for i, p := range products {
			if matchesQuery(p, sel.Query) {
				v.Cards = append(v.Cards, buildCard(sel.Category, i, p))
			}
		}
		v.Empty = len(v.Cards) == 0
		return v
	}

	page := sel.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(products) {
		start = len(products)
	}
	if end > len(products) {
		end = len(products)
	}
	for i, p := range products[start:end] {
		v.Cards = append(v.Cards, buildCard(sel.Category, start+i, p))
	}
	v.Empty = len(v.Cards) == 0

	pageCount := int(math.Ceil(float64(len(products)) / float64(pageSize)))
	if pageCount > 1 {
		v.Pagination = buildPagination(sel.Category, page, pageCount)
	}
	return v
}

// BuildProductDetail renders the detail panel. The boolean is false when the
// selection does not address a product.
func BuildProductDetail(cat catalog.Catalog, sel Selection) (ProductDetailView, bool) {
	products, ok := cat.Products(sel.Category)
	if !ok || sel.ProductIndex < 0 || sel.ProductIndex >= len(products) {
		return ProductDetailView{}, false
	}
	p := products[sel.ProductIndex]

	img, key := ResolveImage(p.Image)
	v := ProductDetailView{
		Category:   sel.Category,
		Index:      sel.ProductIndex,
		Name:       p.Name,
		Image:      img,
		ImageKey:   key,
		PriceLabel: format.Price(p.Price.String(), p.Currency),
		OutOfStock: p.OutOfStock(),
		Specs:      template.HTML(specsPolicy.Sanitize(p.Specs)),
		BackURL:    Selection{State: StateProductList, Category: sel.Category, Page: 1}.URL(),
	}
	if pct, ok := discountPercent(p.Price, p.MRP); ok {
		v.DiscountLabel = format.Discount(pct)
		v.MRPLabel = format.Price(p.MRP.String(), p.Currency)
	}
	if !v.OutOfStock {
		v.Coupon = p.Coupon
		for _, l := range p.Links {
			v.Links = append(v.Links, buildStoreLink(l))
		}
	}
	return v, true
}

func buildCard(category string, globalIndex int, p catalog.Product) Card {
	img, key := ResolveImage(p.Image)
	c := Card{
		Name:        p.Name,
		GlobalIndex: globalIndex,
		Image:       img,
		ImageKey:    key,
		PriceLabel:  format.Price(p.Price.String(), p.Currency),
		OutOfStock:  p.OutOfStock(),
		URL:         Selection{State: StateProductDetail, Category: category, ProductIndex: globalIndex}.URL(),
	}
	if pct, ok := discountPercent(p.Price, p.MRP); ok {
		c.DiscountLabel = format.Discount(pct)
	}
	// The stock badge takes precedence over the coupon badge.
	if !c.OutOfStock {
		c.Coupon = p.Coupon
	}
	return c
}

func buildPagination(category string, current, pageCount int) *Pagination {
	pg := &Pagination{Pages: make([]PageLink, 0, pageCount)}
	link := func(n int) PageLink {
		return PageLink{
			Number:  n,
			Current: n == current,
			URL:     Selection{State: StateProductList, Category: category, Page: n}.URL(),
		}
	}
	for n := 1; n <= pageCount; n++ {
		pg.Pages = append(pg.Pages, link(n))
	}
	if current > 1 {
		prev := link(current - 1)
		pg.Prev = &prev
	}
	if current < pageCount {
		next := link(current + 1)
		pg.Next = &next
	}
	return pg
}

func matchesQuery(p catalog.Product, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	return p.Coupon != "" && strings.Contains(strings.ToLower(p.Coupon), q)
}

func discountPercent(price, mrp catalog.NumString) (int, bool) {
	p, err := strconv.ParseFloat(strings.TrimSpace(price.String()), 64)
	if err != nil {
		return 0, false
	}
	m, err := strconv.ParseFloat(strings.TrimSpace(mrp.String()), 64)
	if err != nil || m <= p {
		return 0, false
	}
	return int(math.Round((m - p) / m * 100)), true
}

// ResolveImage turns an image reference into an <img> source plus, when the
// reference is an opaque key, the key to resolve through the auxiliary
// loader. Only the first reference of a list is used. The url: prefix marks
// a literal URL; legacy entries holding bare paths or absolute URLs (keys
// can never contain '/' or '.') pass through unchanged as well.
func ResolveImage(ref catalog.ImageRef) (src, key string) {
	first := strings.TrimSpace(ref.First())
	if first == "" {
		return PlaceholderImage, ""
	}
	if strings.HasPrefix(first, LiteralImagePrefix) {
		return strings.TrimPrefix(first, LiteralImagePrefix), ""
	}
	if strings.ContainsAny(first, "/.") {
		return first, ""
	}
	return "/images/" + first, first
}

func buildStoreLink(l catalog.Link) StoreLink {
	s := StoreLink{Store: l.Store, URL: l.URL, Label: "Buy on " + titleCase(l.Store)}
	switch strings.ToLower(l.Store) {
	case "amazon":
		s.Icon = "/assets/images/amazon.svg"
	case "flipkart":
		s.Icon = "/assets/images/flipkart.svg"
	}
	return s
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
