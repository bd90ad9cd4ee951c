package view

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketchoice.org/web/internal/catalog"
)

func boolPtr(b bool) *bool { return &b }

func TestBuildCategoriesStoredOrder(t *testing.T) {
	cat := testCatalog(map[string]int{"Phones": 1, "Audio": 1, "Laptops": 1}, "Phones", "Audio", "Laptops")
	v := BuildCategories(cat)

	require.Len(t, v.Tiles, 3)
	assert.Equal(t, "Phones", v.Tiles[0].Name)
	assert.Equal(t, "Audio", v.Tiles[1].Name)
	assert.Equal(t, "Laptops", v.Tiles[2].Name)
	assert.Equal(t, "/?category=Phones&page=1", v.Tiles[0].URL)
	assert.False(t, v.Empty)

	empty := BuildCategories(catalog.Catalog{})
	assert.True(t, empty.Empty)
}

func TestBuildProductListPagination(t *testing.T) {
	cat := testCatalog(map[string]int{"Phones": 20}, "Phones")
	sel := Selection{State: StateProductList, Category: "Phones", Page: 2}

	v := BuildProductList(cat, sel, 12)

	// Page 2 of 20 at size 12 holds stored positions 12..19.
	require.Len(t, v.Cards, 8)
	assert.Equal(t, 12, v.Cards[0].GlobalIndex)
	assert.Equal(t, 19, v.Cards[7].GlobalIndex)
	assert.Equal(t, "/?category=Phones&product=12", v.Cards[0].URL)

	require.NotNil(t, v.Pagination)
	require.Len(t, v.Pagination.Pages, 2)
	assert.False(t, v.Pagination.Pages[0].Current)
	assert.True(t, v.Pagination.Pages[1].Current)
	require.NotNil(t, v.Pagination.Prev)
	assert.Equal(t, "/?category=Phones&page=1", v.Pagination.Prev.URL)
	assert.Nil(t, v.Pagination.Next)
}

func TestBuildProductListSinglePageNoControls(t *testing.T) {
	cat := testCatalog(map[string]int{"Phones": 5}, "Phones")
	v := BuildProductList(cat, Selection{State: StateProductList, Category: "Phones", Page: 1}, 12)
	assert.Len(t, v.Cards, 5)
	assert.Nil(t, v.Pagination)
}

func TestBuildProductListPageBeyondEnd(t *testing.T) {
	cat := testCatalog(map[string]int{"Phones": 20}, "Phones")
	v := BuildProductList(cat, Selection{State: StateProductList, Category: "Phones", Page: 9}, 12)

	// Empty grid, but the page controls still cover every real page.
	assert.Empty(t, v.Cards)
	assert.True(t, v.Empty)
	require.NotNil(t, v.Pagination)
	assert.Len(t, v.Pagination.Pages, 2)
}

func TestBuildProductListFilterKeepsGlobalIndex(t *testing.T) {
	var cat catalog.Catalog
	cat.Add("Phones", []catalog.Product{
		{Name: "Alpha"},
		{Name: "Beta"},
		{Name: "Gamma"},
	})
	sel := ApplySearch(Selection{State: StateProductList, Category: "Phones", Page: 1}, "beta")

	v := BuildProductList(cat, sel, 12)
	require.Len(t, v.Cards, 1)
	assert.Equal(t, 1, v.Cards[0].GlobalIndex)
	assert.Equal(t, "/?category=Phones&product=1", v.Cards[0].URL)
	assert.Nil(t, v.Pagination, "filtered results are never paginated")
}

func TestBuildProductListFilterSpansAllPages(t *testing.T) {
	var cat catalog.Catalog
	products := make([]catalog.Product, 30)
	for i := range products {
		products[i] = catalog.Product{Name: "Widget"}
	}
	products[25].Name = "Special Widget"
	cat.Add("Phones", products)

	sel := ApplySearch(Selection{State: StateProductList, Category: "Phones", Page: 1}, "special")
	v := BuildProductList(cat, sel, 12)
	require.Len(t, v.Cards, 1)
	assert.Equal(t, 25, v.Cards[0].GlobalIndex)
}

func TestBuildProductListFilterMatchesCoupon(t *testing.T) {
	var cat catalog.Catalog
	cat.Add("Phones", []catalog.Product{
		{Name: "Alpha", Coupon: "SAVE10"},
		{Name: "Beta"},
	})
	sel := ApplySearch(Selection{State: StateProductList, Category: "Phones", Page: 1}, "save")
	v := BuildProductList(cat, sel, 12)
	require.Len(t, v.Cards, 1)
	assert.Equal(t, "Alpha", v.Cards[0].Name)
}

func TestCardDiscount(t *testing.T) {
	tests := []struct {
		name  string
		price string
		mrp   string
		want  string
	}{
		{"standard", "80", "100", "20% off"},
		{"rounded", "70", "90", "22% off"},
		{"equal no badge", "80", "80", ""},
		{"mrp below price", "100", "80", ""},
		{"mrp absent", "80", "", ""},
		{"price junk", "n/a", "100", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := buildCard("Phones", 0, catalog.Product{
				Name:  "X",
				Price: catalog.NumString(tt.price),
				MRP:   catalog.NumString(tt.mrp),
			})
			assert.Equal(t, tt.want, c.DiscountLabel)
		})
	}
}

func TestCardStockBadgePrecedence(t *testing.T) {
	p := catalog.Product{Name: "X", Coupon: "SAVE10", InStock: boolPtr(false)}
	c := buildCard("Phones", 0, p)
	assert.True(t, c.OutOfStock)
	assert.Empty(t, c.Coupon, "stock badge suppresses the coupon badge")

	p.InStock = boolPtr(true)
	c = buildCard("Phones", 0, p)
	assert.False(t, c.OutOfStock)
	assert.Equal(t, "SAVE10", c.Coupon)
}

func TestBuildProductDetail(t *testing.T) {
	var cat catalog.Catalog
	cat.Add("Phones", []catalog.Product{
		{
			Name:  "Alpha",
			Price: "4999", MRP: "5999",
			Specs:  "<p>6.1\" display</p>",
			Coupon: "SAVE10",
			Links: []catalog.Link{
				{Store: "amazon", URL: "https://a.example/x"},
				{Store: "flipkart", URL: "https://f.example/x"},
			},
		},
	})

	v, ok := BuildProductDetail(cat, Selection{State: StateProductDetail, Category: "Phones", ProductIndex: 0})
	require.True(t, ok)
	assert.Equal(t, "Alpha", v.Name)
	assert.Equal(t, "₹4999", v.PriceLabel)
	assert.Equal(t, "₹5999", v.MRPLabel)
	assert.Equal(t, "17% off", v.DiscountLabel)
	assert.Equal(t, "SAVE10", v.Coupon)
	assert.Equal(t, "/?category=Phones&page=1", v.BackURL)

	require.Len(t, v.Links, 2)
	assert.Equal(t, "Buy on Amazon", v.Links[0].Label)
	assert.Equal(t, "/assets/images/amazon.svg", v.Links[0].Icon)
	assert.Equal(t, "Buy on Flipkart", v.Links[1].Label)
}

func TestBuildProductDetailOutOfStock(t *testing.T) {
	var cat catalog.Catalog
	cat.Add("Phones", []catalog.Product{
		{
			Name: "Alpha", Coupon: "SAVE10", InStock: boolPtr(false),
			Links: []catalog.Link{{Store: "amazon", URL: "https://a.example/x"}},
		},
	})

	v, ok := BuildProductDetail(cat, Selection{State: StateProductDetail, Category: "Phones", ProductIndex: 0})
	require.True(t, ok)
	assert.True(t, v.OutOfStock)
	assert.Empty(t, v.Coupon)
	assert.Empty(t, v.Links, "buy links are suppressed for out of stock products")
}

func TestBuildProductDetailSanitizesSpecs(t *testing.T) {
	var cat catalog.Catalog
	cat.Add("Phones", []catalog.Product{
		{Name: "Alpha", Specs: `<p>ok</p><script>alert(1)</script>`},
	})
	v, ok := BuildProductDetail(cat, Selection{State: StateProductDetail, Category: "Phones", ProductIndex: 0})
	require.True(t, ok)
	assert.Contains(t, string(v.Specs), "<p>ok</p>")
	assert.NotContains(t, string(v.Specs), "<script>")
}

func TestBuildProductDetailMiss(t *testing.T) {
	cat := testCatalog(map[string]int{"Phones": 2}, "Phones")
	_, ok := BuildProductDetail(cat, Selection{State: StateProductDetail, Category: "Phones", ProductIndex: 5})
	assert.False(t, ok)
	_, ok = BuildProductDetail(cat, Selection{State: StateProductDetail, Category: "Bogus", ProductIndex: 0})
	assert.False(t, ok)
}

func TestResolveImage(t *testing.T) {
	tests := []struct {
		name    string
		ref     catalog.ImageRef
		wantSrc string
		wantKey string
	}{
		{"absent", nil, PlaceholderImage, ""},
		{"blank", catalog.ImageRef{"  "}, PlaceholderImage, ""},
		{"opaque key", catalog.ImageRef{"img42"}, "/images/img42", "img42"},
		{"literal prefix", catalog.ImageRef{"url:https://cdn.example/a.png"}, "https://cdn.example/a.png", ""},
		{"legacy absolute url", catalog.ImageRef{"https://cdn.example/a.png"}, "https://cdn.example/a.png", ""},
		{"legacy path", catalog.ImageRef{"/assets/images/x.png"}, "/assets/images/x.png", ""},
		{"first of list", catalog.ImageRef{"img1", "img2"}, "/images/img1", "img1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, key := ResolveImage(tt.ref)
			assert.Equal(t, tt.wantSrc, src)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestMatchesQueryCaseInsensitive(t *testing.T) {
	p := catalog.Product{Name: "Noise Buds Pro"}
	assert.True(t, matchesQuery(p, "PRO"))
	assert.True(t, matchesQuery(p, strings.ToLower("Buds")))
	assert.False(t, matchesQuery(p, "mini"))
}
