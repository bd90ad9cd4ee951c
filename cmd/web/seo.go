package main

import (
	"fmt"
	"net/http"
	"strings"

	"marketchoice.org/web/internal/catalog"
	handlersPkg "marketchoice.org/web/internal/handlers"
	"marketchoice.org/web/internal/seo"
	"marketchoice.org/web/internal/view"
)

const brandName = "MarketChoice"

func absoluteURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

func siteURL(path string) string {
	base := strings.TrimRight(baseURL, "/")
	if path == "" || path == "/" {
		return base + "/"
	}
	return base + path
}

// buildMeta fills the head metadata and JSON-LD for the active view. The
// whole block is rebuilt per render so nothing injected for a previous view
// survives a navigation.
func buildMeta(vm *handlersPkg.PageData, r *http.Request, sel view.Selection, cat catalog.Catalog) {
	vm.SEO.Canonical = siteURL(sel.URL())
	vm.SEO.OG.URL = vm.SEO.Canonical
	vm.SEO.OG.SiteName = brandName
	vm.SEO.OG.Type = "website"
	vm.SEO.Twitter.Card = "summary"

	switch sel.State {
	case view.StateProductList:
		vm.SEO.Title = sel.Category + " | " + brandName
		count := 0
		if vm.Products != nil {
			count = vm.Products.Total
		}
		vm.SEO.Description = fmt.Sprintf("Compare %d %s deals across Amazon, Flipkart and more.", count, sel.Category)
		vm.SEO.JSONLD = []string{
			seo.JSON(seo.BreadcrumbList([]seo.BreadcrumbItem{
				{Name: "Home", Item: siteURL("/")},
				{Name: sel.Category, Item: vm.SEO.Canonical},
			})),
			seo.JSON(seo.ItemList(sel.Category, cardURLs(vm.Products))),
		}

	case view.StateProductDetail:
		name := ""
		if vm.Product != nil {
			name = vm.Product.Name
		}
		vm.SEO.Title = name + " | " + brandName
		vm.SEO.Description = fmt.Sprintf("%s – prices, specs and store links on %s.", name, brandName)
		vm.SEO.OG.Type = "product"
		vm.SEO.Twitter.Card = "summary_large_image"
		if vm.Product != nil && vm.Product.Image != view.PlaceholderImage {
			img := vm.Product.Image
			if strings.HasPrefix(img, "/") {
				img = siteURL(img)
			}
			vm.SEO.OG.Image = img
			vm.SEO.Twitter.Image = img
		}
		vm.SEO.JSONLD = []string{
			seo.JSON(seo.BreadcrumbList([]seo.BreadcrumbItem{
				{Name: "Home", Item: siteURL("/")},
				{Name: sel.Category, Item: siteURL(view.Selection{State: view.StateProductList, Category: sel.Category, Page: 1}.URL())},
				{Name: name, Item: vm.SEO.Canonical},
			})),
			seo.JSON(productSchema(vm, sel, cat)),
		}

	default:
		vm.SEO.Title = brandName + " – Compare & Choose"
		vm.SEO.Description = "Hand-picked products compared across stores, updated daily."
		vm.SEO.JSONLD = []string{
			seo.JSON(seo.Organization(brandName, siteURL("/"), siteURL("/assets/images/favicon.svg"))),
			seo.JSON(seo.WebSite(brandName, siteURL("/"))),
		}
	}
}

func cardURLs(pv *view.ProductListView) []string {
	if pv == nil {
		return nil
	}
	urls := make([]string, 0, len(pv.Cards))
	for _, c := range pv.Cards {
		urls = append(urls, siteURL(c.URL))
	}
	return urls
}

func productSchema(vm *handlersPkg.PageData, sel view.Selection, cat catalog.Catalog) map[string]any {
	name, image := "", ""
	if vm.Product != nil {
		name = vm.Product.Name
		if vm.Product.Image != view.PlaceholderImage {
			image = vm.Product.Image
			if strings.HasPrefix(image, "/") {
				image = siteURL(image)
			}
		}
	}

	var offer *seo.Offer
	if products, ok := cat.Products(sel.Category); ok && sel.ProductIndex >= 0 && sel.ProductIndex < len(products) {
		p := products[sel.ProductIndex]
		if p.Price != "" {
			currency := strings.ToUpper(strings.TrimSpace(p.Currency))
			if currency == "" || currency == "₹" {
				currency = "INR"
			}
			offer = &seo.Offer{
				Price:    p.Price.String(),
				Currency: currency,
				InStock:  !p.OutOfStock(),
				URL:      vm.SEO.Canonical,
			}
		}
	}
	return seo.Product(name, vm.SEO.Description, vm.SEO.Canonical, image, offer)
}
