package sitemap

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"marketchoice.org/web/internal/catalog"
	"marketchoice.org/web/internal/view"
)

// The fallback link list in index.html is rewritten between these two
// literal markers so crawlers can discover categories without running the
// interactive app.
const (
	FallbackStartMarker = "<!-- These will be dynamically populated by the sitemap script or can be manually added for core categories -->"
	FallbackEndMarker   = "</nav>"
)

// maxFallbackCategories caps the fallback list to keep the HTML small.
const maxFallbackCategories = 10

type urlSet struct {
	XMLName    xml.Name   `xml:"urlset"`
	Xmlns      string     `xml:"xmlns,attr"`
	XmlnsImage string     `xml:"xmlns:image,attr"`
	URLs       []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string      `xml:"loc"`
	LastMod    string      `xml:"lastmod"`
	ChangeFreq string      `xml:"changefreq"`
	Priority   string      `xml:"priority"`
	Image      *imageEntry `xml:"image:image,omitempty"`
}

type imageEntry struct {
	Loc   string `xml:"image:loc"`
	Title string `xml:"image:title"`
}

// Generate renders the sitemap for the catalog: the homepage, one URL per
// category and one per product, all using the storefront's query parameter
// scheme.
func Generate(cat catalog.Catalog, baseURL string, now time.Time) ([]byte, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	day := now.Format("2006-01-02")

	set := urlSet{
		Xmlns:      "http://www.sitemaps.org/schemas/sitemap/0.9",
		XmlnsImage: "http://www.google.com/schemas/sitemap-image/1.1",
	}
	set.URLs = append(set.URLs, urlEntry{
		Loc:        base + "/",
		LastMod:    day,
		ChangeFreq: "daily",
		Priority:   "1.0",
		Image: &imageEntry{
			Loc:   base + "/assets/images/favicon.svg",
			Title: "MarketChoice Logo",
		},
	})

	for _, name := range cat.Categories() {
		listSel := view.Selection{State: view.StateProductList, Category: name, Page: 1}
		set.URLs = append(set.URLs, urlEntry{
			Loc:        base + listSel.URL(),
			LastMod:    day,
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})

		products, _ := cat.Products(name)
		for i, p := range products {
			if p.Name == "" {
				continue
			}
			detailSel := view.Selection{State: view.StateProductDetail, Category: name, ProductIndex: i}
			set.URLs = append(set.URLs, urlEntry{
				Loc:        base + detailSel.URL(),
				LastMod:    day,
				ChangeFreq: "monthly",
				Priority:   "0.6",
			})
		}
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("sitemap: marshal: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// PatchFallback rewrites the static fallback category list of index.html
// between the literal markers. It returns the patched document and whether
// the markers were found.
func PatchFallback(doc []byte, cat catalog.Catalog, baseURL string) ([]byte, bool) {
	html := string(doc)
	start := strings.Index(html, FallbackStartMarker)
	if start < 0 {
		return doc, false
	}
	start += len(FallbackStartMarker)
	end := strings.Index(html[start:], FallbackEndMarker)
	if end < 0 {
		return doc, false
	}
	end += start

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	var b strings.Builder
	b.WriteString("\n      <ul>\n")
	for i, name := range cat.Categories() {
		if i >= maxFallbackCategories {
			break
		}
		sel := view.Selection{State: view.StateProductList, Category: name, Page: 1}
		fmt.Fprintf(&b, "        <li><a href=\"%s\">%s</a></li>\n", base+sel.URL(), name)
	}
	b.WriteString("      </ul>\n    ")

	return []byte(html[:start] + b.String() + html[end:]), true
}
