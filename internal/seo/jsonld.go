package seo

import (
	"encoding/json"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Organization returns a minimal Organization schema.
func Organization(name, url, logoURL string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if logoURL != "" {
		m["logo"] = logoURL
	}
	return m
}

// WebSite returns a minimal WebSite schema.
func WebSite(name, url string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

// Offer holds the commercial attributes of a product schema.
type Offer struct {
	Price    string
	Currency string
	InStock  bool
	URL      string
}

// Product returns a product schema payload with an optional offer.
func Product(name, description, url, imageURL string, offer *Offer) map[string]any {
	m := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Product",
		"name":        name,
		"description": description,
	}
	if url != "" {
		m["url"] = url
	}
	if imageURL != "" {
		m["image"] = imageURL
	}
	if offer != nil && offer.Price != "" {
		availability := "https://schema.org/InStock"
		if !offer.InStock {
			availability = "https://schema.org/OutOfStock"
		}
		o := map[string]any{
			"@type":         "Offer",
			"price":         offer.Price,
			"priceCurrency": offer.Currency,
			"availability":  availability,
		}
		if offer.URL != "" {
			o["url"] = offer.URL
		}
		m["offers"] = o
	}
	return m
}

// ItemList returns an ItemList schema for a category page.
func ItemList(name string, urls []string) map[string]any {
	el := make([]map[string]any, 0, len(urls))
	for i, u := range urls {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"url":      u,
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "ItemList",
		"name":            name,
		"itemListElement": el,
	}
}
