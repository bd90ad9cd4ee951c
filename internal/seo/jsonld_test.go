package seo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductSchema(t *testing.T) {
	m := Product("Phone A", "desc", "https://x.example/?category=Phones&product=0", "https://x.example/img.png", &Offer{
		Price: "4999", Currency: "INR", InStock: true, URL: "https://x.example/?category=Phones&product=0",
	})
	assert.Equal(t, "Product", m["@type"])
	offers, ok := m["offers"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "https://schema.org/InStock", offers["availability"])

	m = Product("Phone A", "desc", "", "", &Offer{Price: "4999", InStock: false})
	offers = m["offers"].(map[string]any)
	assert.Equal(t, "https://schema.org/OutOfStock", offers["availability"])

	m = Product("Phone A", "desc", "", "", nil)
	_, ok = m["offers"]
	assert.False(t, ok)
}

func TestBreadcrumbListPositions(t *testing.T) {
	m := BreadcrumbList([]BreadcrumbItem{
		{Name: "Home", Item: "https://x.example/"},
		{Name: "Phones", Item: "https://x.example/?category=Phones&page=1"},
	})
	el := m["itemListElement"].([]map[string]any)
	assert.Len(t, el, 2)
	assert.Equal(t, 1, el[0]["position"])
	assert.Equal(t, "Phones", el[1]["name"])
}

func TestJSONSerializes(t *testing.T) {
	s := JSON(WebSite("MarketChoice", "https://x.example/"))
	assert.Contains(t, s, `"@type":"WebSite"`)
}
