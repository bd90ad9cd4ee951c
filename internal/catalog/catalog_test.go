package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalPreservesCategoryOrder(t *testing.T) {
	// Keys deliberately out of alphabetical order; the decoded order must
	// follow the document, not Go map iteration.
	raw := `{
		"Phones":  [{"name": "Phone A"}],
		"Audio":   [{"name": "Earbuds"}],
		"Laptops": [{"name": "Laptop X"}],
		"Cameras": [{"name": "Cam 1"}]
	}`

	var cat Catalog
	require.NoError(t, json.Unmarshal([]byte(raw), &cat))
	assert.Equal(t, []string{"Phones", "Audio", "Laptops", "Cameras"}, cat.Categories())
}

func TestUnmarshalSkipsMalformedCategory(t *testing.T) {
	raw := `{
		"Good":   [{"name": "ok"}],
		"Broken": "not a product list",
		"Also":   [{"name": "fine"}]
	}`

	var cat Catalog
	require.NoError(t, json.Unmarshal([]byte(raw), &cat))
	assert.Equal(t, []string{"Good", "Also"}, cat.Categories())
}

func TestUnmarshalNull(t *testing.T) {
	var cat Catalog
	require.NoError(t, json.Unmarshal([]byte("null"), &cat))
	assert.True(t, cat.Empty())
}

func TestProductFlexibleFields(t *testing.T) {
	raw := `[
		{"name": "String image", "image": "k1", "price": "4999", "mrp": 5999},
		{"name": "List image", "image": ["k2", "k3"], "price": 129.5},
		{"name": "No image", "image": null, "inStock": false},
		{"name": "Linked", "links": [{"store": "amazon", "url": "https://a.example/x"}]}
	]`

	var products []Product
	require.NoError(t, json.Unmarshal([]byte(raw), &products))
	require.Len(t, products, 4)

	assert.Equal(t, "k1", products[0].Image.First())
	assert.Equal(t, "4999", products[0].Price.String())
	assert.Equal(t, "5999", products[0].MRP.String())

	assert.Equal(t, "k2", products[1].Image.First())
	assert.Equal(t, "129.5", products[1].Price.String())

	assert.Equal(t, "", products[2].Image.First())
	assert.True(t, products[2].OutOfStock())

	assert.False(t, products[3].OutOfStock(), "missing inStock means available")
	require.Len(t, products[3].Links, 1)
	assert.Equal(t, "amazon", products[3].Links[0].Store)
}

func TestAddReplacesKeepingPosition(t *testing.T) {
	var cat Catalog
	cat.Add("A", []Product{{Name: "one"}})
	cat.Add("B", []Product{{Name: "two"}})
	cat.Add("A", []Product{{Name: "replaced"}})

	assert.Equal(t, []string{"A", "B"}, cat.Categories())
	ps, ok := cat.Products("A")
	require.True(t, ok)
	require.Len(t, ps, 1)
	assert.Equal(t, "replaced", ps[0].Name)
}

func TestProductsUnknownCategory(t *testing.T) {
	var cat Catalog
	cat.Add("A", nil)
	_, ok := cat.Products("missing")
	assert.False(t, ok)
}
