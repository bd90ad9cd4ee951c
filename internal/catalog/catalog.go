package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Link points at a store listing for a product.
type Link struct {
	Store string `json:"store"`
	URL   string `json:"url"`
}

// ImageRef holds the image references of a product. The upstream data stores
// either a single string or a list of strings; both decode into the same slice.
type ImageRef []string

// UnmarshalJSON accepts a bare string, a list of strings, or null.
func (ir *ImageRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*ir = nil
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*ir = nil
			return nil
		}
		*ir = ImageRef{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*ir = ImageRef(list)
	return nil
}

// First returns the primary image reference, or "" when none is present.
func (ir ImageRef) First() string {
	if len(ir) == 0 {
		return ""
	}
	return ir[0]
}

// NumString is a numeric value stored as a string. Some revisions of the
// upstream dataset store prices as JSON numbers, so both forms are accepted.
type NumString string

func (n *NumString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*n = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = NumString(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*n = NumString(num.String())
	return nil
}

func (n NumString) String() string { return string(n) }

// Product is a single catalog entry. Every field except Name and Specs is
// optional; rendering degrades field by field when values are absent.
// Products have no identity of their own: they are addressed by their
// position within the category's stored sequence.
type Product struct {
	Name     string    `json:"name"`
	Image    ImageRef  `json:"image"`
	Specs    string    `json:"specs"`
	Price    NumString `json:"price"`
	MRP      NumString `json:"mrp"`
	Currency string    `json:"currency"`
	InStock  *bool     `json:"inStock"`
	Coupon   string    `json:"coupon"`
	Links    []Link    `json:"links"`
}

// OutOfStock reports whether the product is explicitly marked out of stock.
// A missing inStock field means the product is available.
func (p Product) OutOfStock() bool {
	return p.InStock != nil && !*p.InStock
}

// Catalog maps category names to their ordered product sequences. Category
// order follows the order of keys in the source document and product order
// follows array order; both are significant because products are addressed
// by (category, position).
type Catalog struct {
	names []string
	items map[string][]Product
}

// Add appends a category with its products, replacing any previous entry
// with the same name.
func (c *Catalog) Add(name string, products []Product) {
	if c.items == nil {
		c.items = map[string][]Product{}
	}
	if _, exists := c.items[name]; !exists {
		c.names = append(c.names, name)
	}
	c.items[name] = products
}

// Categories returns category names in stored order.
func (c *Catalog) Categories() []string {
	return c.names
}

// Products returns the ordered products of a category.
func (c *Catalog) Products(name string) ([]Product, bool) {
	ps, ok := c.items[name]
	return ps, ok
}

// Len returns the number of categories.
func (c *Catalog) Len() int { return len(c.names) }

// Empty reports whether the catalog holds no categories.
func (c *Catalog) Empty() bool { return len(c.names) == 0 }

// UnmarshalJSON decodes the catalog while preserving the key order of the
// source object. A plain map would lose the category ordering the views
// depend on, so the object is walked token by token.
func (c *Catalog) UnmarshalJSON(b []byte) error {
	c.names = nil
	c.items = map[string][]Product{}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("catalog: decode: %w", err)
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("catalog: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("catalog: decode key: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("catalog: non-string key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("catalog: decode %q: %w", name, err)
		}
		var products []Product
		if err := json.Unmarshal(raw, &products); err != nil {
			// Malformed category values are skipped rather than failing the
			// whole load; the rest of the catalog stays navigable.
			continue
		}
		c.Add(name, products)
	}
	return nil
}
