package rtdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"marketchoice.org/web/internal/catalog"
)

// RESTClient reads the catalog through the database's plain REST endpoint
// (GET <databaseURL>/products.json). The offline sitemap tool uses it so it
// does not need Firebase credentials or the SDK session.
type RESTClient struct {
	baseURL string
	http    *http.Client
}

// NewRESTClient builds a REST reader for the given database URL.
func NewRESTClient(databaseURL string) *RESTClient {
	return &RESTClient{
		baseURL: strings.TrimRight(strings.TrimSpace(databaseURL), "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchCatalog downloads and decodes the full catalog.
func (c *RESTClient) FetchCatalog(ctx context.Context) (catalog.Catalog, error) {
	if c.baseURL == "" {
		return catalog.Catalog{}, fmt.Errorf("rtdb: rest base URL is required")
	}
	endpoint := c.baseURL + "/" + productsPath + ".json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return catalog.Catalog{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return catalog.Catalog{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return catalog.Catalog{}, fmt.Errorf("rtdb: rest status %d", resp.StatusCode)
	}

	var cat catalog.Catalog
	if err := json.NewDecoder(resp.Body).Decode(&cat); err != nil {
		return catalog.Catalog{}, fmt.Errorf("rtdb: decode catalog: %w", err)
	}
	return cat, nil
}
