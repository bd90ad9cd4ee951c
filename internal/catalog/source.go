package catalog

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested value does not exist in the data source.
var ErrNotFound = errors.New("catalog: not found")

// Source is the read boundary to the external data store. Both operations
// degrade to an absent/empty result instead of surfacing errors to users:
// a failed catalog load yields an empty catalog and a missing image leaves
// the placeholder in place.
type Source interface {
	// LoadCatalog fetches the full category -> products mapping.
	LoadCatalog(ctx context.Context) (Catalog, error)

	// LoadImage resolves a single auxiliary image payload by key. Calls are
	// independent and may complete in any order.
	LoadImage(ctx context.Context, key string) (string, error)
}
