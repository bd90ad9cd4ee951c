package rtdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"marketchoice.org/web/internal/catalog"
)

const (
	productsPath = "products"
	imagesPath   = "images"

	defaultTimeout = 5 * time.Second
	defaultRetries = 3
	retryBaseDelay = 500 * time.Millisecond
)

// Config carries the connection settings for the Realtime Database client.
type Config struct {
	// DatabaseURL is the full database URL, e.g.
	// https://example-default-rtdb.firebaseio.com
	DatabaseURL string

	// Timeout bounds each individual read. Zero means the default.
	Timeout time.Duration

	// LoadRetries is the number of additional attempts for the bulk catalog
	// load. Image reads are never retried.
	LoadRetries int

	Logger *zap.Logger
}

// Client reads the catalog and auxiliary images from Firebase Realtime
// Database. The store is world-readable, so the client connects without
// credentials.
type Client struct {
	db      *db.Client
	timeout time.Duration
	retries int
	logger  *zap.Logger
}

// NewClient initialises the Firebase app and database client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	url := strings.TrimSpace(cfg.DatabaseURL)
	if url == "" {
		return nil, fmt.Errorf("rtdb: database URL is required")
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: url}, option.WithoutAuthentication())
	if err != nil {
		return nil, fmt.Errorf("rtdb: initialise app: %w", err)
	}
	database, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("rtdb: initialise database client: %w", err)
	}

	c := &Client{
		db:      database,
		timeout: cfg.Timeout,
		retries: cfg.LoadRetries,
		logger:  cfg.Logger,
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.retries < 0 {
		c.retries = defaultRetries
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c, nil
}

// LoadCatalog fetches the full catalog from the products root. The read is
// retried with a short linear backoff because the whole session depends on
// it; on final failure the caller degrades to an empty catalog.
func (c *Client) LoadCatalog(ctx context.Context) (catalog.Catalog, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * retryBaseDelay
			select {
			case <-ctx.Done():
				return catalog.Catalog{}, ctx.Err()
			case <-time.After(delay):
			}
			c.logger.Warn("retrying catalog load",
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
		}
		readCtx, cancel := context.WithTimeout(ctx, c.timeout)
		var cat catalog.Catalog
		err := c.db.NewRef(productsPath).Get(readCtx, &cat)
		cancel()
		if err == nil {
			return cat, nil
		}
		lastErr = err
	}
	return catalog.Catalog{}, fmt.Errorf("rtdb: load catalog: %w", lastErr)
}

// LoadImage resolves one auxiliary image value by key. Best effort: absent
// or failed lookups return ErrNotFound-style results and the placeholder
// stays in place.
func (c *Client) LoadImage(ctx context.Context, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, "/.#$[]") {
		return "", catalog.ErrNotFound
	}
	readCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var value string
	if err := c.db.NewRef(imagesPath+"/"+key).Get(readCtx, &value); err != nil {
		return "", fmt.Errorf("rtdb: load image %q: %w", key, err)
	}
	if value == "" {
		return "", catalog.ErrNotFound
	}
	return value, nil
}
