package images

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"marketchoice.org/web/internal/catalog"
)

const defaultTTL = 10 * time.Minute

// Slot is one rendered image placeholder captured at render time. The
// loader patches the slot, not the key, because the same key can appear on
// several cards at once.
type Slot struct {
	Key   string
	Apply func(src string)
}

// Loader resolves auxiliary image keys against the data source and patches
// rendered slots in place. Each render carries the loader's current
// generation token; Advance invalidates it, so a resolution that lands
// after the user navigated away is discarded without touching the new view.
type Loader struct {
	source catalog.Source
	logger *zap.Logger

	mu    sync.Mutex
	gen   uint64
	cache map[string]cacheEntry
	ttl   time.Duration
}

type cacheEntry struct {
	value   string
	expires time.Time
}

// NewLoader builds a loader over the given source.
func NewLoader(source catalog.Source, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		source: source,
		logger: logger,
		cache:  map[string]cacheEntry{},
		ttl:    defaultTTL,
	}
}

// SetTTL overrides the cache duration (primarily for tests).
func (l *Loader) SetTTL(d time.Duration) {
	if d <= 0 {
		d = time.Minute
	}
	l.mu.Lock()
	l.ttl = d
	l.mu.Unlock()
}

// Generation returns the token identifying the currently live render.
func (l *Loader) Generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}

// Advance marks a navigation boundary: every resolution issued under an
// earlier generation becomes a no-op.
func (l *Loader) Advance() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	return l.gen
}

// Resolve fetches every slot's key and applies the result while the given
// generation is still live. Slots resolve independently and in no
// particular order; absent keys leave the placeholder untouched. Resolve
// waits for all in-flight fetches, so callers wanting fire-and-forget
// behaviour run it on its own goroutine.
func (l *Loader) Resolve(ctx context.Context, gen uint64, slots []Slot) {
	var wg sync.WaitGroup
	for _, slot := range slots {
		if slot.Key == "" {
			continue
		}
		wg.Add(1)
		go func(s Slot) {
			defer wg.Done()
			l.resolveOne(ctx, gen, s)
		}(slot)
	}
	wg.Wait()
}

func (l *Loader) resolveOne(ctx context.Context, gen uint64, s Slot) {
	if value, ok := l.cached(s.Key); ok {
		l.apply(gen, s, value)
		return
	}
	value, err := l.source.LoadImage(ctx, s.Key)
	if err != nil {
		if ctx.Err() == nil {
			l.logger.Debug("image unresolved", zap.String("key", s.Key), zap.Error(err))
		}
		return
	}
	l.apply(gen, s, value)
}

func (l *Loader) apply(gen uint64, s Slot, value string) {
	l.mu.Lock()
	if gen != l.gen {
		// Stale resolution from a view the user already left.
		l.mu.Unlock()
		return
	}
	l.cache[s.Key] = cacheEntry{value: value, expires: time.Now().Add(l.ttl)}
	l.mu.Unlock()

	if s.Apply != nil {
		s.Apply(value)
	}
}

// Get resolves a single key for direct delivery, consulting the cache
// first. Unlike Resolve it is generation-independent: an explicit request
// for a key is always valid.
func (l *Loader) Get(ctx context.Context, key string) (string, error) {
	if value, ok := l.cached(key); ok {
		return value, nil
	}
	value, err := l.source.LoadImage(ctx, key)
	if err != nil {
		return "", err
	}
	l.mu.Lock()
	l.cache[key] = cacheEntry{value: value, expires: time.Now().Add(l.ttl)}
	l.mu.Unlock()
	return value, nil
}

func (l *Loader) cached(key string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.cache[key]
	if !ok || time.Now().After(entry.expires) {
		return "", false
	}
	return entry.value, true
}

// DecodeDataURI splits a data: URI into its content type and payload.
// Resolved image values are usually stored as base64 data URIs.
func DecodeDataURI(v string) (contentType string, data []byte, ok bool) {
	if !strings.HasPrefix(v, "data:") {
		return "", nil, false
	}
	rest := strings.TrimPrefix(v, "data:")
	semi := strings.Index(rest, ",")
	if semi < 0 {
		return "", nil, false
	}
	meta, payload := rest[:semi], rest[semi+1:]
	if strings.HasSuffix(meta, ";base64") {
		raw, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, false
		}
		return strings.TrimSuffix(meta, ";base64"), raw, true
	}
	if meta == "" {
		meta = "text/plain"
	}
	return meta, []byte(payload), true
}
