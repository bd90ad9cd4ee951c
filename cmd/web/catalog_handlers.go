package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"marketchoice.org/web/internal/content"
	handlersPkg "marketchoice.org/web/internal/handlers"
	"marketchoice.org/web/internal/images"
	"marketchoice.org/web/internal/nav"
	"marketchoice.org/web/internal/view"
)

// IndexHandler serves every full-page request. A full page load carries
// history-replay semantics: the selection is reconstructed from the query
// string with the same validation and fallbacks as user navigation, and no
// history entry is pushed.
func IndexHandler(w http.ResponseWriter, r *http.Request) {
	cat := store.Snapshot()
	sel := view.ParseSelection(r.URL.Query(), cat)
	renderSelection(w, r, sel, false)
}

// ViewFragHandler serves user-initiated navigation: category clicks,
// pagination, product clicks and search keystrokes arrive here as htmx
// fragment requests. The response pushes the canonical URL for the
// resulting selection — except for searches, which are session-local and
// never touch the URL or the history stack.
func ViewFragHandler(w http.ResponseWriter, r *http.Request) {
	cat := store.Snapshot()
	q := r.URL.Query()
	sel := view.ParseSelection(q, cat)
	if raw := q.Get("q"); raw != "" {
		sel = view.ApplySearch(sel, raw)
	}
	if sel.Query == "" {
		w.Header().Set("HX-Push-Url", sel.URL())
	}
	renderSelection(w, r, sel, true)
}

// renderSelection clears the previous render generation, builds the view
// model for the selection and paints it as either a fragment or a full
// page. Auxiliary images resolve in the background against the new
// generation; anything still in flight for the old one is discarded.
func renderSelection(w http.ResponseWriter, r *http.Request, sel view.Selection, frag bool) {
	cat := store.Snapshot()
	gen := loader.Advance()

	vm := handlersPkg.PageData{
		Path:      r.URL.Path,
		Nav:       nav.Build("/"),
		Analytics: handlersPkg.LoadAnalyticsFromEnv(),
	}

	var name string
	var slots []images.Slot
	productName := ""

	switch sel.State {
	case view.StateProductList:
		pv := view.BuildProductList(cat, sel, pageSize)
		vm.Products = &pv
		for _, c := range pv.Cards {
			if c.ImageKey != "" {
				slots = append(slots, images.Slot{Key: c.ImageKey})
			}
		}
		name = "products"
	case view.StateProductDetail:
		dv, ok := view.BuildProductDetail(cat, sel)
		if !ok {
			// ParseSelection already validated; a miss here means the
			// catalog changed between snapshots. Fall back to categories.
			sel = view.NavigateToCategories()
			cv := view.BuildCategories(cat)
			vm.Categories = &cv
			name = "home"
			break
		}
		vm.Product = &dv
		productName = dv.Name
		if dv.ImageKey != "" {
			slots = append(slots, images.Slot{Key: dv.ImageKey})
		}
		name = "product"
	default:
		cv := view.BuildCategories(cat)
		vm.Categories = &cv
		name = "home"
	}

	vm.Breadcrumbs = nav.Breadcrumbs(sel, productName)
	buildMeta(&vm, r, sel, cat)
	vm.Title = vm.SEO.Title

	if len(slots) > 0 {
		prefetchImages(gen, slots)
	}

	if frag {
		renderFragment(w, fragmentName(name), vm)
		return
	}
	renderPage(w, name, vm)
}

func fragmentName(page string) string {
	switch page {
	case "products":
		return "frag_products"
	case "product":
		return "frag_product"
	default:
		return "frag_categories"
	}
}

// prefetchImages warms the auxiliary image cache for the freshly rendered
// view. Fire and forget: completions for a superseded generation are
// dropped by the loader.
func prefetchImages(gen uint64, slots []images.Slot) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	go func() {
		defer cancel()
		loader.Resolve(ctx, gen, slots)
	}()
}

// ImageHandler delivers a resolved auxiliary image. Values are stored as
// data URIs or URLs; unresolvable keys redirect to the placeholder so the
// browser shows the same degraded state the card rendered with.
func ImageHandler(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	value, err := loader.Get(r.Context(), key)
	if err != nil {
		http.Redirect(w, r, view.PlaceholderImage, http.StatusFound)
		return
	}
	if ct, data, ok := images.DecodeDataURI(value); ok {
		w.Header().Set("Content-Type", ct)
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = w.Write(data)
		return
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") || strings.HasPrefix(value, "/") {
		http.Redirect(w, r, value, http.StatusFound)
		return
	}
	http.Redirect(w, r, view.PlaceholderImage, http.StatusFound)
}

// ContentPageHandler renders a static markdown-backed page.
func ContentPageHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	page, err := pages.Page(slug)
	if err != nil {
		if err != content.ErrNotFound {
			logger.Warn("content page failed", zap.String("slug", slug), zap.Error(err))
		}
		http.NotFound(w, r)
		return
	}

	vm := handlersPkg.PageData{
		Title:     page.Title,
		Path:      r.URL.Path,
		Nav:       nav.Build(r.URL.Path),
		Analytics: handlersPkg.LoadAnalyticsFromEnv(),
		Content:   &page,
	}
	vm.SEO.Title = page.Title + " | " + brandName
	vm.SEO.Description = page.Summary
	vm.SEO.Canonical = absoluteURL(r)

	renderPage(w, "content_page", vm)
}
