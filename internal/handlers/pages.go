package handlers

import (
	"marketchoice.org/web/internal/content"
	"marketchoice.org/web/internal/nav"
	"marketchoice.org/web/internal/seo"
	"marketchoice.org/web/internal/view"
)

// PageData is the view model for full pages using the shared layout.
// Exactly one of the per-view payloads is populated, matching the active
// selection state; the rest stay nil so no markup from a previous view can
// survive into the next render.
type PageData struct {
	Title     string
	Path      string
	SEO       seo.Meta
	Analytics Analytics

	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb

	Categories *view.CategoriesView
	Products   *view.ProductListView
	Product    *view.ProductDetailView
	Content    *content.Page
}
