package handlers

import (
	"net/http"

	"github.com/hormonegroup/storefront/internal/content"
	"github.com/hormonegroup/storefront/internal/server/response"
	"github.com/hormonegroup/storefront/pkg/errors"
	"github.com/hormonegroup/storefront/pkg/logging"
)

// testView is the public JSON shape of a catalog item.
type testView struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Description   string `json:"description,omitempty"`
	Price         string `json:"price,omitempty"`
	StripePriceID string `json:"stripePriceId,omitempty"`
}

// listView is the catalog listing payload. Fallback marks responses served
// from the embedded catalog while the content store is unreachable.
type listView struct {
	Tests    []testView `json:"tests"`
	Fallback bool       `json:"fallback,omitempty"`
}

func viewOf(item content.CatalogItem) testView {
	v := testView{
		ID:            item.ID,
		Title:         item.DisplayTitle(),
		Slug:          item.Slug,
		Description:   item.Description,
		StripePriceID: item.StripePriceID,
	}
	if item.PriceAmount != nil {
		v.Price = item.PriceAmount.String()
	}
	return v
}

// HandleListTests handles GET /api/v1/tests. Upstream failures fall back to
// the embedded catalog so the storefront keeps rendering during a content
// store outage.
func (h *Handlers) HandleListTests(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListTests(r.Context())
	fallback := false
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Content store listing failed; serving fallback catalog")

		items, err = content.FallbackCatalog()
		if err != nil {
			response.FromError(w, err)
			return
		}
		fallback = true
	}

	views := make([]testView, 0, len(items))
	for _, item := range items {
		views = append(views, viewOf(item))
	}
	response.OK(w, listView{Tests: views, Fallback: fallback})
}

// HandleGetTest handles GET /api/v1/tests/{slug}.
func (h *Handlers) HandleGetTest(w http.ResponseWriter, r *http.Request, slug string) {
	if slug == "" {
		response.BadRequest(w, "slug is required", "")
		return
	}

	item, err := h.catalog.GetTestBySlug(r.Context(), slug)
	if err != nil {
		if !errors.IsNotFound(err) {
			logging.Ctx(r.Context()).Error().Err(err).Str("slug", slug).Msg("Catalog item lookup failed")
		}
		response.FromError(w, err)
		return
	}

	response.OK(w, viewOf(*item))
}
