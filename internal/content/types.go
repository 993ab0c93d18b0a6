// Package content provides the content-store client for the storefront.
// Catalog items (lab tests) are authored in a hosted headless CMS; this
// package reads them through the query API and writes payment-provider
// identifiers back through the mutation API.
package content

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DocumentType is the content-store document type for catalog items.
const DocumentType = "labTest"

// CatalogItem is a sellable lab test as stored in the content store.
// The content store owns it; this system reads it and patches only the
// payment-provider identifier fields.
type CatalogItem struct {
	ID          string
	Title       string
	Slug        string
	Description string

	// PriceAmount is the price in major currency units (euros).
	// Nil when the editor has not priced the item yet.
	PriceAmount *decimal.Decimal

	// StripeProductID and StripePriceID are set by reconciliation.
	StripeProductID string
	StripePriceID   string
}

// DisplayTitle returns the item title, deriving one from the slug when the
// document has no title yet (drafts saved mid-edit).
func (i CatalogItem) DisplayTitle() string {
	if i.Title != "" {
		return i.Title
	}
	words := strings.ReplaceAll(i.Slug, "-", " ")
	return cases.Title(language.English).String(words)
}

// HasPrice reports whether the item carries a usable price amount.
func (i CatalogItem) HasPrice() bool {
	return i.PriceAmount != nil
}

// document is the wire shape of a catalog item in the content store.
type document struct {
	ID          string `json:"_id"`
	Type        string `json:"_type"`
	Title       string `json:"title"`
	Slug        slug   `json:"slug"`
	Description string `json:"description"`

	Price *decimal.Decimal `json:"price"`

	StripeProductID string `json:"stripeProductId"`
	StripePriceID   string `json:"stripePriceId"`
}

// slug is the content store's nested slug shape.
type slug struct {
	Current string `json:"current"`
}

// item converts a wire document into a CatalogItem.
func (d document) item() CatalogItem {
	return CatalogItem{
		ID:              d.ID,
		Title:           d.Title,
		Slug:            d.Slug.Current,
		Description:     d.Description,
		PriceAmount:     d.Price,
		StripeProductID: d.StripeProductID,
		StripePriceID:   d.StripePriceID,
	}
}
