package payments

import (
	"context"
	"strings"

	"github.com/stripe/stripe-go/v82"

	"github.com/hormonegroup/storefront/pkg/errors"
)

// Checkout path defaults applied when the caller supplies none.
const (
	DefaultSuccessPath = "/thanks"
	DefaultCancelPath  = "/tests"
)

// ShippingCountries is the fixed allow-list of shipping destinations for
// checkout sessions. Sample kits are only dispatched within these markets.
var ShippingCountries = []string{
	"NL", "BE", "DE", "FR", "AT", "LU", "IE", "ES", "IT", "PT", "FI",
}

// CheckoutParams describes a single-use checkout session request.
type CheckoutParams struct {
	PriceID     string
	SuccessPath string
	CancelPath  string

	// SiteURL is the storefront origin the redirect paths are resolved
	// against, e.g. "https://shop.example.com".
	SiteURL string
}

// NewCheckoutSession creates a single-use payment session for one unit of
// the given price and returns the hosted checkout URL.
func (c *Client) NewCheckoutSession(ctx context.Context, p CheckoutParams) (string, error) {
	if p.PriceID == "" {
		return "", errors.NewValidationError("priceId", "must not be empty")
	}
	if p.SuccessPath == "" {
		p.SuccessPath = DefaultSuccessPath
	}
	if p.CancelPath == "" {
		p.CancelPath = DefaultCancelPath
	}

	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
		Mode:   stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(resolvePath(p.SiteURL, p.SuccessPath)),
		CancelURL:  stripe.String(resolvePath(p.SiteURL, p.CancelPath)),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(ShippingCountries),
		},
	}

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", errors.WrapUpstream("payment-provider", "create checkout session", err)
	}

	c.logger.Info().
		Str("session_id", session.ID).
		Str("stripe_price_id", p.PriceID).
		Msg("Created checkout session")
	return session.URL, nil
}

// resolvePath joins the site origin and a redirect path, tolerating a
// missing slash on either side.
func resolvePath(siteURL, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimSuffix(siteURL, "/") + path
}
