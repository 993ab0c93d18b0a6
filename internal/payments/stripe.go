package payments

import (
	"context"
	stderrors "errors"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/hormonegroup/storefront/pkg/errors"
	"github.com/hormonegroup/storefront/pkg/logging"
)

// Client is the Stripe-backed payment gateway.
type Client struct {
	api    *client.API
	logger *zerolog.Logger
}

// NewClient creates a payment gateway from an API key. The key is required:
// unlike the content-store write token, there is no read-only mode to fall
// back to.
func NewClient(apiKey string, logger *zerolog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, errors.NewConfigError("stripe", "STRIPE_SECRET_KEY is not set", nil)
	}
	if logger == nil {
		logger = logging.Default()
	}

	api := &client.API{}
	api.Init(apiKey, nil)

	return &Client{api: api, logger: logger}, nil
}

// CreateProduct creates a provider product named after the catalog item,
// with metadata linking back to it. There is no idempotency key: a crash
// between creation and persistence leaves a duplicate product on retry.
func (c *Client) CreateProduct(ctx context.Context, name string, metadata map[string]string) (string, error) {
	params := &stripe.ProductParams{
		Params: stripe.Params{Context: ctx},
		Name:   stripe.String(name),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	product, err := c.api.Products.New(params)
	if err != nil {
		return "", errors.WrapUpstream("payment-provider", "create product", err)
	}

	c.logger.Info().
		Str("stripe_product_id", product.ID).
		Str("name", name).
		Msg("Created provider product")
	return product.ID, nil
}

// GetProduct retrieves a provider product, including its metadata bag.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	params := &stripe.ProductParams{Params: stripe.Params{Context: ctx}}
	product, err := c.api.Products.Get(id, params)
	if err != nil {
		if IsMissing(err) {
			return nil, errors.NewNotFoundError("provider product", id)
		}
		return nil, errors.WrapUpstream("payment-provider", "get product", err)
	}
	return &Product{ID: product.ID, Name: product.Name, Metadata: product.Metadata}, nil
}

// CreatePrice creates a one-time EUR price for a product.
func (c *Client) CreatePrice(ctx context.Context, productID string, amountMinor int64) (string, error) {
	params := &stripe.PriceParams{
		Params:     stripe.Params{Context: ctx},
		Product:    stripe.String(productID),
		Currency:   stripe.String(Currency),
		UnitAmount: stripe.Int64(amountMinor),
	}

	price, err := c.api.Prices.New(params)
	if err != nil {
		return "", errors.WrapUpstream("payment-provider", "create price", err)
	}

	c.logger.Info().
		Str("stripe_price_id", price.ID).
		Str("stripe_product_id", productID).
		Int64("amount_minor", amountMinor).
		Msg("Created provider price")
	return price.ID, nil
}

// GetPrice retrieves a provider price. A provider-side resource_missing is
// surfaced as NotFound so callers can distinguish a deleted price from a
// transient failure.
func (c *Client) GetPrice(ctx context.Context, id string) (*Price, error) {
	params := &stripe.PriceParams{Params: stripe.Params{Context: ctx}}
	price, err := c.api.Prices.Get(id, params)
	if err != nil {
		if IsMissing(err) {
			return nil, errors.NewNotFoundError("provider price", id)
		}
		return nil, errors.WrapUpstream("payment-provider", "get price", err)
	}

	p := &Price{
		ID:          price.ID,
		AmountMinor: price.UnitAmount,
		Currency:    string(price.Currency),
		OneTime:     price.Type == stripe.PriceTypeOneTime,
		Metadata:    price.Metadata,
	}
	if price.Product != nil {
		p.ProductID = price.Product.ID
	}
	return p, nil
}

// IsMissing reports whether err is the provider's resource_missing error,
// as opposed to any other API failure.
func IsMissing(err error) bool {
	var stripeErr *stripe.Error
	if stderrors.As(err, &stripeErr) {
		return stripeErr.Code == stripe.ErrorCodeResourceMissing
	}
	return false
}
