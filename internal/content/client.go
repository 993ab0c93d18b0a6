package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/hormonegroup/storefront/pkg/errors"
	"github.com/hormonegroup/storefront/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for content-store requests.
var DefaultHTTPTimeout = 15 * time.Second

const apiVersion = "v2024-01-01"

// Config holds content-store connection settings.
type Config struct {
	ProjectID string
	Dataset   string

	// ReadToken is optional for public datasets.
	ReadToken string

	// WriteToken enables the identifier write-back. When empty the client
	// is read-only and persistence is skipped (soft success).
	WriteToken string

	// BaseURL overrides the hosted API endpoint, used by tests.
	BaseURL string
}

// Client is an HTTP client for the content store's query and mutation APIs.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zerolog.Logger
}

// NewClient creates a content-store client from configuration.
func NewClient(cfg Config, logger *zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		if cfg.ProjectID == "" {
			return nil, errors.NewConfigError("content", "CONTENT_PROJECT_ID is not set", nil)
		}
		cfg.BaseURL = fmt.Sprintf("https://%s.api.sanity.io", cfg.ProjectID)
	}
	if cfg.Dataset == "" {
		cfg.Dataset = "production"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: DefaultHTTPTimeout},
		logger: logger,
	}, nil
}

// CanWrite reports whether a write-capable credential is configured.
func (c *Client) CanWrite() bool {
	return c.cfg.WriteToken != ""
}

// GetTestByID resolves a catalog item by its document id.
func (c *Client) GetTestByID(ctx context.Context, id string) (*CatalogItem, error) {
	query := fmt.Sprintf(`*[_type == %q && _id == $id][0]{_id, _type, title, slug, description, price, stripeProductId, stripePriceId}`, DocumentType)
	return c.getOne(ctx, query, map[string]any{"id": id}, id)
}

// GetTestBySlug resolves a catalog item by its slug.
func (c *Client) GetTestBySlug(ctx context.Context, s string) (*CatalogItem, error) {
	query := fmt.Sprintf(`*[_type == %q && slug.current == $slug][0]{_id, _type, title, slug, description, price, stripeProductId, stripePriceId}`, DocumentType)
	return c.getOne(ctx, query, map[string]any{"slug": s}, s)
}

// ListTests returns all published catalog items, ordered by title.
func (c *Client) ListTests(ctx context.Context) ([]CatalogItem, error) {
	query := fmt.Sprintf(`*[_type == %q && !(_id in path("drafts.**"))] | order(title asc){_id, _type, title, slug, description, price, stripeProductId, stripePriceId}`, DocumentType)

	var docs []document
	if err := c.query(ctx, query, nil, &docs); err != nil {
		return nil, err
	}

	items := make([]CatalogItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.item())
	}
	return items, nil
}

// SetStripeIdentifiers patches the payment-provider identifiers onto an
// existing document. Empty values are left untouched so the reverse-sync
// path can patch a single field.
func (c *Client) SetStripeIdentifiers(ctx context.Context, id, productID, priceID string) error {
	if !c.CanWrite() {
		return errors.NewConfigError("content", "no write token configured", nil)
	}

	set := map[string]any{}
	if productID != "" {
		set["stripeProductId"] = productID
	}
	if priceID != "" {
		set["stripePriceId"] = priceID
	}
	if len(set) == 0 {
		return nil
	}

	body := map[string]any{
		"mutations": []any{
			map[string]any{
				"patch": map[string]any{
					"id":  id,
					"set": set,
				},
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return errors.WrapUpstream("content-store", "encode mutation", err)
	}

	endpoint := fmt.Sprintf("%s/%s/data/mutate/%s", c.cfg.BaseURL, apiVersion, c.cfg.Dataset)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.WrapUpstream("content-store", "create mutation request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.WriteToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapUpstream("content-store", "mutate", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return c.statusError("mutate", resp)
	}

	c.logger.Debug().
		Str("item_id", id).
		Str("stripe_product_id", productID).
		Str("stripe_price_id", priceID).
		Msg("Patched payment identifiers onto catalog item")
	return nil
}

// getOne runs a single-document query and maps an empty result to NotFound.
func (c *Client) getOne(ctx context.Context, query string, params map[string]any, ref string) (*CatalogItem, error) {
	var doc *document
	if err := c.query(ctx, query, params, &doc); err != nil {
		return nil, err
	}
	if doc == nil || doc.ID == "" {
		return nil, errors.NewNotFoundError("catalog item", ref)
	}
	item := doc.item()
	return &item, nil
}

// query executes a GROQ query against the query endpoint and decodes the
// result field into out.
func (c *Client) query(ctx context.Context, query string, params map[string]any, out any) error {
	endpoint := fmt.Sprintf("%s/%s/data/query/%s", c.cfg.BaseURL, apiVersion, c.cfg.Dataset)

	values := url.Values{}
	values.Set("query", query)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return errors.WrapUpstream("content-store", "encode query param", err)
		}
		values.Set("$"+name, string(encoded))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+values.Encode(), nil)
	if err != nil {
		return errors.WrapUpstream("content-store", "create query request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.ReadToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.ReadToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapUpstream("content-store", "query", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return c.statusError("query", resp)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return errors.WrapUpstream("content-store", "decode query response", err)
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return errors.WrapUpstream("content-store", "decode query result", err)
	}
	return nil
}

// statusError converts a non-200 response into an UpstreamError, keeping a
// short body excerpt for diagnostics.
func (c *Client) statusError(operation string, resp *http.Response) error {
	excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &errors.UpstreamError{
		System:    "content-store",
		Operation: operation,
		Message:   fmt.Sprintf("status %d: %s", resp.StatusCode, string(excerpt)),
	}
}
