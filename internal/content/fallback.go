package content

import (
	"embed"
	"sort"

	"github.com/goccy/go-yaml"
	"github.com/shopspring/decimal"

	"github.com/hormonegroup/storefront/pkg/errors"
)

// fallbackFS embeds the static fallback catalog served when the content
// store is unreachable. It mirrors the published items at build time and
// carries no payment identifiers: fallback items are browsable, not buyable.
//
//go:embed fallback/*.yaml
var fallbackFS embed.FS

// fallbackEntry is the YAML shape of one fallback catalog item.
type fallbackEntry struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
}

// FallbackCatalog returns the embedded fallback catalog items, ordered by
// title like the live listing.
func FallbackCatalog() ([]CatalogItem, error) {
	data, err := fallbackFS.ReadFile("fallback/catalog.yaml")
	if err != nil {
		return nil, errors.WrapUpstream("content-store", "read fallback catalog", err)
	}

	var file struct {
		Tests []fallbackEntry `yaml:"tests"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapUpstream("content-store", "parse fallback catalog", err)
	}

	items := make([]CatalogItem, 0, len(file.Tests))
	for _, entry := range file.Tests {
		item := CatalogItem{
			ID:          entry.ID,
			Title:       entry.Title,
			Slug:        entry.Slug,
			Description: entry.Description,
		}
		if entry.Price != "" {
			amount, err := decimal.NewFromString(entry.Price)
			if err != nil {
				return nil, errors.NewValidationError("price", "fallback catalog price for "+entry.Slug+" is not numeric")
			}
			item.PriceAmount = &amount
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Title < items[j].Title })
	return items, nil
}
