// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"

	"github.com/pdiddy/taxonomy-tsv/internal/shopify"
	"github.com/pdiddy/taxonomy-tsv/internal/taxonomy"
	"github.com/pdiddy/taxonomy-tsv/pkg/types"
)

// OzonExtractor flattens an ozon export.
type OzonExtractor struct{}

// Extract implements Extractor.
func (OzonExtractor) Extract(inputPath string) (Extraction, error) {
	doc, err := taxonomy.LoadOzon(inputPath)
	if err != nil {
		return Extraction{}, err
	}
	return Extraction{Rows: taxonomy.FlattenOzon(doc.Result, "")}, nil
}

// YandexExtractor flattens a yandex export, leaving out its root node.
type YandexExtractor struct{}

// Extract implements Extractor.
func (YandexExtractor) Extract(inputPath string) (Extraction, error) {
	doc, err := taxonomy.LoadYandex(inputPath)
	if err != nil {
		return Extraction{}, err
	}
	return Extraction{Rows: taxonomy.FlattenYandexRoot(doc.Result)}, nil
}

// ShopifyExtractor parses a Shopify taxonomy listing.
type ShopifyExtractor struct {
	Parser *shopify.Parser
}

// Extract implements Extractor.
func (s ShopifyExtractor) Extract(inputPath string) (Extraction, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return Extraction{}, err
	}
	defer f.Close()

	p := s.Parser
	if p == nil {
		p = shopify.NewParser("", nil)
	}
	res, err := p.Parse(f)
	if err != nil {
		return Extraction{}, fmt.Errorf("%s: %w", inputPath, err)
	}
	return Extraction{Rows: res.Rows, Skipped: res.Skipped}, nil
}

// ExtractorFor returns the extractor for platform. parser is used for
// shopify and may be nil.
func ExtractorFor(platform types.Platform, parser *shopify.Parser) (Extractor, error) {
	switch platform {
	case types.PlatformOzon:
		return OzonExtractor{}, nil
	case types.PlatformYandex:
		return YandexExtractor{}, nil
	case types.PlatformShopify:
		return ShopifyExtractor{Parser: parser}, nil
	default:
		return nil, fmt.Errorf("no extractor for platform %q", platform)
	}
}
