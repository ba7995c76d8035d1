// Package scrape assembles the extraction pipeline: validate, fetch through
// relays, strip boilerplate, decompose into blocks and read metadata.
package scrape

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/smartscrape/internal/blocks"
	"github.com/hyperifyio/smartscrape/internal/meta"
	"github.com/hyperifyio/smartscrape/internal/strip"
	"github.com/hyperifyio/smartscrape/internal/weburl"
)

const (
	// MaxFallbackChars caps plain text taken from the reduced fragment.
	MaxFallbackChars = 5000
	// MaxBodyFallbackChars caps plain text taken from <body>.
	MaxBodyFallbackChars = 3000
	// ThinContentChars is the length below which the <body> fallback is tried.
	ThinContentChars = 100
)

// Fetcher retrieves raw HTML for a validated URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Scraper runs the pipeline. It keeps no state between calls.
type Scraper struct {
	Fetcher  Fetcher
	Stripper strip.Stripper
	// Zero fields of Policy take the blocks.DefaultPolicy() values.
	Policy blocks.Policy
}

// Scrape never fails: errors are reported in Article.Error.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) Article {
	if !weburl.Valid(rawURL) {
		log.Debug().Str("url", rawURL).Msg("rejected invalid url")
		return errorArticle(rawURL, ErrInvalidURL)
	}
	if s.Fetcher == nil {
		return errorArticle(rawURL, "no fetcher configured")
	}

	page, err := s.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		log.Warn().Err(err).Str("url", rawURL).Msg("fetch failed")
		return errorArticle(rawURL, err.Error())
	}
	return s.Assemble(rawURL, page)
}

// Assemble builds an article from an already fetched page.
func (s *Scraper) Assemble(sourceURL, page string) Article {
	reduced := s.Stripper.Strip(page)
	bs := blocks.Decompose(reduced.HTML, s.policy())
	md := meta.Extract(page)

	a := Article{
		SourceURL:       sourceURL,
		Title:           md.Title,
		ContentBlocks:   bs,
		Author:          md.Author,
		PublishedDate:   md.PublishedTime,
		MetaDescription: md.Description,
		FeaturedImage:   md.Image,
	}
	if a.Title == "" {
		a.Title = UntitledArticle
	}
	if len(bs) > 0 {
		a.PlainText = RenderPlainText(bs)
	} else {
		a.ContentBlocks = []blocks.Block{}
		a.PlainText = fallbackText(reduced.HTML, page)
	}

	log.Info().
		Str("url", sourceURL).
		Str("domain", weburl.Domain(sourceURL)).
		Str("pattern", reduced.Pattern).
		Int("blocks", len(bs)).
		Int("chars", blocks.CharLen(a.PlainText)).
		Msg("article extracted")
	return a
}

// fallbackText degrades from the reduced fragment to <body> to a fixed
// sentinel. Thin content is never an error.
func fallbackText(reduced, page string) string {
	text := blocks.Truncate(blocks.StripTags(reduced), MaxFallbackChars)
	if blocks.CharLen(text) < ThinContentChars {
		body := blocks.Truncate(blocks.BodyText(page), MaxBodyFallbackChars)
		if blocks.CharLen(body) > blocks.CharLen(text) {
			text = body
		}
	}
	if text == "" {
		return NoContent
	}
	return text
}

func (s *Scraper) policy() blocks.Policy {
	return s.Policy.WithDefaults()
}
