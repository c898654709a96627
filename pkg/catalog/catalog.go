// Package catalog scrapes the add-on catalog site: listing pages become
// model.CatalogEntry values and detail pages yield a version-specific
// package link. The markup is not a stable API, so parsing is best-effort.
package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/glorpus-work/relictum/internal/logger"
	"github.com/glorpus-work/relictum/pkg/errors"
	pkghttp "github.com/glorpus-work/relictum/pkg/http"
	"github.com/glorpus-work/relictum/pkg/model"
)

const (
	// DefaultBaseURL is the catalog site root.
	DefaultBaseURL = "https://warperia.com/"
	// DefaultDetailTimeout bounds a detail page fetch.
	DefaultDetailTimeout = 15 * time.Second
	// UnknownTitle is used for cards without a readable title.
	UnknownTitle = "Unknown Addon"
)

// CSS selectors for the catalog markup.
const (
	cardSelector        = `a[class*="card-addon"][href]`
	titleSelector       = `div[class^="addon-title"]`
	descriptionSelector = `div[class*="addon-short"]`
	linkSelector        = `a[href]`
)

// Client reads the catalog through a pkghttp.Fetcher.
type Client struct {
	base          *url.URL
	fetcher       pkghttp.Fetcher
	detailTimeout time.Duration
}

// NewClient creates a catalog client rooted at baseURL (DefaultBaseURL when
// empty). detailTimeout <= 0 selects DefaultDetailTimeout.
func NewClient(baseURL string, fetcher pkghttp.Fetcher, detailTimeout time.Duration) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid catalog url %q: %w", baseURL, errors.ErrConfigValidation)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if detailTimeout <= 0 {
		detailTimeout = DefaultDetailTimeout
	}
	return &Client{base: base, fetcher: fetcher, detailTimeout: detailTimeout}, nil
}

// GameFor maps a catalog category onto a game. Unknown categories fall back
// to wotlk.
func GameFor(category string) model.Game {
	game, err := model.LookupGame(category)
	if err != nil {
		game, _ = model.LookupGame(model.GameWotLK)
	}
	return game
}

// ListingURL returns the listing page for category.
func (c *Client) ListingURL(category string) string {
	return c.base.ResolveReference(&url.URL{Path: GameFor(category).CatalogPath}).String()
}

// Browse returns the add-ons listed for category. Network and status
// failures are logged and yield an empty list; only cancellation by the
// caller is returned as an error.
func (c *Client) Browse(ctx context.Context, category string) ([]model.CatalogEntry, error) {
	game := GameFor(category)
	listingURL := c.ListingURL(category)
	logger.Debug("Fetching catalog listing", logger.Fields{"category": game.ID, "url": listingURL})

	body, err := c.fetcher.Get(ctx, listingURL)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, ctx.Err()
		}
		logger.Warn("Failed to fetch catalog listing", logger.Fields{"url": listingURL, "error": err})
		return []model.CatalogEntry{}, nil
	}

	pageURL, _ := url.Parse(listingURL)
	entries, err := ParseListing(bytes.NewReader(body), game, pageURL)
	if err != nil {
		logger.Warn("Failed to parse catalog listing", logger.Fields{"url": listingURL, "error": err})
		return []model.CatalogEntry{}, nil
	}
	return entries, nil
}

// ParseListing extracts catalog cards from a listing page. Cards without an
// href are skipped; relative links are resolved against pageURL when given.
func ParseListing(r io.Reader, game model.Game, pageURL *url.URL) ([]model.CatalogEntry, error) {
	doc, err := parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}

	entries := make([]model.CatalogEntry, 0)
	doc.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		href := strings.TrimSpace(card.AttrOr("href", ""))
		if href == "" {
			return
		}

		title := UnknownTitle
		if sel := card.Find(titleSelector).First(); sel.Length() > 0 {
			if text := cleanText(sel.Text()); text != "" {
				title = text
			}
		}

		entries = append(entries, model.CatalogEntry{
			Title:       title,
			Description: cleanText(card.Find(descriptionSelector).First().Text()),
			ImageURL:    resolve(pageURL, imageOf(card)),
			DetailURL:   resolve(pageURL, href),
			GameVersion: game.CatalogVersion,
		})
	})
	return entries, nil
}

// ResolveDownloadURL fetches the detail page under the detail deadline and
// picks the package link for category.
func (c *Client) ResolveDownloadURL(ctx context.Context, detailURL, category string) (string, error) {
	pageURL, err := url.Parse(detailURL)
	if err != nil || pageURL.Host == "" {
		return "", fmt.Errorf("invalid detail url %q: %w", detailURL, errors.ErrInvalidPath)
	}

	ctx, cancel := context.WithTimeout(ctx, c.detailTimeout)
	defer cancel()

	logger.Debug("Fetching add-on detail page", logger.Fields{"url": detailURL})
	body, err := c.fetcher.Get(ctx, detailURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch addon page: %w", err)
	}

	link, err := ParseDownloadURL(bytes.NewReader(body), GameFor(category), pageURL)
	if err != nil {
		logger.Warn("No zip link found on detail page", logger.Fields{"url": detailURL, "html_length": len(body)})
		return "", err
	}
	logger.Debug("Found download URL", logger.Fields{"url": link})
	return link, nil
}

// ParseDownloadURL scans every link ending in .zip in document order. The
// first one is the fallback; the first whose URL carries one of the game's
// tokens wins immediately.
func ParseDownloadURL(r io.Reader, game model.Game, pageURL *url.URL) (string, error) {
	doc, err := parse(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse detail page: %w", err)
	}

	var fallback, chosen string
	doc.Find(linkSelector).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if !isZipLink(href) {
			return true
		}
		if fallback == "" {
			fallback = href
		}
		if matchesGame(href, game) {
			chosen = href
			return false
		}
		return true
	})

	if chosen == "" {
		chosen = fallback
	}
	if chosen == "" {
		return "", errors.ErrNoDownloadLinkFound
	}
	return resolve(pageURL, chosen), nil
}

func parse(r io.Reader) (*goquery.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromNode(root), nil
}

func isZipLink(href string) bool {
	lower := strings.ToLower(href)
	if strings.HasSuffix(lower, ".zip") {
		return true
	}
	if u, err := url.Parse(href); err == nil {
		return strings.HasSuffix(strings.ToLower(u.Path), ".zip")
	}
	return false
}

func matchesGame(href string, game model.Game) bool {
	lower := strings.ToLower(href)
	for _, token := range game.Tokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

func imageOf(card *goquery.Selection) string {
	if src, ok := card.Find("[data-src]").First().Attr("data-src"); ok && src != "" {
		return src
	}
	if src, ok := card.Find("[src]").First().Attr("src"); ok {
		return src
	}
	return ""
}

// cleanText collapses whitespace and folds the en dash the site uses in
// titles into a plain hyphen. Markup and entities are already handled by the
// parser.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "–", "-")
	return strings.Join(strings.Fields(s), " ")
}

func resolve(base *url.URL, ref string) string {
	if ref == "" || base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
