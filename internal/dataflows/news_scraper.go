package dataflows

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/dyike/FiiGo/config"
	"github.com/dyike/FiiGo/internal/logger"
)

// Selectors describes where a news card and its fields live in the listing
// page. Site layout changes are absorbed here.
type Selectors struct {
	CardTag      string
	CardAttr     string
	CardVariants []string

	Title     string
	Link      string
	Published string
	Summary   string
}

// DefaultSelectors matches the InfoMoney FII listing.
func DefaultSelectors() Selectors {
	return Selectors{
		CardTag:      "div",
		CardAttr:     "data-ds-component",
		CardVariants: []string{"card-lg", "card-sm"},

		Title:     "h2",
		Link:      "a[href]",
		Published: `div[class~="inline-flex"]`,
		Summary:   `div[class~="md:line-clamp-3"]`,
	}
}

// NewsScraperClient fetches and extracts news listing pages.
type NewsScraperClient struct {
	client    *resty.Client
	selectors Selectors
}

// NewNewsScraperClient creates a scraper using the default selectors.
func NewNewsScraperClient(cfg *config.Config) *NewsScraperClient {
	client := resty.New()
	if cfg != nil && cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &NewsScraperClient{
		client:    client,
		selectors: DefaultSelectors(),
	}
}

// WithSelectors replaces the card selectors.
func (ns *NewsScraperClient) WithSelectors(sel Selectors) *NewsScraperClient {
	ns.selectors = sel
	return ns
}

// FetchNewsPage issues a single GET and returns the body when the status is 200.
func (ns *NewsScraperClient) FetchNewsPage(ctx context.Context, pageURL string) (string, error) {
	resp, err := ns.client.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}

	if resp.StatusCode() != http.StatusOK {
		return "", &FetchError{URL: pageURL, StatusCode: resp.StatusCode()}
	}

	return resp.String(), nil
}

// GetNews fetches pageURL and extracts at most maxItems news items. Relative
// links are resolved against pageURL.
func (ns *NewsScraperClient) GetNews(ctx context.Context, pageURL string, maxItems int) ([]NewsItem, error) {
	body, err := ns.FetchNewsPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	items, err := ExtractNewsItems(body, ns.selectors, maxItems)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoNews
	}

	for i := range items {
		items[i].Link = resolveLink(pageURL, items[i].Link)
	}
	return items, nil
}

// ExtractNewsItems walks the cards of an HTML document in document order and
// returns up to maxItems items. Cards without a title or a link are skipped.
// A non-positive maxItems means the default cap.
func ExtractNewsItems(html string, sel Selectors, maxItems int) ([]NewsItem, error) {
	if maxItems <= 0 {
		maxItems = config.DefaultMaxNews
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: read html: %v", ErrParse, err)
	}

	cards := doc.Find(sel.CardTag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		variant, ok := s.Attr(sel.CardAttr)
		return ok && slices.Contains(sel.CardVariants, variant)
	})

	items := make([]NewsItem, 0, min(cards.Length(), maxItems))
	skipped := 0
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		item, ok := extractCard(card, sel)
		if !ok {
			skipped++
			return true
		}
		items = append(items, item)
		return len(items) < maxItems
	})

	logger.Log.WithFields(logger.Fields{
		"cards":   cards.Length(),
		"items":   len(items),
		"skipped": skipped,
	}).Debug("extracted news cards")

	return items, nil
}

func extractCard(card *goquery.Selection, sel Selectors) (NewsItem, bool) {
	title := cleanText(card.Find(sel.Title).First().Text())
	link, _ := card.Find(sel.Link).First().Attr("href")
	link = strings.TrimSpace(link)
	if title == "" || link == "" {
		return NewsItem{}, false
	}

	return NewsItem{
		Title:          title,
		Link:           link,
		PublishedLabel: cleanText(card.Find(sel.Published).First().Text()),
		Summary:        cleanText(card.Find(sel.Summary).First().Text()),
	}, true
}

// cleanText trims the text and collapses inner runs of whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// resolveLink makes a relative href absolute against the page it came from.
func resolveLink(pageURL, href string) string {
	ref, err := url.Parse(href)
	if err != nil || ref.IsAbs() {
		return href
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
