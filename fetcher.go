package main

import (
	"context"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
)

// htmlFetcher is the transport behind the page fetcher. Satisfied by
// *Browser; stubbed in tests.
type htmlFetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}

// PageFetcher loads one listing page per page number and reports the site's
// terminal "no more results" condition.
type PageFetcher struct {
	browser   htmlFetcher
	converter *md.Converter
	baseURL   string
	selector  string
	marker    string
}

// NewPageFetcher creates a fetcher bound to the configured listing URL.
func NewPageFetcher(browser htmlFetcher, settings *Settings) *PageFetcher {
	return &PageFetcher{
		browser:   browser,
		converter: md.NewConverter("", true, nil),
		baseURL:   settings.BaseURL,
		selector:  settings.CSSSelector,
		marker:    settings.NoResultsMarker,
	}
}

// FetchPage fetches the given page number. The returned bool signals the
// terminal condition: the site reported no more results, and no content was
// (or should be) extracted for this page.
//
// The page is probed first without any content scoping, purely to look for
// the no-results marker, then fetched again for real. Two loads per page is
// deliberate: the probe must see the whole document, not the scoped
// fragment.
func (f *PageFetcher) FetchPage(ctx context.Context, pageNumber int) (string, bool, error) {
	url := f.pageURL(pageNumber)
	log.Info("loading page", "page", pageNumber, "url", url)

	probe, err := f.browser.FetchHTML(ctx, url)
	if err != nil {
		return "", false, fmt.Errorf("probing page %d: %w", pageNumber, err)
	}
	if strings.Contains(probe, f.marker) {
		return "", true, nil
	}

	html, err := f.browser.FetchHTML(ctx, url)
	if err != nil {
		return "", false, fmt.Errorf("fetching page %d: %w", pageNumber, err)
	}

	scoped, err := scopeContent(html, f.selector)
	if err != nil {
		return "", false, fmt.Errorf("scoping page %d content: %w", pageNumber, err)
	}

	markdown, err := f.converter.ConvertString(scoped)
	if err != nil {
		return "", false, fmt.Errorf("converting page %d to markdown: %w", pageNumber, err)
	}

	return markdown, false, nil
}

// pageURL appends the page index to the base listing URL.
func (f *PageFetcher) pageURL(pageNumber int) string {
	return fmt.Sprintf("%s?page=%d", f.baseURL, pageNumber)
}

// scopeContent narrows a rendered document to the elements matching the
// configured selector. When nothing matches, the full document is returned
// so the extractor still sees the page instead of an empty string.
func scopeContent(html, selector string) (string, error) {
	if selector == "" {
		return html, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if fragment, err := goquery.OuterHtml(sel); err == nil {
			b.WriteString(fragment)
			b.WriteString("\n")
		}
	})

	if b.Len() == 0 {
		return html, nil
	}
	return b.String(), nil
}
