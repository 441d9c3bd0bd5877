package main

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
)

// Browser owns a single headless Chrome instance shared by every page load
// of one crawl run. The target site keeps per-session state, so pages are
// loaded through one browser rather than one-shot HTTP requests.
type Browser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	settings    *Settings
}

// NewBrowser starts a browser for the run. Callers must Close it on every
// exit path.
func NewBrowser(settings *Settings) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.WindowSize(1920, 1080),
	)
	if !settings.Headless {
		// The default allocator options run headless; turn it off when the
		// operator wants to watch the crawl.
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if settings.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(settings.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run with no actions forces the browser to start now, so a broken
	// Chrome install fails the run before any page is attempted.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	return &Browser{
		ctx:         browserCtx,
		cancel:      browserCancel,
		allocCancel: allocCancel,
		settings:    settings,
	}, nil
}

// Close releases the browser and its allocator.
func (b *Browser) Close() {
	b.cancel()
	b.allocCancel()
}

// FetchHTML loads a URL in a fresh tab and returns the rendered document.
// It waits for the body to be ready, then a fixed settle delay, because the
// listing page lazy-renders story widgets after the initial load.
func (b *Browser) FetchHTML(ctx context.Context, url string) (string, error) {
	tabCtx, cancel := chromedp.NewContext(b.ctx)
	defer cancel()

	timeoutCtx, timeoutCancel := context.WithTimeout(tabCtx, b.settings.PageTimeout())
	defer timeoutCancel()

	// Honor a caller-imposed run deadline as well as the per-page ceiling.
	stop := context.AfterFunc(ctx, timeoutCancel)
	defer stop()

	var html string
	tasks := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	}
	if delay := b.settings.SettleDelay(); delay > 0 {
		tasks = append(tasks, chromedp.Sleep(delay))
	}
	tasks = append(tasks, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(timeoutCtx, tasks...); err != nil {
		return "", fmt.Errorf("loading %s: %w", url, err)
	}

	return html, nil
}
