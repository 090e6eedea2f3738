package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromeFetcher renders the page in headless Chrome so that values filled in
// by client-side scripts are present in the returned HTML.
type ChromeFetcher struct {
	userAgent string
	timeout   time.Duration
	waitFor   string
}

// NewChromeFetcher returns a fetcher that waits for waitFor (a CSS selector)
// to be present before capturing the DOM. An empty waitFor waits for <body>.
func NewChromeFetcher(userAgent string, timeout time.Duration, waitFor string) *ChromeFetcher {
	if waitFor == "" {
		waitFor = "body"
	}
	return &ChromeFetcher{userAgent: userAgent, timeout: timeout, waitFor: waitFor}
}

func (f *ChromeFetcher) FetchPage(ctx context.Context, url string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1280, 900),
		chromedp.UserAgent(f.userAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	runCtx, cancel := context.WithTimeout(browserCtx, f.timeout)
	defer cancel()

	var html string
	if err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(f.waitFor, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("render quote page: %w", err)
	}
	return []byte(html), nil
}
