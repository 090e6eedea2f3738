package quote

import (
	"context"
	"fmt"

	xhttp "BuffettIndicator/pkg/http"
)

// PageFetcher returns the HTML of a page.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher performs a single browser-like GET. It never retries.
type HTTPFetcher struct {
	client    *xhttp.Client
	userAgent string
}

// NewHTTPFetcher creates a fetcher on top of the shared HTTP client.
func NewHTTPFetcher(client *xhttp.Client, userAgent string) *HTTPFetcher {
	return &HTTPFetcher{client: client, userAgent: userAgent}
}

func (f *HTTPFetcher) FetchPage(ctx context.Context, url string) ([]byte, error) {
	body, err := f.client.SendAndRead(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    url,
		Headers: map[string]string{
			"User-Agent":      f.userAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.5",
			"Accept-Encoding": xhttp.AcceptEncoding,
			"Connection":      "keep-alive",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch quote page: %w", err)
	}
	return body, nil
}
