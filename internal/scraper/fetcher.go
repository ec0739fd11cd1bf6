package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dujoseaugusto/land-data-scraper/internal/logger"
	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

// PageFetcher downloads and parses one listing page
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*goquery.Document, error)
}

// CollyFetcher fetches pages with a fresh colly collector per request, so
// repeated ingests of the same region are never rejected as revisits.
type CollyFetcher struct {
	userAgent string
	timeout   time.Duration
	logger    *logger.Logger
}

// NewCollyFetcher builds a fetcher. An empty userAgent rotates random agents.
func NewCollyFetcher(userAgent string, timeout time.Duration) *CollyFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &CollyFetcher{
		userAgent: userAgent,
		timeout:   timeout,
		logger:    logger.NewLogger("colly_fetcher"),
	}
}

func (f *CollyFetcher) newCollector(ctx context.Context) *colly.Collector {
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.StdlibContext(ctx),
	)
	if f.userAgent != "" {
		c.UserAgent = f.userAgent
	} else {
		extensions.RandomUserAgent(c)
	}
	c.SetRequestTimeout(f.timeout)
	return c
}

func (f *CollyFetcher) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	c := f.newCollector(ctx)

	var (
		body     []byte
		fetchErr error
	)

	c.OnRequest(func(r *colly.Request) {
		f.logger.WithField("url", r.URL.String()).Debug("Visiting listing page")
	})

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	c.OnError(func(r *colly.Response, err error) {
		if r == nil {
			fetchErr = err
			return
		}
		fetchErr = fmt.Errorf("status %d: %w", r.StatusCode, err)
	})

	if err := c.Visit(pageURL); err != nil && fetchErr == nil {
		fetchErr = err
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, fetchErr)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, errEmptyPage)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}

var errEmptyPage = errors.New("empty page")
