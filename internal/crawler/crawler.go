// Package crawler walks the pages of a contest's submissions list.
//
// It owns the policies the scraper leaves to its callers: how many pages to
// fetch, when to stop, how long to wait between requests, and what a listing
// without pagination links means.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pfrederiksen/atcoder-submissions/internal/logger"
	"github.com/pfrederiksen/atcoder-submissions/internal/scraper"
	"github.com/pfrederiksen/atcoder-submissions/internal/submission"
)

// Fetcher downloads one page of a contest's submissions list
type Fetcher interface {
	FetchSubmissionPage(ctx context.Context, contestID string, page uint32) (string, error)
}

// Crawler fetches and scrapes submissions list pages one at a time
type Crawler struct {
	fetcher  Fetcher
	interval time.Duration
	log      *logger.Logger
	requests int
}

// New creates a crawler that waits interval between consecutive requests
func New(fetcher Fetcher, interval time.Duration, log *logger.Logger) *Crawler {
	if log == nil {
		log = logger.Default()
	}
	return &Crawler{
		fetcher:  fetcher,
		interval: interval,
		log:      log,
	}
}

// CrawlContest scrapes every page of a contest's submissions list, up to maxPages
// when maxPages > 0. Submissions are returned in listing order.
func (c *Crawler) CrawlContest(ctx context.Context, contestID string, maxPages uint32) ([]*submission.Submission, error) {
	first, pageCount, err := c.firstPage(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if maxPages > 0 && pageCount > maxPages {
		pageCount = maxPages
	}

	subs := make([]*submission.Submission, 0)
	for page := uint32(1); page <= pageCount; page++ {
		html := first
		if page > 1 {
			if html, err = c.fetch(ctx, contestID, page); err != nil {
				return nil, err
			}
		}

		pageSubs, err := c.scrape(html, contestID, page)
		if err != nil {
			return nil, err
		}
		subs = append(subs, pageSubs...)
	}

	c.log.Info("Crawled contest", logger.Fields{
		"contest_id":  contestID,
		"pages":       pageCount,
		"submissions": len(subs),
	})
	return subs, nil
}

// CrawlRecent scrapes pages from newest to oldest and stops at the first page whose
// submissions are all in known, at an empty page, at the last page, or after maxPages
// pages when maxPages > 0. Only submissions missing from known are returned.
func (c *Crawler) CrawlRecent(ctx context.Context, contestID string, known *submission.Snapshot, maxPages uint32) ([]*submission.Submission, error) {
	first, pageCount, err := c.firstPage(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if maxPages > 0 && pageCount > maxPages {
		pageCount = maxPages
	}

	fresh := make([]*submission.Submission, 0)
	for page := uint32(1); page <= pageCount; page++ {
		html := first
		if page > 1 {
			if html, err = c.fetch(ctx, contestID, page); err != nil {
				return nil, err
			}
		}

		pageSubs, err := c.scrape(html, contestID, page)
		if err != nil {
			return nil, err
		}
		if len(pageSubs) == 0 {
			break
		}

		added := 0
		for _, sub := range pageSubs {
			if !known.Contains(sub) {
				fresh = append(fresh, sub)
				added++
			}
		}
		if added == 0 {
			c.log.Debug("Reached known submissions", logger.Fields{
				"contest_id": contestID,
				"page":       page,
			})
			break
		}
	}

	c.log.Info("Crawled recent submissions", logger.Fields{
		"contest_id":  contestID,
		"submissions": len(fresh),
	})
	return fresh, nil
}

// firstPage fetches page 1 and reads the page count from it.
// A listing without pagination links is treated as a single page.
func (c *Crawler) firstPage(ctx context.Context, contestID string) (string, uint32, error) {
	html, err := c.fetch(ctx, contestID, 1)
	if err != nil {
		return "", 0, err
	}

	pageCount, err := scraper.ScrapePageCount(html)
	if errors.Is(err, scraper.ErrNoPaginationLink) {
		c.log.Warn("No pagination links, assuming a single page", logger.Fields{
			"contest_id": contestID,
		})
		pageCount = 1
	} else if err != nil {
		return "", 0, fmt.Errorf("reading page count for %s: %w", contestID, err)
	}

	logger.SetGauge("crawler.page_count", float64(pageCount))
	return html, pageCount, nil
}

func (c *Crawler) fetch(ctx context.Context, contestID string, page uint32) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	start := time.Now()
	html, err := c.fetcher.FetchSubmissionPage(ctx, contestID, page)
	logger.RecordTiming("crawler.fetch", time.Since(start))
	c.requests++

	if err != nil {
		c.log.Error("Failed to fetch page", logger.Fields{
			"contest_id": contestID,
			"page":       page,
		}, err)
		return "", fmt.Errorf("fetching %s page %d: %w", contestID, page, err)
	}

	logger.IncrCounter("crawler.pages")
	c.log.Debug("Fetched page", logger.Fields{
		"contest_id": contestID,
		"page":       page,
		"bytes":      len(html),
	})
	return html, nil
}

func (c *Crawler) scrape(html, contestID string, page uint32) ([]*submission.Submission, error) {
	subs, err := scraper.ScrapeSubmissions(html, contestID)
	if err != nil {
		return nil, fmt.Errorf("scraping %s page %d: %w", contestID, page, err)
	}
	logger.AddCounter("crawler.submissions", int64(len(subs)))
	return subs, nil
}

// wait sleeps for the request interval, except before the first request
func (c *Crawler) wait(ctx context.Context) error {
	if c.requests == 0 || c.interval <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(c.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
