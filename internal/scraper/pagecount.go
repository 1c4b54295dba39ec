package scraper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ScrapePageCount returns the highest page number linked from a submissions listing.
//
// A listing that fits on one page usually has no pagination links at all. That case
// is reported as ErrNoPaginationLink, exactly like a malformed page; deciding whether
// it means "one page" is up to the caller.
func ScrapePageCount(htmlText string) (uint32, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return 0, fmt.Errorf("parsing HTML: %w", err)
	}

	var maxPage uint32
	found := false

	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || !IsPaginationLink(href) {
			return
		}
		page, err := strconv.ParseUint(lastSegment(href, "="), 10, 32)
		if err != nil {
			return
		}
		if !found || uint32(page) > maxPage {
			maxPage = uint32(page)
			found = true
		}
	})

	if !found {
		return 0, ErrNoPaginationLink
	}
	return maxPage, nil
}
