package usajobs

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentSearches caps in-flight requests in SearchMany.
const maxConcurrentSearches = 4

// SearchMany runs one search per keyword concurrently and merges the results in
// keyword order, dropping records already seen.
func (c *Client) SearchMany(ctx context.Context, keywords []string, params SearchParams) ([]JobRecord, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	results := make([][]JobRecord, len(keywords))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSearches)
	for i, kw := range keywords {
		p := params
		p.Keyword = kw
		g.Go(func() error {
			records, err := c.Search(gCtx, p)
			if err != nil {
				return fmt.Errorf("search %q: %w", kw, err)
			}
			mu.Lock()
			results[i] = records
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var merged []JobRecord
	for _, records := range results {
		for _, r := range records {
			id := r.ID()
			if id != "" {
				if seen[id] {
					continue
				}
				seen[id] = true
			}
			merged = append(merged, r)
		}
	}
	return merged, nil
}

// PlainText strips markup from listing text for terminal display.
// Input without markup is returned with whitespace normalized.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapseWhitespace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseWhitespace(s)
	}
	return collapseWhitespace(doc.Text())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
