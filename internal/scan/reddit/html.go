package reddit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"leadhunter/internal/domain"
	"leadhunter/internal/scan/util"
	"leadhunter/internal/signal"
)

// scrapeOldWeb parses the old-web /new listing. Listings carry no selftext,
// so leads built this way match on titles only; that beats getting nothing
// while the json endpoint is blocked.
func (s *Scanner) scrapeOldWeb(ctx context.Context, sub string, cutoff time.Time) ([]domain.Lead, error) {
	pageURL := fmt.Sprintf("%s/r/%s/new/", s.cfg.OldBaseURL, sub)

	resp, err := s.client.Get(ctx, pageURL, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 400 {
		return nil, &util.StatusError{Code: resp.StatusCode, URL: pageURL}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reddit parse old web: %w", err)
	}

	var out []domain.Lead
	doc.Find("div.thing").Each(func(_ int, sel *goquery.Selection) {
		if len(out) >= s.cfg.Limit {
			return
		}
		if sel.AttrOr("data-promoted", "") == "true" {
			return
		}

		id := strings.TrimPrefix(sel.AttrOr("data-fullname", ""), "t3_")
		title := util.CleanText(sel.Find("a.title").First().Text())
		if id == "" || title == "" {
			return
		}

		var created time.Time
		if dt, ok := sel.Find("time").First().Attr("datetime"); ok {
			created, _ = time.Parse(time.RFC3339, dt)
		}
		if !created.IsZero() && created.Before(cutoff) {
			return
		}
		if !signal.Topical(title) {
			return
		}

		p := post{
			ID:        id,
			Title:     title,
			Permalink: sel.AttrOr("data-permalink", ""),
			Author:    sel.AttrOr("data-author", ""),
			Subreddit: sub,
		}
		if !created.IsZero() {
			p.CreatedUTC = float64(created.Unix())
		}

		l, err := s.builder.Build(Post{raw: p})
		if err != nil {
			return
		}
		out = append(out, l)
	})
	return out, nil
}
