// Package reddit scans subreddit /new listings for posts asking to get a
// website built. The public JSON endpoint is the primary path; when reddit
// blocks it (403/429 on bot user agents), the old-web HTML listing is
// scraped instead.
package reddit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"leadhunter/internal/domain"
	"leadhunter/internal/lead"
	"leadhunter/internal/logging"
	"leadhunter/internal/scan/types"
	"leadhunter/internal/scan/util"
	"leadhunter/internal/signal"
)

type Config struct {
	Subreddits []string
	Limit      int           // posts per subreddit
	Lookback   time.Duration // ignore posts older than this
	BaseURL    string        // default https://www.reddit.com
	OldBaseURL string        // default https://old.reddit.com
}

type Scanner struct {
	cfg     Config
	client  *util.Client
	builder *lead.Builder
	log     logging.Logger
}

func New(cfg Config, client *util.Client, builder *lead.Builder, log logging.Logger) *Scanner {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.reddit.com"
	}
	if cfg.OldBaseURL == "" {
		cfg.OldBaseURL = "https://old.reddit.com"
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 25
	}
	return &Scanner{cfg: cfg, client: client, builder: builder, log: log}
}

func (s *Scanner) Name() string { return "reddit" }

type listing struct {
	Data struct {
		Children []struct {
			Data post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type post struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	SelfText   string  `json:"selftext"`
	Permalink  string  `json:"permalink"` // site-relative
	Author     string  `json:"author"`
	CreatedUTC float64 `json:"created_utc"` // s epoch, fractional
	Subreddit  string  `json:"subreddit"`
}

// Post adapts one reddit submission to the lead builder.
type Post struct {
	raw post
}

func (p Post) Source() domain.Source { return domain.SourceReddit }
func (p Post) SourceName() string    { return "r/" + p.raw.Subreddit }
func (p Post) NativeID() string      { return p.raw.ID }
func (p Post) Title() string         { return p.raw.Title }
func (p Post) Body() string          { return p.raw.SelfText }
func (p Post) Author() string        { return p.raw.Author }

func (p Post) Permalink() string {
	if strings.HasPrefix(p.raw.Permalink, "http") {
		return p.raw.Permalink
	}
	return "https://reddit.com" + p.raw.Permalink
}

func (p Post) CreatedAt() time.Time {
	if p.raw.CreatedUTC <= 0 {
		return time.Time{}
	}
	return time.Unix(int64(p.raw.CreatedUTC), 0)
}

// Scan walks the configured subreddits in order. One bad subreddit never
// kills the pass; a timeout keeps whatever was collected so far.
func (s *Scanner) Scan(ctx context.Context) (types.Batch, error) {
	batch := types.Batch{Source: domain.SourceReddit}
	cutoff := time.Now().Add(-s.cfg.Lookback)

	for _, sub := range s.cfg.Subreddits {
		if ctx.Err() != nil {
			break
		}
		leads, err := s.scanSubreddit(ctx, sub, cutoff)
		if err != nil {
			s.log.WithFields(logging.Fields{"subreddit": sub, "err": err}).Warn("reddit: subreddit skipped")
			continue
		}
		batch.Leads = append(batch.Leads, leads...)
	}
	return batch, ctx.Err()
}

func (s *Scanner) scanSubreddit(ctx context.Context, sub string, cutoff time.Time) ([]domain.Lead, error) {
	apiURL := fmt.Sprintf("%s/r/%s/new/.json?limit=%d", s.cfg.BaseURL, sub, s.cfg.Limit)

	var page listing
	err := s.client.GetJSON(ctx, apiURL, nil, &page)
	var se *util.StatusError
	if errors.As(err, &se) && (se.Code == http.StatusForbidden || se.Code == http.StatusTooManyRequests) {
		s.log.WithFields(logging.Fields{"subreddit": sub, "status": se.Code}).Info("reddit: json endpoint blocked, scraping old web")
		return s.scrapeOldWeb(ctx, sub, cutoff)
	}
	if err != nil {
		return nil, err
	}

	var out []domain.Lead
	for _, child := range page.Data.Children {
		p := child.Data
		if p.ID == "" || strings.TrimSpace(p.Title) == "" {
			continue
		}
		if p.CreatedUTC > 0 && time.Unix(int64(p.CreatedUTC), 0).Before(cutoff) {
			continue
		}
		if !signal.Topical(p.Title + " " + p.SelfText) {
			continue
		}
		if p.Subreddit == "" {
			p.Subreddit = sub
		}
		l, err := s.builder.Build(Post{raw: p})
		if err != nil {
			continue // malformed post, keep scanning
		}
		out = append(out, l)
	}
	return out, nil
}
