// Package twitter searches the recent-search API for posts from people
// shopping for a website. The hosted queries already narrow the topic, so
// every returned tweet is a candidate; scoring decides what survives.
package twitter

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"leadhunter/internal/domain"
	"leadhunter/internal/lead"
	"leadhunter/internal/logging"
	"leadhunter/internal/scan/types"
	"leadhunter/internal/scan/util"
)

type Config struct {
	Queries  []string
	Limit    int           // page size per query
	Lookback time.Duration // ignore tweets older than this
	Bearer   string        // app-only bearer token
	BaseURL  string        // override for tests
}

type Scanner struct {
	cfg     Config
	client  *util.Client
	builder *lead.Builder
	log     logging.Logger
}

func New(cfg Config, client *util.Client, builder *lead.Builder, log logging.Logger) *Scanner {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.x.com"
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 25
	}
	return &Scanner{cfg: cfg, client: client, builder: builder, log: log}
}

func (s *Scanner) Name() string { return "twitter" }

type searchResponse struct {
	Data     []tweet `json:"data"`
	Includes struct {
		Users []user `json:"users"`
	} `json:"includes"`
}

type tweet struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	AuthorID  string `json:"author_id"`
	CreatedAt string `json:"created_at"` // RFC 3339
}

type user struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Post adapts one tweet for the lead builder.
type Post struct {
	raw    tweet
	author string
}

func (p Post) Source() domain.Source { return domain.SourceTwitter }
func (p Post) SourceName() string    { return "Twitter" }
func (p Post) NativeID() string      { return p.raw.ID }
func (p Post) Title() string         { return "" } // derived from the text
func (p Post) Body() string          { return p.raw.Text }
func (p Post) Author() string        { return p.author }

func (p Post) Permalink() string {
	return "https://twitter.com/i/web/status/" + p.raw.ID
}

func (p Post) CreatedAt() time.Time {
	t, err := time.Parse(time.RFC3339, p.raw.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (s *Scanner) Scan(ctx context.Context) (types.Batch, error) {
	batch := types.Batch{Source: domain.SourceTwitter}
	cutoff := time.Now().Add(-s.cfg.Lookback)

	// overlapping queries return the same tweet more than once
	seen := map[string]bool{}

	for _, q := range s.cfg.Queries {
		if ctx.Err() != nil {
			break
		}
		leads, err := s.search(ctx, q, cutoff)
		if err != nil {
			s.log.WithFields(logging.Fields{"query": q, "err": err}).Warn("twitter query failed")
			continue
		}
		for _, l := range leads {
			if seen[l.ID] {
				continue
			}
			seen[l.ID] = true
			batch.Leads = append(batch.Leads, l)
		}
	}
	return batch, ctx.Err()
}

func (s *Scanner) search(ctx context.Context, query string, cutoff time.Time) ([]domain.Lead, error) {
	v := url.Values{}
	v.Set("query", query)
	v.Set("max_results", strconv.Itoa(pageSize(s.cfg.Limit)))
	v.Set("start_time", cutoff.UTC().Format(time.RFC3339))
	v.Set("tweet.fields", "created_at,author_id")
	v.Set("expansions", "author_id")
	v.Set("user.fields", "username")
	searchURL := s.cfg.BaseURL + "/2/tweets/search/recent?" + v.Encode()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.cfg.Bearer)

	var res searchResponse
	if err := s.client.GetJSON(ctx, searchURL, header, &res); err != nil {
		return nil, err
	}

	names := make(map[string]string, len(res.Includes.Users))
	for _, u := range res.Includes.Users {
		names[u.ID] = u.Username
	}

	var leads []domain.Lead
	for _, t := range res.Data {
		if t.ID == "" || t.Text == "" {
			continue
		}
		author := names[t.AuthorID]
		if author == "" {
			author = t.AuthorID
		}
		l, err := s.builder.Build(Post{raw: t, author: author})
		if err != nil {
			continue
		}
		leads = append(leads, l)
	}
	return leads, nil
}

// pageSize clamps the configured limit to the API's 10..100 window.
func pageSize(limit int) int {
	if limit < 10 {
		return 10
	}
	if limit > 100 {
		return 100
	}
	return limit
}
