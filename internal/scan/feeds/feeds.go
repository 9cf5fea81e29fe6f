// Package feeds turns RSS and Atom entries into lead candidates. Indie
// Hackers group feeds are the intended input, so everything found here
// lands under the indiehackers source.
package feeds

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"leadhunter/internal/domain"
	"leadhunter/internal/lead"
	"leadhunter/internal/logging"
	"leadhunter/internal/scan/types"
	"leadhunter/internal/scan/util"
	"leadhunter/internal/signal"
)

type Config struct {
	URLs     []string
	Limit    int // max items taken per feed
	Lookback time.Duration
}

type Scanner struct {
	cfg     Config
	client  *util.Client
	builder *lead.Builder
	parser  *gofeed.Parser
	log     logging.Logger
}

func New(cfg Config, client *util.Client, builder *lead.Builder, log logging.Logger) *Scanner {
	if cfg.Limit <= 0 {
		cfg.Limit = 25
	}
	return &Scanner{
		cfg:     cfg,
		client:  client,
		builder: builder,
		parser:  gofeed.NewParser(),
		log:     log,
	}
}

func (s *Scanner) Name() string { return "feeds" }

// Post adapts one feed item for the lead builder.
type Post struct {
	item      *gofeed.Item
	feedTitle string
	body      string
}

func (p Post) Source() domain.Source { return domain.SourceIndieHackers }

func (p Post) SourceName() string {
	if p.feedTitle != "" {
		return p.feedTitle
	}
	return "Indie Hackers"
}

// NativeID hashes the item identity so ids stay stable across fetches
// even when feeds rewrite their GUIDs into long permalinks.
func (p Post) NativeID() string {
	key := p.item.GUID
	if key == "" {
		key = p.item.Link
	}
	if key == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:12]
}

func (p Post) Title() string     { return p.item.Title }
func (p Post) Body() string      { return p.body }
func (p Post) Permalink() string { return p.item.Link }

func (p Post) Author() string {
	if p.item.Author != nil {
		return p.item.Author.Name
	}
	return ""
}

func (p Post) CreatedAt() time.Time {
	if p.item.PublishedParsed != nil {
		return *p.item.PublishedParsed
	}
	return time.Time{}
}

func (s *Scanner) Scan(ctx context.Context) (types.Batch, error) {
	batch := types.Batch{Source: domain.SourceIndieHackers}
	cutoff := time.Now().Add(-s.cfg.Lookback)

	for _, feedURL := range s.cfg.URLs {
		if ctx.Err() != nil {
			break
		}
		leads, err := s.scanFeed(ctx, feedURL, cutoff)
		if err != nil {
			s.log.WithFields(logging.Fields{"feed": feedURL, "err": err}).Warn("feed scan failed")
			continue
		}
		batch.Leads = append(batch.Leads, leads...)
	}
	return batch, ctx.Err()
}

func (s *Scanner) scanFeed(ctx context.Context, feedURL string, cutoff time.Time) ([]domain.Lead, error) {
	resp, err := s.client.Get(ctx, feedURL, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 400 {
		return nil, &util.StatusError{Code: resp.StatusCode, URL: feedURL}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	feed, err := s.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var leads []domain.Lead
	for _, item := range feed.Items {
		if len(leads) >= s.cfg.Limit {
			break
		}
		if item.PublishedParsed != nil && item.PublishedParsed.Before(cutoff) {
			continue
		}
		body := htmlText(item.Description)
		if body == "" {
			body = htmlText(item.Content)
		}
		if !signal.Topical(item.Title + " " + body) {
			continue
		}
		l, err := s.builder.Build(Post{item: item, feedTitle: feed.Title, body: body})
		if err != nil {
			continue
		}
		leads = append(leads, l)
	}
	return leads, nil
}

// htmlText flattens an HTML fragment into plain text. Feed descriptions
// arrive as markup and the extractors want prose.
func htmlText(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return util.CleanText(fragment)
	}
	return util.CleanText(doc.Text())
}
