// Package demo fabricates leads from canned request texts so the whole
// pipeline can run without credentials or network access. Output is
// marked synthetic and bypasses the score threshold.
package demo

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"leadhunter/internal/domain"
	"leadhunter/internal/lead"
	"leadhunter/internal/scan/types"
)

type Config struct {
	Count int // at most this many leads per scan
}

type Scanner struct {
	cfg     Config
	builder *lead.Builder
	randn   func(n int) int
}

func New(cfg Config, builder *lead.Builder) *Scanner {
	if cfg.Count <= 0 {
		cfg.Count = 2
	}
	return &Scanner{cfg: cfg, builder: builder, randn: rand.IntN}
}

func (s *Scanner) Name() string { return "demo" }

type template struct {
	board string
	title string
	body  string
}

var templates = []template{
	{
		board: "r/webdev",
		title: "Need a portfolio website for my photography business",
		body:  "Looking for someone to build a clean, minimalist portfolio site. Budget is $500-800. Need it within 2 weeks. Based in NYC.",
	},
	{
		board: "r/forhire",
		title: "Startup needs landing page for SaaS product launch",
		body:  "We're launching a new productivity tool and need a converting landing page. Have copy ready, need design + dev. Budget $2k-3k.",
	},
	{
		board: "r/smallbusiness",
		title: "Restaurant needs online ordering website",
		body:  "Family restaurant wants to add online ordering to our site. Need menu display and Square integration. Budget around $1,500.",
	},
	{
		board: "r/Entrepreneur",
		title: "Looking for web dev to build MVP for fitness app",
		body:  "Have validated my fitness tracking idea, now need someone to build the MVP. React preferred. Budget $3-5k, timeline 6 weeks.",
	},
	{
		board: "r/Wordpress",
		title: "Real estate agent needs website redesign",
		body:  "Current website is outdated and slow. Need modern site with MLS integration and lead capture forms. Budget $2k.",
	},
	{
		board: "r/web_design",
		title: "Personal brand website for content creator",
		body:  "YouTuber looking for sleek personal website. Need blog, video embeds, newsletter signup. Budget $800-1200.",
	},
	{
		board: "r/ecommerce",
		title: "WooCommerce expert needed for custom features",
		body:  "Have WooCommerce site but need product configurator and custom checkout. Budget flexible, around $2k-4k.",
	},
	{
		board: "r/indiehackers",
		title: "Need developer for marketplace MVP",
		body:  "Building a niche marketplace platform. Need help with frontend. Budget $5k or equity split. Remote OK.",
	},
	{
		board: "r/webdev",
		title: "Law firm needs professional website",
		body:  "Small law practice needs modern, trustworthy website. 5-6 pages, contact forms, blog. Budget $1,500-2,500.",
	},
	{
		board: "r/forhire",
		title: "E-commerce site for handmade jewelry brand",
		body:  "Looking for Shopify or custom e-commerce solution. 50-100 products, Instagram integration. Budget $1,000-1,800.",
	},
}

// Post adapts one fabricated request. No native id, so the builder
// synthesizes one.
type Post struct {
	board  string
	title  string
	body   string
	author string
	url    string
}

func (p Post) Source() domain.Source { return domain.SourceDemo }
func (p Post) SourceName() string    { return p.board }
func (p Post) NativeID() string      { return "" }
func (p Post) Title() string         { return p.title }
func (p Post) Body() string          { return p.body }
func (p Post) Author() string        { return p.author }
func (p Post) Permalink() string     { return p.url }
func (p Post) CreatedAt() time.Time  { return time.Time{} }

func (s *Scanner) Scan(ctx context.Context) (types.Batch, error) {
	batch := types.Batch{Source: domain.SourceDemo, Synthetic: true}
	if err := ctx.Err(); err != nil {
		return batch, err
	}

	n := s.randn(s.cfg.Count + 1)
	seen := map[string]bool{}
	for i := 0; i < n; i++ {
		tpl := templates[s.randn(len(templates))]
		post := Post{
			board:  tpl.board,
			title:  tpl.title,
			body:   tpl.body,
			author: fmt.Sprintf("user_%d", 10000+s.randn(90000)),
			url:    fmt.Sprintf("https://reddit.com/%s/comments/demo%d", tpl.board, 10000+s.randn(90000)),
		}
		l, err := s.builder.Build(post)
		if err != nil {
			continue
		}
		if seen[l.ID] {
			continue // same second, same suffix; vanishingly rare
		}
		seen[l.ID] = true
		batch.Leads = append(batch.Leads, l)
	}
	return batch, nil
}
