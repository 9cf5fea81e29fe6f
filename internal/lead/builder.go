// Package lead builds canonical Lead records out of the raw posts the
// scanners recover.
package lead

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"leadhunter/internal/domain"
	"leadhunter/internal/signal"
)

const (
	maxTitleRunes = 100
	maxDescRunes  = 300
)

// RawPost is the minimum a scanner must recover about a post. Fields a
// source cannot provide stay empty; Build fills the gaps where it can and
// rejects posts with nothing to key on.
type RawPost interface {
	Source() domain.Source
	SourceName() string // display label: r/webdev, Twitter, ...
	NativeID() string   // source-local id; empty for synthetic posts
	Title() string
	Body() string
	Permalink() string
	Author() string
	CreatedAt() time.Time // zero means "now"
}

// Builder turns raw posts into leads. The clock and the random source are
// injectable so tests can pin synthetic ids and timestamps.
type Builder struct {
	Now  func() time.Time
	Rand func(n int) int // returns [0, n)
}

func NewBuilder() *Builder {
	return &Builder{Now: time.Now, Rand: rand.IntN}
}

// Build derives every computed field of a Lead from the post text. Same
// post in, same lead out. Posts with no text or no way to form an id are
// rejected so the caller can skip them and keep scanning.
func (b *Builder) Build(p RawPost) (domain.Lead, error) {
	title := strings.TrimSpace(p.Title())
	body := strings.TrimSpace(p.Body())
	if title == "" && body == "" {
		return domain.Lead{}, fmt.Errorf("build lead: empty %s post", p.Source())
	}
	if title == "" {
		title = body
	}

	id, err := b.leadID(p)
	if err != nil {
		return domain.Lead{}, err
	}

	text := title + " " + body
	budget, hasBudget := signal.ExtractBudget(text)
	concept := signal.DesignConcept(text)

	created := p.CreatedAt()
	if created.IsZero() {
		created = b.Now()
	}

	return domain.Lead{
		ID:           id,
		Source:       p.Source(),
		SourceName:   p.SourceName(),
		Title:        truncate(title, maxTitleRunes, false),
		Description:  truncate(body, maxDescRunes, true),
		URL:          p.Permalink(),
		Author:       p.Author(),
		Timestamp:    created.UTC().Format(time.RFC3339),
		Tags:         signal.GenerateTags(text),
		Intent:       signal.ClassifyIntent(text, hasBudget),
		Budget:       budget,
		Score:        signal.Score(text, hasBudget),
		DesignMockup: concept.Mockup,
		DesignNotes:  concept.Notes,
	}, nil
}

func (b *Builder) leadID(p RawPost) (string, error) {
	if native := strings.TrimSpace(p.NativeID()); native != "" {
		return string(p.Source()) + "_" + native, nil
	}
	if p.Source() != domain.SourceDemo {
		return "", fmt.Errorf("build lead: %s post without an id", p.Source())
	}
	stamp := b.Now().UTC().Format("20060102150405")
	return fmt.Sprintf("demo_%s_%d", stamp, 1000+b.Rand(9000)), nil
}

// truncate cuts s to max runes; ellipsis appends "..." when it cut.
func truncate(s string, max int, ellipsis bool) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if ellipsis {
		return string(r[:max]) + "..."
	}
	return string(r[:max])
}
