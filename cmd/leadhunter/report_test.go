package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"leadhunter/internal/domain"
	"leadhunter/internal/scan"
)

func reportLead(id string, score int) domain.Lead {
	return domain.Lead{
		ID:           id,
		Title:        "Need a website for " + id,
		Source:       domain.SourceReddit,
		SourceName:   "r/webdev",
		URL:          "https://reddit.com/" + id,
		Intent:       domain.IntentHigh,
		Score:        score,
		DesignMockup: "💻",
	}
}

func TestPrintReport(t *testing.T) {
	sum := &scan.Summary{
		PerSource: []scan.SourceResult{
			{Source: "reddit", Found: 3, Added: 2},
			{Source: "twitter", Err: errors.New("429 rate limited")},
		},
		Added:      2,
		Total:      10,
		PublishErr: errors.New("push rejected"),
	}
	leads := []domain.Lead{
		reportLead("a", 9),
		reportLead("b", 17),
		reportLead("old", 25), // not part of the added block
	}

	var buf bytes.Buffer
	printReport(&buf, sum, leads)
	out := buf.String()

	assert.Contains(t, out, "reddit       found 3, added 2")
	assert.Contains(t, out, "twitter      failed: 429 rate limited")
	assert.Contains(t, out, "New leads:   2")
	assert.Contains(t, out, "Total leads: 10")
	assert.Contains(t, out, "Published:   no (push rejected)")

	// Highest score of the added block leads the list; the older lead with
	// the top score overall stays out.
	assert.Contains(t, out, "1. 💻 Need a website for b")
	assert.Contains(t, out, "2. 💻 Need a website for a")
	assert.NotContains(t, out, "Need a website for old")
}

func TestPrintReport_NoNewLeads(t *testing.T) {
	sum := &scan.Summary{
		PerSource: []scan.SourceResult{{Source: "reddit", Found: 4}},
		Total:     4,
	}

	var buf bytes.Buffer
	printReport(&buf, sum, []domain.Lead{reportLead("a", 9)})

	assert.NotContains(t, buf.String(), "TOP NEW LEADS")
}

func TestTopNewLeads_CapsAndSorts(t *testing.T) {
	leads := []domain.Lead{
		reportLead("a", 5),
		reportLead("b", 20),
		reportLead("c", 11),
		reportLead("d", 25),
	}

	top := topNewLeads(leads, 4, 3)

	ids := make([]string, len(top))
	for i, l := range top {
		ids[i] = l.ID
	}
	assert.Equal(t, []string{"d", "b", "c"}, ids)

	assert.Nil(t, topNewLeads(leads, 0, 3))
	assert.Len(t, topNewLeads(leads, 99, 3), 3)
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	long := strings.Repeat("x", 80)
	got := clip(long, 70)
	assert.Len(t, []rune(got), 70)
	assert.True(t, strings.HasSuffix(got, "..."))
}
