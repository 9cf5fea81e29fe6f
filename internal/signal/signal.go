// Package signal extracts structured signal from raw post text: budget
// phrases, intent classification, tags and a numeric score. Everything here
// is pure and deterministic so the same post always produces the same lead.
package signal

import (
	"regexp"
	"strings"

	"leadhunter/internal/domain"
)

// MaxScore caps Score. The dashboard renders scores on a 0-25 scale.
const MaxScore = 25

// IntentKeywords feed both ClassifyIntent and Score. Matching is
// case-insensitive substring matching.
var IntentKeywords = []string{"budget", "$", "pay", "hiring", "paid", "asap", "urgent"}

// TopicKeywords gate topical relevance: a post mentioning none of these is
// not about commissioning a website and the scanners drop it early.
var TopicKeywords = []string{
	"website", "web site", "site built", "build a site", "landing page",
	"web developer", "web designer", "portfolio site", "online store",
	"ecommerce site", "redesign",
}

// Patterns are tried in priority order; the first pattern with a match wins,
// so "$500" beats "budget of 500" even when both appear in the text.
var budgetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\$[\d,]+(?:k)?`),
	regexp.MustCompile(`(?i)\d+\s*(?:k|thousand)`),
	regexp.MustCompile(`(?i)budget\s*(?:of\s*)?(?:is\s*)?\$?[\d,]+`),
}

// ExtractBudget returns the first budget-looking phrase in text, verbatim.
func ExtractBudget(text string) (string, bool) {
	for _, re := range budgetPatterns {
		if m := re.FindString(text); m != "" {
			return m, true
		}
	}
	return "", false
}

// ClassifyIntent buckets a post by how ready the author sounds to pay:
// 5 points for a detected budget, 2 per intent keyword present.
// 8+ is high, 4+ is medium.
func ClassifyIntent(text string, hasBudget bool) domain.Intent {
	points := 0
	if hasBudget {
		points += 5
	}
	hay := strings.ToLower(text)
	for _, kw := range IntentKeywords {
		if strings.Contains(hay, kw) {
			points += 2
		}
	}
	switch {
	case points >= 8:
		return domain.IntentHigh
	case points >= 4:
		return domain.IntentMedium
	default:
		return domain.IntentLow
	}
}

// Score rates a post: base 5, +5 for a budget, +3 per intent keyword,
// clamped to [0, MaxScore]. Same vocabulary as ClassifyIntent, different
// weights.
func Score(text string, hasBudget bool) int {
	score := 5
	if hasBudget {
		score += 5
	}
	hay := strings.ToLower(text)
	for _, kw := range IntentKeywords {
		if strings.Contains(hay, kw) {
			score += 3
		}
	}
	if score > MaxScore {
		score = MaxScore
	}
	if score < 0 {
		score = 0
	}
	return score
}

const maxTags = 4

var tagRules = []struct {
	any []string
	tag string
}{
	{[]string{"portfolio"}, "Portfolio"},
	{[]string{"ecommerce", "shopify", "woocommerce"}, "E-commerce"},
	{[]string{"landing page"}, "Landing Page"},
	{[]string{"wordpress"}, "WordPress"},
	{[]string{"react"}, "React"},
	{[]string{"saas"}, "SaaS"},
	{[]string{"mvp"}, "MVP"},
}

// GenerateTags walks the tag checklist in order, caps at four and never
// returns an empty slice: an unclassifiable post is tagged "Website".
func GenerateTags(text string) []string {
	hay := strings.ToLower(text)
	var tags []string
	for _, r := range tagRules {
		if len(tags) == maxTags {
			break
		}
		if containsAny(hay, r.any) {
			tags = append(tags, r.tag)
		}
	}
	if len(tags) == 0 {
		tags = []string{"Website"}
	}
	return tags
}

// Topical reports whether text is about getting a website built at all.
func Topical(text string) bool {
	return containsAny(strings.ToLower(text), TopicKeywords)
}

func containsAny(hay string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(hay, n) {
			return true
		}
	}
	return false
}
