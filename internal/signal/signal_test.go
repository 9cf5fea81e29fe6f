package signal

import (
	"strings"
	"testing"

	"leadhunter/internal/domain"
)

func TestExtractBudget_PatternPriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"dollar amount", "I can pay $500 for this", "$500"},
		{"dollar with commas", "budget around $1,200 total", "$1,200"},
		{"dollar with k suffix", "roughly $5k to spend", "$5k"},
		{"bare k amount", "have 2k for a simple site", "2k"},
		{"thousand spelled out", "up to 5 thousand", "5 thousand"},
		{"budget phrase", "my budget is 800 for now", "budget is 800"},
		{"budget of phrase", "Budget of 1500 max", "Budget of 1500"},
		{"dollar beats budget phrase", "budget is 800, ideally $750", "$750"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractBudget(tt.text)
			if !ok {
				t.Fatalf("Expected a budget in %q, got none", tt.text)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExtractBudget_NoMatch(t *testing.T) {
	for _, text := range []string{
		"",
		"need a website for my bakery",
		"looking for a cheap option",
	} {
		if got, ok := ExtractBudget(text); ok {
			t.Errorf("Expected no budget in %q, got %q", text, got)
		}
	}
}

func TestClassifyIntent_Thresholds(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		hasBudget bool
		want      domain.Intent
	}{
		{"nothing", "need a website for my bakery", false, domain.IntentLow},
		{"budget alone is medium", "need a website for my bakery", true, domain.IntentMedium},
		{"two keywords are medium", "hiring someone asap", false, domain.IntentMedium},
		{"one keyword is low", "can pay a fair rate", false, domain.IntentLow},
		{"budget plus two keywords is high", "Need a website for my bakery, budget is $400", true, domain.IntentHigh},
		{"four keywords are high", "hiring, will pay, paid project, asap", false, domain.IntentHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyIntent(tt.text, tt.hasBudget); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestScore_Formula(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		hasBudget bool
		want      int
	}{
		{"base only", "need a website", false, 5},
		{"budget bonus", "need a website", true, 10},
		{"one keyword", "hiring a developer for a site", false, 8},
		// "budget" and "$" both hit: 5 + 5 + 3 + 3.
		{"bakery scenario", "Need a website for my bakery, budget is $400", true, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.text, tt.hasBudget); got != tt.want {
				t.Errorf("Expected score %d, got %d", tt.want, got)
			}
		})
	}
}

func TestScore_ClampedToMax(t *testing.T) {
	// Every keyword plus a budget overflows the cap by a wide margin.
	text := strings.Join(IntentKeywords, " ")
	if got := Score(text, true); got != MaxScore {
		t.Errorf("Expected score clamped to %d, got %d", MaxScore, got)
	}
}

func TestScore_Deterministic(t *testing.T) {
	text := "Looking for a web developer, budget $2k, need it asap"
	first := Score(text, true)
	for i := 0; i < 10; i++ {
		if got := Score(text, true); got != first {
			t.Fatalf("Expected stable score %d, got %d on run %d", first, got, i)
		}
	}
}

func TestGenerateTags_Checklist(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"default tag", "need a website for my bakery", []string{"Website"}},
		{"single match", "portfolio site for my photography", []string{"Portfolio"}},
		{"shopify maps to ecommerce", "moving my shopify store", []string{"E-commerce"}},
		{"checklist order", "react landing page for my saas", []string{"Landing Page", "React", "SaaS"}},
		{
			"capped at four",
			"portfolio with ecommerce, landing page, wordpress, react, saas mvp",
			[]string{"Portfolio", "E-commerce", "Landing Page", "WordPress"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateTags(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected tags %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Expected tags %v, got %v", tt.want, got)
					break
				}
			}
		})
	}
}

func TestGenerateTags_NeverEmpty(t *testing.T) {
	for _, text := range []string{"", "hello", "???"} {
		got := GenerateTags(text)
		if len(got) == 0 {
			t.Errorf("Expected at least one tag for %q", text)
		}
	}
}

func TestTopical_Gate(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Need a website for my bakery", true},
		{"looking for a web developer", true},
		{"anyone selling concert tickets?", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := Topical(tt.text); got != tt.want {
			t.Errorf("Topical(%q): expected %v, got %v", tt.text, tt.want, got)
		}
	}
}
