package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"leadhunter/internal/domain"
	"leadhunter/internal/scan"
)

const rule = "============================================================"

// printReport writes the end-of-run summary: one line per source, the
// collection totals and the best of the freshly added leads.
func printReport(w io.Writer, sum *scan.Summary, leads []domain.Lead) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "LEAD HUNTER SCAN - %s\n", time.Now().Format("2006-01-02 15:04"))
	fmt.Fprintln(w, rule)

	for _, r := range sum.PerSource {
		if r.Err != nil {
			fmt.Fprintf(w, "  %-12s failed: %v\n", r.Source, r.Err)
			continue
		}
		fmt.Fprintf(w, "  %-12s found %d, added %d\n", r.Source, r.Found, r.Added)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "New leads:   %d\n", sum.Added)
	fmt.Fprintf(w, "Total leads: %d\n", sum.Total)
	switch {
	case sum.Published:
		fmt.Fprintln(w, "Published:   yes")
	case sum.PublishErr != nil:
		fmt.Fprintf(w, "Published:   no (%v)\n", sum.PublishErr)
	}

	top := topNewLeads(leads, sum.Added, 3)
	if len(top) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "TOP NEW LEADS")
	for i, l := range top {
		fmt.Fprintf(w, "\n%d. %s %s\n", i+1, l.DesignMockup, clip(l.Title, 70))
		line := fmt.Sprintf("   %s | %s intent | score %d", l.SourceName, l.Intent, l.Score)
		if l.Budget != "" {
			line += " | " + l.Budget
		}
		fmt.Fprintln(w, line)
		fmt.Fprintf(w, "   %s\n", l.URL)
	}
}

// topNewLeads picks the highest-scoring of the added leads. Added leads sit
// at the head of the merged collection, newest block first.
func topNewLeads(leads []domain.Lead, added, max int) []domain.Lead {
	if added > len(leads) {
		added = len(leads)
	}
	if added <= 0 {
		return nil
	}
	top := append([]domain.Lead(nil), leads[:added]...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Score > top[j].Score })
	if len(top) > max {
		top = top[:max]
	}
	return top
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
