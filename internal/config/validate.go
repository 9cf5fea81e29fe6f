package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string
	Warnings []string
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy: unset values get their
// defaults, lists are trimmed and deduped, subreddit names lose any leading
// "r/". Errors mean the config cannot drive a run.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	// ---- Defaults for unset values ----

	if out.Store.LeadsFile == "" {
		out.Store.LeadsFile = "leads.json"
	}
	if out.Store.HistoryFile == "" {
		out.Store.HistoryFile = "scan_history.json"
	}
	if out.Store.MaxLeads == 0 {
		out.Store.MaxLeads = 100
	}
	if out.Store.MaxHistory == 0 {
		out.Store.MaxHistory = 100
	}
	if out.Scan.LookbackHours == 0 {
		out.Scan.LookbackHours = 1
	}
	if out.Scan.PerSourceLimit == 0 {
		out.Scan.PerSourceLimit = 25
	}
	if out.Scan.SourceDelaySeconds == 0 {
		out.Scan.SourceDelaySeconds = 2
	}
	if out.Scan.SourceTimeoutSeconds == 0 {
		out.Scan.SourceTimeoutSeconds = 90
	}
	if out.Sources.LinkedIn.IMAPPort == 0 {
		out.Sources.LinkedIn.IMAPPort = 993
	}
	if out.Sources.LinkedIn.Mailbox == "" {
		out.Sources.LinkedIn.Mailbox = "INBOX"
	}
	if out.Sources.Demo.Count == 0 {
		out.Sources.Demo.Count = 2
	}
	if out.Publish.Remote == "" {
		out.Publish.Remote = "origin"
	}
	if out.Publish.Branch == "" {
		out.Publish.Branch = "main"
	}

	// ---- Normalize lists ----

	subs := out.Sources.Reddit.Subreddits
	for i, s := range subs {
		subs[i] = strings.TrimPrefix(strings.TrimSpace(s), "r/")
	}
	out.Sources.Reddit.Subreddits = trimList(subs)
	out.Sources.Twitter.Queries = trimList(out.Sources.Twitter.Queries)
	out.Sources.Feeds.URLs = trimList(out.Sources.Feeds.URLs)

	// ---- Validation rules ----

	if out.Store.MaxLeads < 0 {
		res.addErr("store.max_leads must be > 0")
	}
	if out.Store.MaxHistory < 0 {
		res.addErr("store.max_history must be > 0")
	}
	if out.Scan.MinScore < 0 {
		res.addErr("scan.min_score must be >= 0")
	}
	if out.Scan.MinScore > 25 {
		res.addWarn("scan.min_score %d exceeds the maximum possible score (25); real sources will never add leads.", out.Scan.MinScore)
	}
	if out.Scan.LookbackHours < 0 {
		res.addErr("scan.lookback_hours must be > 0")
	}
	if out.Scan.PerSourceLimit < 0 {
		res.addErr("scan.per_source_limit must be > 0")
	}
	if out.Scan.SourceDelaySeconds < 0 {
		res.addErr("scan.source_delay_seconds must be >= 0")
	}
	if out.Scan.SourceDelaySeconds < 2 {
		res.addWarn("scan.source_delay_seconds is very low (%d) and may trip rate limits.", out.Scan.SourceDelaySeconds)
	}
	if out.Scan.SourceTimeoutSeconds < 0 {
		res.addErr("scan.source_timeout_seconds must be > 0")
	}

	if out.Sources.Reddit.Enabled && len(out.Sources.Reddit.Subreddits) == 0 {
		res.addErr("sources.reddit.subreddits is empty but reddit is enabled")
	}
	if out.Sources.Twitter.Enabled && len(out.Sources.Twitter.Queries) == 0 {
		res.addErr("sources.twitter.queries is empty but twitter is enabled")
	}
	if out.Sources.Feeds.Enabled && len(out.Sources.Feeds.URLs) == 0 {
		res.addErr("sources.feeds.urls is empty but feeds is enabled")
	}
	if out.Sources.LinkedIn.Enabled {
		if strings.TrimSpace(out.Sources.LinkedIn.IMAPHost) == "" {
			res.addErr("sources.linkedin.imap_host is required when linkedin is enabled")
		}
		if strings.TrimSpace(out.Sources.LinkedIn.Username) == "" {
			res.addErr("sources.linkedin.username is required when linkedin is enabled")
		}
	}
	if out.Sources.Demo.Count < 0 {
		res.addErr("sources.demo.count must be >= 0")
	}

	if !out.Sources.Reddit.Enabled && !out.Sources.Twitter.Enabled &&
		!out.Sources.LinkedIn.Enabled && !out.Sources.Feeds.Enabled &&
		!out.Sources.Demo.Enabled {
		res.addWarn("no sources enabled; runs will scan nothing.")
	}

	return out, res
}
