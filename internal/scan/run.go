// Package scan drives one full pipeline run: every configured source in
// order, one merged save, a history entry per source, then the optional
// archive and publish steps.
package scan

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"leadhunter/internal/config"
	"leadhunter/internal/domain"
	"leadhunter/internal/lead"
	"leadhunter/internal/logging"
	"leadhunter/internal/scan/demo"
	"leadhunter/internal/scan/feeds"
	"leadhunter/internal/scan/linkedin"
	"leadhunter/internal/scan/reddit"
	"leadhunter/internal/scan/twitter"
	"leadhunter/internal/scan/types"
	"leadhunter/internal/scan/util"
	"leadhunter/internal/secrets"
	"leadhunter/internal/store"
)

// Publisher pushes the data files somewhere after a run that added leads.
type Publisher interface {
	Publish(ctx context.Context, added int, paths []string) error
}

type Deps struct {
	Log      logging.Logger
	Store    *store.Store
	Archive  *store.Archive // nil disables archiving
	Publish  Publisher      // nil disables publishing
	Scanners []types.Scanner
	MinScore int
	Timeout  time.Duration // per source, zero means no bound
}

// SourceResult is one scanner's line in the run summary.
type SourceResult struct {
	Source string
	Found  int // leads the scanner surfaced, before threshold and dedup
	Added  int // leads that survived into the store
	Err    error
}

type Summary struct {
	PerSource  []SourceResult
	Added      int
	Total      int
	Published  bool
	PublishErr error
}

// Run executes one scan across all configured sources. Sources run
// strictly one after another; a failing source is reported in the summary
// and never aborts the run. Only a corrupt store or a failed save is
// fatal, and corruption is detected before any side effect.
func Run(ctx context.Context, deps Deps) (*Summary, error) {
	existing, err := deps.Store.Load()
	if err != nil {
		return nil, err
	}

	results := make([]types.Batch, len(deps.Scanners))
	errs := make([]error, len(deps.Scanners))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(1) // sources run strictly one at a time, in order
	for i, sc := range deps.Scanners {
		g.Go(func() error {
			sctx := gctx
			if deps.Timeout > 0 {
				var cancel context.CancelFunc
				sctx, cancel = context.WithTimeout(gctx, deps.Timeout)
				defer cancel()
			}
			deps.Log.WithFields(logging.Fields{"source": sc.Name()}).Info("scanning")
			batch, err := sc.Scan(sctx)
			// keep whatever the scanner got before it failed
			results[i], errs[i] = batch, err
			if err != nil {
				deps.Log.WithFields(logging.Fields{"source": sc.Name(), "err": err}).Warn("source scan failed")
			}
			return nil
		})
	}
	_ = g.Wait()

	summary := &Summary{}

	// one aggregate merge; owner attributes each added lead back to the
	// scanner that found it first
	owner := map[string]int{}
	var incoming []domain.Lead
	for i, batch := range results {
		kept := batch.Leads
		if !batch.Synthetic {
			kept = filterByScore(kept, deps.MinScore)
		}
		for _, l := range kept {
			if _, ok := owner[l.ID]; !ok {
				owner[l.ID] = i
			}
		}
		incoming = append(incoming, kept...)
		summary.PerSource = append(summary.PerSource, SourceResult{
			Source: deps.Scanners[i].Name(),
			Found:  len(batch.Leads),
			Err:    errs[i],
		})
	}

	merged, added := deps.Store.Merge(existing, incoming)
	for _, l := range added {
		summary.PerSource[owner[l.ID]].Added++
	}
	summary.Added = len(added)
	summary.Total = len(merged)

	if err := deps.Store.Save(merged); err != nil {
		return summary, err
	}

	now := time.Now()
	for _, r := range summary.PerSource {
		if r.Err != nil {
			continue // failed sources get no history entry
		}
		if err := deps.Store.RecordScan(now, r.Source, r.Added); err != nil {
			deps.Log.WithFields(logging.Fields{"source": r.Source, "err": err}).Warn("history write failed")
		}
	}

	if deps.Archive != nil {
		for _, l := range added {
			if _, err := deps.Archive.InsertIgnore(ctx, l); err != nil {
				deps.Log.WithFields(logging.Fields{"lead": l.ID, "err": err}).Warn("archive insert failed")
			}
		}
	}

	if deps.Publish != nil && summary.Added > 0 {
		paths := []string{deps.Store.LeadsPath(), deps.Store.HistoryPath()}
		if err := deps.Publish.Publish(ctx, summary.Added, paths); err != nil {
			// the save already happened; a failed push is a warning
			deps.Log.WithFields(logging.Fields{"err": err}).Warn("publish failed")
			summary.PublishErr = err
		} else {
			summary.Published = true
		}
	}

	return summary, nil
}

func filterByScore(leads []domain.Lead, min int) []domain.Lead {
	if min <= 0 {
		return leads
	}
	kept := leads[:0:0]
	for _, l := range leads {
		if l.Score >= min {
			kept = append(kept, l)
		}
	}
	return kept
}

// Scanners assembles the scanner list from configuration, in scan order.
// A source whose credentials are missing is skipped with a log line, not
// an error: a half-configured install still scans what it can.
func Scanners(cfg config.Config, client *util.Client, builder *lead.Builder, log logging.Logger) []types.Scanner {
	lookback := time.Duration(cfg.Scan.LookbackHours) * time.Hour
	limit := cfg.Scan.PerSourceLimit

	var out []types.Scanner

	if cfg.Sources.Reddit.Enabled {
		out = append(out, reddit.New(reddit.Config{
			Subreddits: cfg.Sources.Reddit.Subreddits,
			Limit:      limit,
			Lookback:   lookback,
		}, client, builder, log))
	}

	if cfg.Sources.Twitter.Enabled {
		bearer, ok := secrets.Lookup("TWITTER_BEARER_TOKEN", secrets.TwitterAccount)
		if !ok {
			log.Info("twitter enabled but no bearer token found, skipping source")
		} else {
			out = append(out, twitter.New(twitter.Config{
				Queries:  cfg.Sources.Twitter.Queries,
				Limit:    limit,
				Lookback: lookback,
				Bearer:   bearer,
			}, client, builder, log))
		}
	}

	if cfg.Sources.LinkedIn.Enabled {
		li := cfg.Sources.LinkedIn
		password, ok := secrets.Lookup("LINKEDIN_IMAP_PASSWORD", secrets.IMAPAccount(li.Username, li.IMAPHost))
		if !ok {
			log.Info("linkedin enabled but no imap password found, skipping source")
		} else {
			out = append(out, linkedin.New(linkedin.Config{
				Host:     li.IMAPHost,
				Port:     li.IMAPPort,
				Username: li.Username,
				Password: password,
				Mailbox:  li.Mailbox,
				Lookback: lookback,
				Limit:    limit,
			}, builder, log))
		}
	}

	if cfg.Sources.Feeds.Enabled {
		out = append(out, feeds.New(feeds.Config{
			URLs:     cfg.Sources.Feeds.URLs,
			Limit:    limit,
			Lookback: lookback,
		}, client, builder, log))
	}

	if cfg.Sources.Demo.Enabled {
		out = append(out, demo.New(demo.Config{Count: cfg.Sources.Demo.Count}, builder))
	}

	return out
}
