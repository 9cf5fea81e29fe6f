// Package linkedin recovers leads from LinkedIn notification mail. There
// is no affordable post-search API, but a saved search for "need a website"
// delivers matching posts to the inbox; this scanner reads those mails over
// IMAP, pulls the post permalinks out of the HTML part and marks the mail
// seen so the next run starts fresh.
package linkedin

import (
	"context"
	"time"

	"github.com/emersion/go-imap/v2"

	"leadhunter/internal/domain"
	"leadhunter/internal/lead"
	"leadhunter/internal/logging"
	"leadhunter/internal/scan/types"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string // app password; gmail requires 2FA + app password
	Mailbox  string
	Lookback time.Duration
	Limit    int // max messages per scan
}

// session is the slice of IMAP this scanner needs. The real one lives in
// mail.go; tests swap in a fake.
type session interface {
	FetchUnseen(ctx context.Context, max int, since time.Time) ([]message, error)
	MarkSeen(uids []imap.UID) error
	Close()
}

// message is one fetched mail, body unparsed.
type message struct {
	UID     imap.UID
	From    string
	Subject string
	Date    time.Time
	Raw     []byte
}

type Scanner struct {
	cfg     Config
	builder *lead.Builder
	log     logging.Logger
	dial    func(ctx context.Context, cfg Config) (session, error)
}

func New(cfg Config, builder *lead.Builder, log logging.Logger) *Scanner {
	if cfg.Port <= 0 {
		cfg.Port = 993
	}
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 50
	}
	return &Scanner{cfg: cfg, builder: builder, log: log, dial: dialIMAP}
}

func (s *Scanner) Name() string { return "linkedin" }

func (s *Scanner) Scan(ctx context.Context) (types.Batch, error) {
	batch := types.Batch{Source: domain.SourceLinkedIn}

	sess, err := s.dial(ctx, s.cfg)
	if err != nil {
		return batch, err
	}
	defer sess.Close()

	msgs, err := sess.FetchUnseen(ctx, s.cfg.Limit, time.Now().Add(-s.cfg.Lookback))
	if err != nil {
		return batch, err
	}

	// Only notification mail gets marked seen; everything else in the
	// mailbox stays untouched.
	var processed []imap.UID
	seen := map[string]bool{}

	for _, m := range msgs {
		if ctx.Err() != nil {
			break
		}
		if !fromLinkedIn(m.From) {
			continue
		}
		for _, p := range postsFromMessage(m) {
			if seen[p.activityID] {
				continue
			}
			seen[p.activityID] = true
			l, err := s.builder.Build(p)
			if err != nil {
				continue
			}
			batch.Leads = append(batch.Leads, l)
		}
		processed = append(processed, m.UID)
	}

	if err := sess.MarkSeen(processed); err != nil {
		s.log.WithFields(logging.Fields{"err": err}).Warn("linkedin mark seen failed")
	}
	return batch, ctx.Err()
}
