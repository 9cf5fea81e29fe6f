package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"leadhunter/internal/config"
	"leadhunter/internal/lead"
	"leadhunter/internal/logging"
	"leadhunter/internal/publish"
	"leadhunter/internal/scan"
	"leadhunter/internal/scan/util"
	"leadhunter/internal/store"
)

// Sent on real-source requests; some hosts reject obviously botty agents.
const userAgent = "Mozilla/5.0 (compatible; leadhunter/1.0)"

const requestTimeout = 15 * time.Second

type options struct {
	DataDir  string `long:"data-dir" env:"LEADHUNTER_DATA_DIR" default:"." description:"Directory holding config, leads and history"`
	Config   string `long:"config" env:"LEADHUNTER_CONFIG" description:"Config file (default: <data-dir>/config.yml, created on first run)"`
	Demo     bool   `long:"demo" description:"Skip real sources and generate sample leads"`
	MinScore int    `long:"min-score" default:"-1" description:"Override scan.min_score from the config"`
	LogLevel string `long:"log-level" env:"LOG_LEVEL" default:"info" description:"debug, info, warn or error"`
}

func main() {
	os.Exit(run())
}

func run() int {
	// Load .env before flag parsing so env-backed flags see it. Most runs
	// have no .env file and that is fine.
	_ = godotenv.Load()

	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		return 2
	}

	log := logging.New(os.Stderr, opts.LogLevel)

	cfgPath := opts.Config
	if cfgPath == "" {
		p, err := config.EnsureUserConfig(opts.DataDir)
		if err != nil {
			log.Errorf("config bootstrap failed: %v", err)
			return 1
		}
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Errorf("config load failed (%s): %v", cfgPath, err)
		return 1
	}
	cfg, check := config.NormalizeAndValidate(cfg)
	for _, w := range check.Warnings {
		log.Warn(w)
	}
	if !check.OK() {
		for _, e := range check.Errors {
			log.Error(e)
		}
		log.Errorf("config is not usable (%s)", cfgPath)
		return 1
	}

	if opts.MinScore >= 0 {
		cfg.Scan.MinScore = opts.MinScore
	}
	if opts.Demo {
		cfg.Sources.Reddit.Enabled = false
		cfg.Sources.Twitter.Enabled = false
		cfg.Sources.LinkedIn.Enabled = false
		cfg.Sources.Feeds.Enabled = false
		cfg.Sources.Demo.Enabled = true
		if cfg.Sources.Demo.Count == 0 {
			cfg.Sources.Demo.Count = 2
		}
	}

	client := util.NewClient(userAgent, time.Duration(cfg.Scan.SourceDelaySeconds)*time.Second, requestTimeout)
	scanners := scan.Scanners(cfg, client, lead.NewBuilder(), log)
	if len(scanners) == 0 {
		log.Warn("no sources available to scan; enable one in the config")
		return 0
	}

	st, err := store.Open(store.Options{
		LeadsFile:   resolve(opts.DataDir, cfg.Store.LeadsFile),
		HistoryFile: resolve(opts.DataDir, cfg.Store.HistoryFile),
		MaxLeads:    cfg.Store.MaxLeads,
		MaxHistory:  cfg.Store.MaxHistory,
	})
	if errors.Is(err, store.ErrLocked) {
		log.Error("another scan is already running against this data dir")
		return 1
	}
	if err != nil {
		log.Errorf("open store: %v", err)
		return 1
	}
	defer st.Close()

	var archive *store.Archive
	if cfg.Store.ArchiveFile != "" {
		archive, err = store.OpenArchive(resolve(opts.DataDir, cfg.Store.ArchiveFile))
		if err != nil {
			log.Warnf("archive disabled: %v", err)
			archive = nil
		} else {
			defer archive.Close()
		}
	}

	var pub scan.Publisher
	if cfg.Publish.Enabled {
		pub = publish.NewGit(publish.Config{
			Dir:    opts.DataDir,
			Remote: cfg.Publish.Remote,
			Branch: cfg.Publish.Branch,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := scan.Run(ctx, scan.Deps{
		Log:      log,
		Store:    st,
		Archive:  archive,
		Publish:  pub,
		Scanners: scanners,
		MinScore: cfg.Scan.MinScore,
		Timeout:  time.Duration(cfg.Scan.SourceTimeoutSeconds) * time.Second,
	})
	if err != nil {
		if errors.Is(err, store.ErrCorrupt) {
			log.Errorf("%v; refusing to overwrite it. Fix or remove %s and rerun.", err, st.LeadsPath())
			return 1
		}
		log.Errorf("scan failed: %v", err)
		return 1
	}

	// Report reads the freshly merged collection; the newest leads sit at
	// the head.
	leads, err := st.Load()
	if err != nil {
		log.Warnf("report: reload leads: %v", err)
	}
	printReport(os.Stdout, sum, leads)
	return 0
}

func resolve(dataDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dataDir, path)
}
