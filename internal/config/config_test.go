package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureUserConfig_WritesDefaultOnce(t *testing.T) {
	dir := t.TempDir()

	path, err := EnsureUserConfig(dir)
	if err != nil {
		t.Fatalf("EnsureUserConfig: %v", err)
	}
	if path != filepath.Join(dir, "config.yml") {
		t.Errorf("Expected config.yml in data dir, got %s", path)
	}

	// A user-edited file must survive a second bootstrap.
	if err := os.WriteFile(path, []byte("store:\n  max_leads: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := EnsureUserConfig(dir); err != nil {
		t.Fatalf("EnsureUserConfig (second): %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.MaxLeads != 7 {
		t.Errorf("Expected user edit preserved, got max_leads=%d", cfg.Store.MaxLeads)
	}
}

func TestLoad_DefaultConfigParses(t *testing.T) {
	dir := t.TempDir()
	path, err := EnsureUserConfig(dir)
	if err != nil {
		t.Fatalf("EnsureUserConfig: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cfg.Sources.Reddit.Enabled {
		t.Error("Expected reddit enabled in the default config")
	}
	if len(cfg.Sources.Reddit.Subreddits) != 11 {
		t.Errorf("Expected 11 default subreddits, got %d", len(cfg.Sources.Reddit.Subreddits))
	}
	if cfg.Store.MaxLeads != 100 {
		t.Errorf("Expected max_leads 100, got %d", cfg.Store.MaxLeads)
	}
	if cfg.Scan.MinScore != 5 {
		t.Errorf("Expected min_score 5, got %d", cfg.Scan.MinScore)
	}

	_, v := NormalizeAndValidate(cfg)
	if !v.OK() {
		t.Errorf("Expected default config to validate, got errors: %v", v.Errors)
	}
}

func TestNormalizeAndValidate_Defaults(t *testing.T) {
	var cfg Config // everything unset

	out, v := NormalizeAndValidate(cfg)
	if !v.OK() {
		t.Fatalf("Expected empty config to validate, got errors: %v", v.Errors)
	}

	if out.Store.LeadsFile != "leads.json" {
		t.Errorf("Expected leads.json default, got %q", out.Store.LeadsFile)
	}
	if out.Store.MaxLeads != 100 || out.Store.MaxHistory != 100 {
		t.Errorf("Expected caps defaulted to 100, got %d/%d", out.Store.MaxLeads, out.Store.MaxHistory)
	}
	if out.Scan.SourceTimeoutSeconds != 90 {
		t.Errorf("Expected source timeout 90, got %d", out.Scan.SourceTimeoutSeconds)
	}
	if out.Sources.LinkedIn.IMAPPort != 993 || out.Sources.LinkedIn.Mailbox != "INBOX" {
		t.Errorf("Expected imap defaults, got port=%d mailbox=%q",
			out.Sources.LinkedIn.IMAPPort, out.Sources.LinkedIn.Mailbox)
	}
	if out.Publish.Remote != "origin" || out.Publish.Branch != "main" {
		t.Errorf("Expected publish defaults, got %s/%s", out.Publish.Remote, out.Publish.Branch)
	}

	// Nothing enabled is legal but worth a warning.
	if len(v.Warnings) == 0 {
		t.Error("Expected a no-sources warning")
	}
}

func TestNormalizeAndValidate_SubredditNormalization(t *testing.T) {
	var cfg Config
	cfg.Sources.Reddit.Enabled = true
	cfg.Sources.Reddit.Subreddits = []string{" r/webdev ", "webdev", "ForHire", "", "forhire"}

	out, v := NormalizeAndValidate(cfg)
	if !v.OK() {
		t.Fatalf("Unexpected errors: %v", v.Errors)
	}

	want := []string{"webdev", "ForHire"}
	if len(out.Sources.Reddit.Subreddits) != len(want) {
		t.Fatalf("Expected %v, got %v", want, out.Sources.Reddit.Subreddits)
	}
	for i := range want {
		if out.Sources.Reddit.Subreddits[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, out.Sources.Reddit.Subreddits)
			break
		}
	}
}

func TestNormalizeAndValidate_EnabledSourceNeedsInput(t *testing.T) {
	var cfg Config
	cfg.Sources.Reddit.Enabled = true // no subreddits
	cfg.Sources.LinkedIn.Enabled = true

	_, v := NormalizeAndValidate(cfg)
	if v.OK() {
		t.Fatal("Expected validation errors")
	}
	if len(v.Errors) != 3 {
		// empty subreddits + missing imap host + missing username
		t.Errorf("Expected 3 errors, got %d: %v", len(v.Errors), v.Errors)
	}
}

func TestNormalizeAndValidate_RejectsNegatives(t *testing.T) {
	var cfg Config
	cfg.Store.MaxLeads = -1
	cfg.Scan.MinScore = -5

	_, v := NormalizeAndValidate(cfg)
	if v.OK() {
		t.Fatal("Expected validation errors for negative values")
	}
}
