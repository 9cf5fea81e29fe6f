package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Store struct {
		LeadsFile   string `yaml:"leads_file"`
		HistoryFile string `yaml:"history_file"`
		ArchiveFile string `yaml:"archive_file"` // empty disables the sqlite archive
		MaxLeads    int    `yaml:"max_leads"`
		MaxHistory  int    `yaml:"max_history"`
	} `yaml:"store"`

	Scan struct {
		MinScore             int `yaml:"min_score"`
		LookbackHours        int `yaml:"lookback_hours"`
		PerSourceLimit       int `yaml:"per_source_limit"`
		SourceDelaySeconds   int `yaml:"source_delay_seconds"`
		SourceTimeoutSeconds int `yaml:"source_timeout_seconds"`
	} `yaml:"scan"`

	Sources struct {
		Reddit struct {
			Enabled    bool     `yaml:"enabled"`
			Subreddits []string `yaml:"subreddits"`
		} `yaml:"reddit"`

		Twitter struct {
			Enabled bool     `yaml:"enabled"`
			Queries []string `yaml:"queries"`
		} `yaml:"twitter"`

		LinkedIn struct {
			Enabled  bool   `yaml:"enabled"`
			IMAPHost string `yaml:"imap_host"`
			IMAPPort int    `yaml:"imap_port"`
			Username string `yaml:"username"`
			Mailbox  string `yaml:"mailbox"`
		} `yaml:"linkedin"`

		Feeds struct {
			Enabled bool     `yaml:"enabled"`
			URLs    []string `yaml:"urls"`
		} `yaml:"feeds"`

		Demo struct {
			Enabled bool `yaml:"enabled"`
			Count   int  `yaml:"count"` // upper bound per run
		} `yaml:"demo"`
	} `yaml:"sources"`

	Publish struct {
		Enabled bool   `yaml:"enabled"`
		Remote  string `yaml:"remote"`
		Branch  string `yaml:"branch"`
	} `yaml:"publish"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

//go:embed default.yml
var defaultYAML []byte

// EnsureUserConfig writes the built-in default config into dataDir on first
// run and returns the path to the active file. An existing config.yml is
// never touched.
func EnsureUserConfig(dataDir string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(userPath, defaultYAML, 0o644); err != nil {
		return "", err
	}
	return userPath, nil
}
