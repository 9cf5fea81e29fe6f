// Package publish commits and pushes the data files after a run that
// added leads, so a statically hosted dashboard serves the fresh
// collection.
package publish

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

type Config struct {
	Dir    string // repository root holding the data files
	Remote string
	Branch string
}

// Git publishes through the git CLI. The runner is swappable so tests can
// script the command outcomes.
type Git struct {
	cfg Config
	run func(ctx context.Context, dir string, args ...string) (string, error)
	now func() time.Time
}

func NewGit(cfg Config) *Git {
	if cfg.Remote == "" {
		cfg.Remote = "origin"
	}
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	return &Git{cfg: cfg, run: runGit, now: time.Now}
}

// Publish stages the given files, commits and pushes. A commit that finds
// nothing staged is not an error; the push still runs in case an earlier
// commit never made it out.
func (g *Git) Publish(ctx context.Context, added int, paths []string) error {
	args := append([]string{"add", "--"}, paths...)
	if out, err := g.run(ctx, g.cfg.Dir, args...); err != nil {
		return fmt.Errorf("git add: %w: %s", err, out)
	}

	msg := fmt.Sprintf("Update leads - %d new (%s)", added, g.now().UTC().Format("2006-01-02 15:04"))
	if out, err := g.run(ctx, g.cfg.Dir, "commit", "-m", msg); err != nil {
		if !strings.Contains(out, "nothing to commit") {
			return fmt.Errorf("git commit: %w: %s", err, out)
		}
	}

	if out, err := g.run(ctx, g.cfg.Dir, "push", g.cfg.Remote, g.cfg.Branch); err != nil {
		return fmt.Errorf("git push: %w: %s", err, out)
	}
	return nil
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
