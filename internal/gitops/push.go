// Package gitops shells out to git for the staged-commit-push flow
// used to sync the media workspace to its remote.
package gitops

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// ErrNoChanges indicates the working tree had nothing to commit.
// Callers usually treat it as success.
var ErrNoChanges = errors.New("no changes to commit")

// Runner executes a git subcommand and returns its combined output.
// It exists so tests can fake git.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	return out.String(), err
}

// Pusher stages, commits and pushes a working tree
type Pusher struct {
	dir    string
	remote string
	branch string
	runner Runner
}

// Option configures a Pusher
type Option func(*Pusher)

// WithRunner overrides the git runner, for tests
func WithRunner(r Runner) Option {
	return func(p *Pusher) { p.runner = r }
}

// WithRemote sets the push remote (default origin)
func WithRemote(remote string) Option {
	return func(p *Pusher) { p.remote = remote }
}

// WithBranch sets the push branch (default main)
func WithBranch(branch string) Option {
	return func(p *Pusher) { p.branch = branch }
}

// NewPusher creates a Pusher for the given working tree
func NewPusher(dir string, options ...Option) *Pusher {
	p := &Pusher{
		dir:    dir,
		remote: "origin",
		branch: "main",
		runner: execRunner{},
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// DefaultMessage returns a timestamped commit message for runs where
// none was given.
func DefaultMessage(now time.Time) string {
	return "chatbay sync " + now.UTC().Format("2006-01-02 15:04:05")
}

// Push stages everything, commits with the given message and pushes.
// Returns ErrNoChanges when the tree is clean.
func (p *Pusher) Push(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		message = DefaultMessage(time.Now())
	}

	if out, err := p.runner.Run(ctx, p.dir, "add", "-A"); err != nil {
		return fmt.Errorf("git add: %w: %s", err, strings.TrimSpace(out))
	}

	// Exit 0 means nothing staged, exit 1 means there are changes.
	if _, err := p.runner.Run(ctx, p.dir, "diff", "--cached", "--quiet"); err == nil {
		slog.Info("Nothing to commit", "dir", p.dir)
		return ErrNoChanges
	} else {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() != 1 {
			return fmt.Errorf("git diff: %w", err)
		}
	}

	if out, err := p.runner.Run(ctx, p.dir, "commit", "-m", message); err != nil {
		return fmt.Errorf("git commit: %w: %s", err, strings.TrimSpace(out))
	}
	slog.Info("Committed", "message", message)

	if out, err := p.runner.Run(ctx, p.dir, "push", p.remote, p.branch); err != nil {
		return fmt.Errorf("git push: %w: %s", err, strings.TrimSpace(out))
	}
	slog.Info("Pushed", "remote", p.remote, "branch", p.branch)

	return nil
}
