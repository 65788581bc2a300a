package cli

import (
	"context"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/raveheart1/relkit/internal/config"
	"github.com/raveheart1/relkit/internal/errors"
	"github.com/raveheart1/relkit/internal/git"
	"github.com/raveheart1/relkit/internal/output"
	"github.com/raveheart1/relkit/internal/release"
)

// loadConfig loads and validates configuration for a command run.
func loadConfig() (*config.Configuration, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, errors.WrapWithMessage(err, errors.Configuration,
			"loading configuration",
			"Run 'relkit config init' to write a starter config",
			"Check ~/.config/relkit/config.yml and .relkit/config.yml for syntax errors")
	}
	return cfg, nil
}

// newOrchestrator opens the checkout in the working directory and wires
// the release orchestrator over it.
func newOrchestrator(cfg *config.Configuration, out *output.Printer) (*release.Orchestrator, error) {
	client, err := git.Open(".")
	if err != nil {
		return nil, errors.WrapWithMessage(err, errors.Prerequisite,
			"opening git repository",
			"Run relkit from inside the checkout it should operate on")
	}
	root, err := client.Root()
	if err != nil {
		return nil, errors.WrapWithMessage(err, errors.Prerequisite, "locating repository root")
	}
	if verboseFlag {
		git.SetDebugLogger(out.Verbose)
	}

	// Fork clones often lack the canonical remote; add it on first use.
	if cfg.UpstreamURL != "" && !client.HasRemote(cfg.UpstreamRemote) {
		if err := client.EnsureRemote(cfg.UpstreamRemote, cfg.UpstreamURL); err != nil {
			return nil, errors.WrapWithMessage(err, errors.Prerequisite,
				"adding remote "+cfg.UpstreamRemote)
		}
		out.Verbose("Added remote %s -> %s", cfg.UpstreamRemote, cfg.UpstreamURL)
	}

	return &release.Orchestrator{
		Repo: client,
		FS:   release.DirWorkspace{Root: root},
		Cfg:  cfg,
		Out:  out,
	}, nil
}

// commandContext bounds a network-bound command run by the configured
// fetch timeout.
func commandContext(parent context.Context, cfg *config.Configuration) (context.Context, context.CancelFunc) {
	timeout := cfg.FetchTimeout()
	if timeout <= 0 {
		timeout = git.DefaultFetchTimeout
	}
	return context.WithTimeout(parent, timeout)
}

// withSpinner shows a spinner on stderr while fn runs, when stderr is a
// terminal and quiet mode is off.
func withSpinner(message string, fn func() error) error {
	if quietFlag || !output.IsTTY() {
		return fn()
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	s.Start()
	defer s.Stop()
	return fn()
}
