package release

import (
	"context"
	"fmt"
	"strings"

	"github.com/raveheart1/relkit/internal/version"
)

// IOSResult records what an iOS merge-day run did.
type IOSResult struct {
	Current       string
	Next          string
	ReleaseBranch string
	Pushed        bool
}

// IOSMergeDay runs the firefox-ios merge day: branch release/v<current>
// off the tip of main, then roll the version on main (X.0 -> X.1 -> X.2 ->
// X.3 -> X+1.0) and commit the bump. When push is set, both the release
// branch and main are pushed to origin.
func (o *Orchestrator) IOSMergeDay(ctx context.Context, push bool) (*IOSResult, error) {
	clean, err := o.Repo.IsClean(ctx)
	if err != nil {
		return nil, err
	}
	if !clean {
		return nil, fmt.Errorf("working directory has uncommitted changes; commit or stash them first")
	}

	o.Out.Info("Fetching %s/main", o.Cfg.OriginRemote)
	refspec := fmt.Sprintf("+refs/heads/main:refs/remotes/%s/main", o.Cfg.OriginRemote)
	if err := o.Repo.Fetch(ctx, o.Cfg.OriginRemote, refspec); err != nil {
		return nil, err
	}
	if err := o.Repo.CheckoutBranch(ctx, "main", o.Cfg.OriginRemote+"/main"); err != nil {
		return nil, err
	}

	raw, err := o.FS.ReadFile(o.Cfg.IOS.VersionFile)
	if err != nil {
		return nil, err
	}
	current, err := version.Parse(strings.TrimSpace(raw), version.IOSRolling)
	if err != nil {
		return nil, err
	}
	next := current.Bump(version.IOSRolling)
	o.Out.Info("Current version %s; next will be %s", current, next)

	branch := o.Cfg.IOS.ReleaseBranchPrefix + "v" + current.String()
	if err := o.Repo.CreateBranchAt(ctx, branch, "HEAD"); err != nil {
		return nil, err
	}
	o.Out.Success("Created branch %s", branch)

	if err := o.FS.WriteFile(o.Cfg.IOS.VersionFile, next.String()+"\n"); err != nil {
		return nil, err
	}
	o.Out.Change("%s: %q -> %q", o.Cfg.IOS.VersionFile, current.String(), next.String())

	message := fmt.Sprintf("Bump version to %s", next)
	if _, err := o.Repo.Commit(message, o.Cfg.IOS.VersionFile); err != nil {
		return nil, err
	}
	o.Out.Info("Committed: %s", message)

	if push {
		o.Out.Info("Pushing %s and main to %s", branch, o.Cfg.OriginRemote)
		branchSpec := fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch)
		if err := o.Repo.Push(ctx, o.Cfg.OriginRemote, branchSpec); err != nil {
			return nil, err
		}
		if err := o.Repo.Push(ctx, o.Cfg.OriginRemote, "refs/heads/main:refs/heads/main"); err != nil {
			return nil, err
		}
	}

	return &IOSResult{
		Current:       current.String(),
		Next:          next.String(),
		ReleaseBranch: branch,
		Pushed:        push,
	}, nil
}
