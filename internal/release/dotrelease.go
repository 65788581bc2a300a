package release

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/raveheart1/relkit/internal/version"
)

// channelRe matches the supported dot-release channels: "release" or
// "esr<major>".
var channelRe = regexp.MustCompile(`^(?i)(release|esr\d+)$`)

// milestoneRe matches the version line rewritten inside milestone.txt.
var milestoneRe = regexp.MustCompile(`^\d+\.\d+(\.\d+)?$`)

// DotReleaseResult records what a cut-dot-release run did.
type DotReleaseResult struct {
	Channel      string
	BaseVersion  string
	NewVersion   string
	Tag          string
	Commit       string
	RelBranch    string
	LandoCommand string
}

// CutDotRelease cuts a dot-release branch on an ESR or Release channel:
// derive the last shipped base version, resolve its release tag to a
// commit, branch a RELBRANCH from that commit, bump the version, rewrite
// the version files, and commit. Pushing is left to lando; the returned
// LandoCommand is printed for the operator.
func (o *Orchestrator) CutDotRelease(ctx context.Context, channel string) (*DotReleaseResult, error) {
	if !channelRe.MatchString(channel) {
		return nil, fmt.Errorf("unexpected channel %q: want \"release\" or \"esr<major>\" (e.g. esr140)", channel)
	}
	isESR := !strings.EqualFold(channel, "release")
	gitBranch := strings.ToLower(channel)

	o.Out.Info("Fetching %s/%s", o.Cfg.OriginRemote, gitBranch)
	refspec := fmt.Sprintf("+refs/heads/%s:refs/remotes/%s/%s", gitBranch, o.Cfg.OriginRemote, gitBranch)
	if err := o.Repo.Fetch(ctx, o.Cfg.OriginRemote, refspec); err != nil {
		return nil, err
	}
	if err := o.Repo.CheckoutBranch(ctx, gitBranch, o.Cfg.OriginRemote+"/"+gitBranch); err != nil {
		return nil, err
	}

	policy := version.ReleaseDot
	if isESR {
		policy = version.ESRDot
	}

	raw, err := o.FS.ReadFile(o.Cfg.Firefox.VersionFile)
	if err != nil {
		return nil, err
	}
	current, err := version.Parse(strings.TrimSpace(raw), policy)
	if err != nil {
		return nil, err
	}
	o.Out.Info("Current version: %s", current)

	var base version.Version
	var tag, relbranch string
	if isESR {
		base, err = version.BaseVersionForDotRelease(current)
		if err != nil {
			return nil, err
		}
		tag = fmt.Sprintf("FIREFOX_%sesr_RELEASE", strings.ReplaceAll(base.String(), ".", "_"))
		relbranch = fmt.Sprintf("FIREFOX_ESR_%d_%d_X_RELBRANCH", base.Major, base.Minor)
	} else {
		prevMajor := current.Major - 1
		tag = fmt.Sprintf("FIREFOX_RELEASE_%d_END", prevMajor)
		relbranch = fmt.Sprintf("FIREFOX_%d_0_X_RELBRANCH", prevMajor)
	}

	o.Out.Info("Fetching tag %s", tag)
	tagSpec := fmt.Sprintf("+refs/tags/%s:refs/tags/%s", tag, tag)
	if err := o.Repo.Fetch(ctx, o.Cfg.OriginRemote, tagSpec); err != nil {
		o.Out.Verbose("tag fetch failed (may already be local): %v", err)
	}

	commit, err := o.Repo.ResolveTag(ctx, tag)
	if err != nil {
		return nil, &AmbiguousTagError{Tag: tag, Err: err}
	}

	if !isESR {
		// The Release channel reads the shipped base out of the tag itself.
		shipped, err := o.Repo.FileAtCommit(ctx, commit, o.Cfg.Firefox.VersionFile)
		if err != nil {
			return nil, &AmbiguousTagError{Tag: tag, Err: err}
		}
		base, err = version.Parse(strings.TrimSpace(shipped), policy)
		if err != nil {
			return nil, err
		}
	}
	o.Out.Info("Previous version base: %s", base)

	if o.Repo.BranchExists(relbranch) {
		return nil, fmt.Errorf("branch %q already exists; delete it or choose another name", relbranch)
	}
	if err := o.Repo.CheckoutBranch(ctx, relbranch, commit); err != nil {
		return nil, err
	}
	o.Out.Success("Created branch %s from commit %s", relbranch, commit)

	next := base.Bump(policy)
	o.Out.Info("New version will be: %s", next)
	if err := o.writeDotReleaseFiles(next, isESR); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("No bug - Bump version to %s a=me", next)
	if _, err := o.Repo.Commit(message,
		o.Cfg.Firefox.VersionFile,
		o.Cfg.Firefox.DisplayVersionFile,
		o.Cfg.Firefox.MilestoneFile); err != nil {
		return nil, err
	}
	o.Out.Info("Version bump committed: %s", next)

	return &DotReleaseResult{
		Channel:     gitBranch,
		BaseVersion: base.String(),
		NewVersion:  next.String(),
		Tag:         tag,
		Commit:      commit,
		RelBranch:   relbranch,
		LandoCommand: fmt.Sprintf("lando push-commits --lando-repo firefox-%s --relbranch %s",
			gitBranch, relbranch),
	}, nil
}

// writeDotReleaseFiles updates version.txt, version_display.txt, and the
// milestone file for the bumped version.
func (o *Orchestrator) writeDotReleaseFiles(v version.Version, esr bool) error {
	display := v.String()
	if esr {
		display += "esr"
	}

	if err := o.FS.WriteFile(o.Cfg.Firefox.VersionFile, v.String()+"\n"); err != nil {
		return err
	}
	o.Out.Change("%s: -> %q", o.Cfg.Firefox.VersionFile, v.String())

	if err := o.FS.WriteFile(o.Cfg.Firefox.DisplayVersionFile, display+"\n"); err != nil {
		return err
	}
	o.Out.Change("%s: -> %q", o.Cfg.Firefox.DisplayVersionFile, display)

	milestone, err := o.FS.ReadFile(o.Cfg.Firefox.MilestoneFile)
	if err != nil {
		return err
	}
	if err := o.FS.WriteFile(o.Cfg.Firefox.MilestoneFile, RewriteMilestone(milestone, v.String())); err != nil {
		return err
	}
	o.Out.Change("%s: milestone -> %q", o.Cfg.Firefox.MilestoneFile, v.String())
	return nil
}

// RewriteMilestone replaces the first bare version line of a milestone
// file with v, leaving every other byte as found.
func RewriteMilestone(content, v string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if milestoneRe.MatchString(line) {
			lines[i] = v
			break
		}
	}
	return strings.Join(lines, "\n")
}
