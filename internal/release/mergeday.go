package release

import (
	"context"
	"fmt"
	"strings"

	"github.com/raveheart1/relkit/internal/changelog"
	"github.com/raveheart1/relkit/internal/config"
	"github.com/raveheart1/relkit/internal/output"
	"github.com/raveheart1/relkit/internal/version"
)

// Orchestrator runs the release workflows against one checkout. It holds
// no state between runs; every method reads its inputs fresh.
type Orchestrator struct {
	Repo Repository
	FS   Workspace
	Cfg  *config.Configuration
	Out  *output.Printer
}

// CutResult records what a cut-release run did.
type CutResult struct {
	Branch     string
	Version    string
	CompareURL string
	Committed  bool
	PRURL      string
}

// CycleResult records what a start-next-cycle run did.
type CycleResult struct {
	Branch     string
	Version    string
	CompareURL string
	Committed  bool
	PRURL      string
}

// DetectReleaseVersion returns the highest release-vN branch on the
// upstream remote.
func (o *Orchestrator) DetectReleaseVersion(ctx context.Context) (int, error) {
	versions, err := o.Repo.ListReleaseVersions(ctx, o.Cfg.UpstreamRemote)
	if err != nil {
		return 0, err
	}
	if len(versions) == 0 {
		return 0, fmt.Errorf("no release-v* branches found on %q", o.Cfg.UpstreamRemote)
	}
	return versions[len(versions)-1], nil
}

// CutRelease runs the cut-release workflow for version major: check out
// the upstream release branch, drop the a1 marker from the version file,
// close out the changelog section, commit, and push the branch to origin.
func (o *Orchestrator) CutRelease(ctx context.Context, major int, date string) (*CutResult, error) {
	branch := fmt.Sprintf("release-v%d", major)

	o.Out.Info("Fetching %s/%s", o.Cfg.UpstreamRemote, branch)
	refspec := fmt.Sprintf("+refs/heads/%s:refs/remotes/%s/%s", branch, o.Cfg.UpstreamRemote, branch)
	if err := o.Repo.Fetch(ctx, o.Cfg.UpstreamRemote, refspec); err != nil {
		return nil, err
	}
	if err := o.Repo.CheckoutBranch(ctx, branch, o.Cfg.UpstreamRemote+"/"+branch); err != nil {
		return nil, err
	}

	released, err := o.stripVersionFile()
	if err != nil {
		return nil, err
	}

	url, err := o.closeChangelog(major, date)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Cut release v%d.0", major)
	committed, err := o.commitBookkeeping(message)
	if err != nil {
		return nil, err
	}

	o.Out.Info("Pushing HEAD to %s:%s", o.Cfg.OriginRemote, branch)
	push := fmt.Sprintf("HEAD:refs/heads/%s", branch)
	if err := o.Repo.Push(ctx, o.Cfg.OriginRemote, push); err != nil {
		return nil, err
	}

	return &CutResult{
		Branch:     branch,
		Version:    released,
		CompareURL: url,
		Committed:  committed,
		PRURL:      o.prURL(branch, branch),
	}, nil
}

// StartNextCycle runs the start-next-cycle workflow after major shipped:
// branch off upstream main, set the version file to the next nightly
// number, close out the shipped changelog section, open the next one, and
// push the work branch to origin.
func (o *Orchestrator) StartNextCycle(ctx context.Context, major int, date string) (*CycleResult, error) {
	next := major + 1
	branch := fmt.Sprintf("start-release-v%d", next)

	o.Out.Info("Fetching %s/main", o.Cfg.UpstreamRemote)
	refspec := fmt.Sprintf("+refs/heads/main:refs/remotes/%s/main", o.Cfg.UpstreamRemote)
	if err := o.Repo.Fetch(ctx, o.Cfg.UpstreamRemote, refspec); err != nil {
		return nil, err
	}
	if err := o.Repo.CheckoutBranch(ctx, branch, o.Cfg.UpstreamRemote+"/main"); err != nil {
		return nil, err
	}

	nightly := version.Version{Major: next, Minor: 0, PreRelease: true}
	if err := o.writeVersionFile(nightly.String()); err != nil {
		return nil, err
	}

	doc, err := o.FS.ReadFile(o.Cfg.ChangelogFile)
	if err != nil {
		return nil, err
	}
	if _, found := changelog.Locate(doc, major); !found {
		o.Out.Warn("'# v%d.0 (In progress)' not found in %s; prepending next section anyway", major, o.Cfg.ChangelogFile)
	}
	updated, url := changelog.StartNextCycle(doc, major, date, o.Cfg.CompareHost)
	if err := o.FS.WriteFile(o.Cfg.ChangelogFile, updated); err != nil {
		return nil, err
	}
	o.Out.Change("%s: opened v%d.0, closed out v%d.0", o.Cfg.ChangelogFile, next, major)

	message := fmt.Sprintf("Start release v%d.0", next)
	committed, err := o.commitBookkeeping(message)
	if err != nil {
		return nil, err
	}

	o.Out.Info("Pushing HEAD to %s:%s", o.Cfg.OriginRemote, branch)
	push := fmt.Sprintf("HEAD:refs/heads/%s", branch)
	if err := o.Repo.Push(ctx, o.Cfg.OriginRemote, push); err != nil {
		return nil, err
	}

	return &CycleResult{
		Branch:     branch,
		Version:    nightly.String(),
		CompareURL: url,
		Committed:  committed,
		PRURL:      o.prURL("main", branch),
	}, nil
}

// stripVersionFile drops a trailing a1 marker from the version file and
// returns the released version string.
func (o *Orchestrator) stripVersionFile() (string, error) {
	raw, err := o.FS.ReadFile(o.Cfg.VersionFile)
	if err != nil {
		return "", err
	}
	current := strings.TrimSpace(raw)

	v, err := version.Parse(current, version.Desktop)
	if err != nil {
		return "", err
	}

	stripped := v.StripPreRelease()
	if stripped == v {
		o.Out.Verbose("%s: no trailing a1; no change", o.Cfg.VersionFile)
		return current, nil
	}

	if err := o.FS.WriteFile(o.Cfg.VersionFile, stripped.String()+"\n"); err != nil {
		return "", err
	}
	o.Out.Change("%s: %q -> %q", o.Cfg.VersionFile, current, stripped.String())
	return stripped.String(), nil
}

// writeVersionFile sets the version file to value, skipping the write when
// the file already holds it.
func (o *Orchestrator) writeVersionFile(value string) error {
	target := value + "\n"
	current, err := o.FS.ReadFile(o.Cfg.VersionFile)
	if err != nil {
		return err
	}
	if current == target {
		o.Out.Verbose("%s: already %q; no change", o.Cfg.VersionFile, value)
		return nil
	}
	if err := o.FS.WriteFile(o.Cfg.VersionFile, target); err != nil {
		return err
	}
	o.Out.Change("%s: -> %q", o.Cfg.VersionFile, value)
	return nil
}

// closeChangelog closes out the changelog section for major. A missing
// header degrades to a warning; the compare URL is reported either way.
func (o *Orchestrator) closeChangelog(major int, date string) (string, error) {
	doc, err := o.FS.ReadFile(o.Cfg.ChangelogFile)
	if err != nil {
		return "", err
	}

	updated, changed, url := changelog.CloseSection(doc, major, date, major-1, o.Cfg.CompareHost)
	if !changed {
		o.Out.Warn("'# v%d.0 (In progress)' not found in %s; nothing to close out", major, o.Cfg.ChangelogFile)
		return url, nil
	}

	if err := o.FS.WriteFile(o.Cfg.ChangelogFile, updated); err != nil {
		return "", err
	}
	o.Out.Change("%s: dated v%d.0 and resolved compare link", o.Cfg.ChangelogFile, major)
	return url, nil
}

// commitBookkeeping commits the version and changelog files when changed.
func (o *Orchestrator) commitBookkeeping(message string) (bool, error) {
	committed, err := o.Repo.Commit(message, o.Cfg.VersionFile, o.Cfg.ChangelogFile)
	if err != nil {
		return false, err
	}
	if committed {
		o.Out.Info("Committed: %s", message)
	} else {
		o.Out.Verbose("Nothing staged; skipping commit")
	}
	return committed, nil
}

// prURL builds the GitHub compare URL that opens a pull request from the
// origin work branch against the upstream base branch. Empty when either
// remote URL cannot be parsed.
func (o *Orchestrator) prURL(base, head string) string {
	upOwner, upRepo, ok := o.Repo.RemoteOwnerRepo(o.Cfg.UpstreamRemote)
	if !ok {
		return ""
	}
	orOwner, _, ok := o.Repo.RemoteOwnerRepo(o.Cfg.OriginRemote)
	if !ok {
		return ""
	}
	return fmt.Sprintf("https://github.com/%s/%s/compare/%s...%s:%s?expand=1",
		upOwner, upRepo, base, orOwner, head)
}
