// Package git implements the version-control collaborator for relkit's
// release workflows using the go-git library: fetch, branch checkout and
// creation, tag resolution, commit, and push, without requiring a git CLI.
package git

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// DefaultFetchTimeout bounds fetch and push operations to prevent
// indefinite hangs on dead remotes.
const DefaultFetchTimeout = 60 * time.Second

// debugLogger is a function that logs debug messages when debug mode is
// enabled. By default it is a no-op; set it via SetDebugLogger.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Client wraps one opened repository. All relkit workflows operate on the
// checkout the process was started in.
type Client struct {
	repo *git.Repository
}

// Open opens the git repository at path, or the current working directory
// when path is empty. DetectDotGit walks up the directory tree to find the
// repository root.
func Open(path string) (*Client, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return &Client{repo: repo}, nil
}

// Root returns the absolute path of the working tree root.
func (c *Client) Root() (string, error) {
	worktree, err := c.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	return worktree.Filesystem.Root(), nil
}

// IsClean reports whether the working tree has no uncommitted changes.
func (c *Client) IsClean(ctx context.Context) (bool, error) {
	worktree, err := c.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("reading worktree status: %w", err)
	}
	return status.IsClean(), nil
}

// EnsureRemote adds a remote with the given URL when it does not already
// exist. Used to materialize the upstream remote in fork clones.
func (c *Client) EnsureRemote(name, url string) error {
	_, err := c.repo.Remote(name)
	if err == nil {
		return nil
	}
	if err != git.ErrRemoteNotFound {
		return fmt.Errorf("looking up remote %q: %w", name, err)
	}

	logDebug("[git] adding remote %q -> %s", name, url)
	_, err = c.repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}})
	if err != nil {
		return fmt.Errorf("adding remote %q: %w", name, err)
	}
	return nil
}

// HasRemote reports whether a remote with the given name is configured.
func (c *Client) HasRemote(name string) bool {
	_, err := c.repo.Remote(name)
	return err == nil
}

// Fetch fetches the given refspecs from a remote. With no refspecs it
// fetches the remote's heads and tags.
func (c *Client) Fetch(ctx context.Context, remote string, refspecs ...string) error {
	rem, err := c.repo.Remote(remote)
	if err != nil {
		return fmt.Errorf("looking up remote %q: %w", remote, err)
	}

	specs := make([]config.RefSpec, 0, len(refspecs))
	for _, s := range refspecs {
		specs = append(specs, config.RefSpec(s))
	}
	if len(specs) == 0 {
		specs = append(specs,
			config.RefSpec("+refs/heads/*:refs/remotes/"+remote+"/*"),
			config.RefSpec("+refs/tags/*:refs/tags/*"))
	}

	url := firstURL(rem)
	logDebug("[git] fetching %v from %q (%s)", refspecs, remote, url)

	err = c.repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remote,
		RefSpecs:   specs,
		Auth:       getAuthForURL(url),
		Tags:       git.AllTags,
	})
	if err == git.NoErrAlreadyUpToDate {
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetching from %q: %w", remote, err)
	}
	return nil
}

// CheckoutBranch creates or resets the local branch name at startPoint
// (a revision: remote-tracking branch, tag, or commit hash) and checks it
// out. Equivalent to `git checkout -B name startPoint`. Untracked files
// are preserved.
func (c *Client) CheckoutBranch(ctx context.Context, name, startPoint string) error {
	hash, err := c.repo.ResolveRevision(plumbing.Revision(startPoint))
	if err != nil {
		return fmt.Errorf("resolving %q: %w", startPoint, err)
	}

	worktree, err := c.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	branchRef := plumbing.NewBranchReferenceName(name)
	_, refErr := c.repo.Reference(branchRef, false)
	if refErr == nil {
		// Branch exists; move it to the start point and force-checkout.
		if err := c.repo.Storer.SetReference(plumbing.NewHashReference(branchRef, *hash)); err != nil {
			return fmt.Errorf("resetting branch %q: %w", name, err)
		}
		if err := worktree.Checkout(&git.CheckoutOptions{Branch: branchRef, Force: true}); err != nil {
			return fmt.Errorf("checking out %q: %w", name, err)
		}
		logDebug("[git] reset and checked out %s at %s", name, hash)
		return nil
	}
	if refErr != plumbing.ErrReferenceNotFound {
		return fmt.Errorf("checking branch %q: %w", name, refErr)
	}

	// Keep preserves untracked content during checkout.
	err = worktree.Checkout(&git.CheckoutOptions{
		Hash:   *hash,
		Branch: branchRef,
		Create: true,
		Keep:   true,
	})
	if err != nil {
		return fmt.Errorf("creating branch %q: %w", name, err)
	}
	logDebug("[git] created and checked out %s at %s", name, hash)
	return nil
}

// BranchExists reports whether a local branch with the given name exists.
func (c *Client) BranchExists(name string) bool {
	_, err := c.repo.Reference(plumbing.NewBranchReferenceName(name), false)
	return err == nil
}

// CreateBranchAt creates a local branch pointing at commit without checking
// it out. Fails when the branch already exists.
func (c *Client) CreateBranchAt(ctx context.Context, name, commit string) error {
	branchRef := plumbing.NewBranchReferenceName(name)
	if _, err := c.repo.Reference(branchRef, false); err == nil {
		return fmt.Errorf("branch %q already exists", name)
	}

	hash, err := c.repo.ResolveRevision(plumbing.Revision(commit))
	if err != nil {
		return fmt.Errorf("resolving %q: %w", commit, err)
	}
	if err := c.repo.Storer.SetReference(plumbing.NewHashReference(branchRef, *hash)); err != nil {
		return fmt.Errorf("creating branch %q: %w", name, err)
	}
	logDebug("[git] created branch %s at %s", name, hash)
	return nil
}

// ResolveTag resolves a tag name to the commit hash it points at,
// dereferencing annotated tags.
func (c *Client) ResolveTag(ctx context.Context, tag string) (string, error) {
	ref, err := c.repo.Tag(tag)
	if err != nil {
		return "", fmt.Errorf("tag %q: %w", tag, err)
	}

	obj, err := c.repo.TagObject(ref.Hash())
	switch err {
	case nil:
		return obj.Target.String(), nil
	case plumbing.ErrObjectNotFound:
		// Lightweight tag: the ref points straight at the commit.
		return ref.Hash().String(), nil
	default:
		return "", fmt.Errorf("reading tag object %q: %w", tag, err)
	}
}

// FileAtCommit returns the contents of path at the given commit. Used to
// read the shipped version number out of a release tag.
func (c *Client) FileAtCommit(ctx context.Context, commit, path string) (string, error) {
	hash, err := c.repo.ResolveRevision(plumbing.Revision(commit))
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", commit, err)
	}
	obj, err := c.repo.CommitObject(*hash)
	if err != nil {
		return "", fmt.Errorf("reading commit %s: %w", commit, err)
	}
	file, err := obj.File(path)
	if err != nil {
		return "", fmt.Errorf("file %q at %s: %w", path, commit, err)
	}
	return file.Contents()
}

// Commit stages the given paths and commits them with message. Returns
// false without committing when none of the paths carry changes, so
// re-runs of an already-applied workflow stay no-ops.
func (c *Client) Commit(message string, paths ...string) (bool, error) {
	worktree, err := c.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	for _, p := range paths {
		if _, err := worktree.Add(p); err != nil {
			return false, fmt.Errorf("staging %q: %w", p, err)
		}
	}

	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("reading worktree status: %w", err)
	}
	staged := false
	for _, p := range paths {
		if s := status.File(p); s.Staging != git.Unmodified && s.Staging != git.Untracked {
			staged = true
			break
		}
	}
	if !staged {
		logDebug("[git] nothing staged; skipping commit")
		return false, nil
	}

	if _, err := worktree.Commit(message, &git.CommitOptions{}); err != nil {
		return false, fmt.Errorf("committing: %w", err)
	}
	logDebug("[git] committed: %s", message)
	return true, nil
}

// Push pushes a single refspec to the remote.
func (c *Client) Push(ctx context.Context, remote, refspec string) error {
	rem, err := c.repo.Remote(remote)
	if err != nil {
		return fmt.Errorf("looking up remote %q: %w", remote, err)
	}

	err = c.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remote,
		RefSpecs:   []config.RefSpec{config.RefSpec(refspec)},
		Auth:       getAuthForURL(firstURL(rem)),
	})
	if err == git.NoErrAlreadyUpToDate {
		return nil
	}
	if err != nil {
		return fmt.Errorf("pushing %q to %q: %w", refspec, remote, err)
	}
	return nil
}

var releaseBranchRe = regexp.MustCompile(`^refs/heads/release-v(\d+)$`)

// ListReleaseVersions queries the remote for branches named release-v<N>
// and returns the Ns in ascending order.
func (c *Client) ListReleaseVersions(ctx context.Context, remote string) ([]int, error) {
	rem, err := c.repo.Remote(remote)
	if err != nil {
		return nil, fmt.Errorf("looking up remote %q: %w", remote, err)
	}

	refs, err := rem.ListContext(ctx, &git.ListOptions{Auth: getAuthForURL(firstURL(rem))})
	if err != nil {
		return nil, fmt.Errorf("listing refs on %q: %w", remote, err)
	}

	var versions []int
	for _, ref := range refs {
		if n, ok := parseReleaseRef(ref.Name().String()); ok {
			versions = append(versions, n)
		}
	}
	sort.Ints(versions)
	return versions, nil
}

// parseReleaseRef extracts N from a refs/heads/release-vN name.
func parseReleaseRef(ref string) (int, bool) {
	m := releaseBranchRe.FindStringSubmatch(ref)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// RemoteOwnerRepo parses the owner and repository name out of a GitHub
// remote URL (SSH or HTTPS). ok is false when the URL has another shape.
func (c *Client) RemoteOwnerRepo(remote string) (owner, name string, ok bool) {
	rem, err := c.repo.Remote(remote)
	if err != nil {
		return "", "", false
	}
	return ParseOwnerRepo(firstURL(rem))
}

// ParseOwnerRepo parses owner/name from a GitHub remote URL.
func ParseOwnerRepo(url string) (owner, name string, ok bool) {
	var path string
	switch {
	case strings.HasPrefix(url, "git@github.com:"):
		path = strings.TrimPrefix(url, "git@github.com:")
	case strings.HasPrefix(url, "https://github.com/"):
		path = strings.TrimPrefix(url, "https://github.com/")
	default:
		return "", "", false
	}

	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), true
}

func firstURL(rem *git.Remote) string {
	if urls := rem.Config().URLs; len(urls) > 0 {
		return urls[0]
	}
	return ""
}

// getAuthForURL returns the appropriate authentication method for a remote
// URL. SSH URLs use SSH agent auth, HTTPS URLs use environment credentials.
func getAuthForURL(url string) transport.AuthMethod {
	if isSSHURL(url) {
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			logDebug("[git] SSH agent auth failed: %v", err)
			return nil
		}
		return auth
	}

	username := os.Getenv("GIT_USERNAME")
	password := os.Getenv("GIT_PASSWORD")
	if username == "" {
		username = os.Getenv("GITHUB_TOKEN")
		if username != "" {
			password = "" // GitHub token can be used as username with empty password
		}
	}

	if username != "" {
		return &http.BasicAuth{Username: username, Password: password}
	}
	return nil
}

// isSSHURL checks if a URL is an SSH URL.
// Detects git@ (SCP-style), ssh://, and git+ssh:// schemes.
func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}
