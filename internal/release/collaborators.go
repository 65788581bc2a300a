package release

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Repository is the version-control collaborator. internal/git implements
// it with go-git; tests substitute a fake.
type Repository interface {
	// IsClean reports whether the working tree has no uncommitted changes.
	IsClean(ctx context.Context) (bool, error)
	// EnsureRemote adds a remote when missing.
	EnsureRemote(name, url string) error
	// HasRemote reports whether a remote is configured.
	HasRemote(name string) bool
	// Fetch fetches refspecs from a remote.
	Fetch(ctx context.Context, remote string, refspecs ...string) error
	// CheckoutBranch creates or resets a local branch at a start point and
	// checks it out (git checkout -B).
	CheckoutBranch(ctx context.Context, name, startPoint string) error
	// BranchExists reports whether a local branch exists.
	BranchExists(name string) bool
	// CreateBranchAt creates a branch at a commit without checking it out.
	CreateBranchAt(ctx context.Context, name, commit string) error
	// ResolveTag resolves a tag to the commit it points at.
	ResolveTag(ctx context.Context, tag string) (string, error)
	// FileAtCommit reads a file's contents at a commit.
	FileAtCommit(ctx context.Context, commit, path string) (string, error)
	// Commit stages paths and commits; false when nothing changed.
	Commit(message string, paths ...string) (bool, error)
	// Push pushes one refspec to a remote.
	Push(ctx context.Context, remote, refspec string) error
	// ListReleaseVersions returns the Ns of remote release-vN branches,
	// ascending.
	ListReleaseVersions(ctx context.Context, remote string) ([]int, error)
	// RemoteOwnerRepo parses owner/name from a GitHub remote URL.
	RemoteOwnerRepo(remote string) (owner, name string, ok bool)
}

// Workspace is the file collaborator. Paths are relative to the checkout
// root; the engine itself never touches the filesystem.
type Workspace interface {
	ReadFile(path string) (string, error)
	WriteFile(path, content string) error
}

// DirWorkspace is the Workspace backed by a directory on disk.
type DirWorkspace struct {
	Root string
}

// ReadFile reads a file under the workspace root.
func (w DirWorkspace) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(filepath.Join(w.Root, path))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// WriteFile writes a file under the workspace root.
func (w DirWorkspace) WriteFile(path, content string) error {
	if err := os.WriteFile(filepath.Join(w.Root, path), []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
