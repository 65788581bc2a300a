package release

import (
	"context"
	"fmt"
	"io"

	"github.com/raveheart1/relkit/internal/config"
	"github.com/raveheart1/relkit/internal/output"
)

// fakeRepo is an in-memory Repository recording every call.
type fakeRepo struct {
	clean           bool
	remotes         map[string]string // name -> url
	branches        map[string]bool
	tags            map[string]string // tag -> commit
	filesAtCommit   map[string]string // commit + ":" + path -> content
	releaseVersions []int

	fetches   []string
	checkouts []string
	created   []string
	commits   []string
	pushes    []string

	fetchErr   error
	resolveErr error
	pushErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		clean: true,
		remotes: map[string]string{
			"upstream": "https://github.com/mozilla/application-services.git",
			"origin":   "git@github.com:someone/application-services.git",
		},
		branches:      map[string]bool{},
		tags:          map[string]string{},
		filesAtCommit: map[string]string{},
	}
}

func (r *fakeRepo) IsClean(ctx context.Context) (bool, error) { return r.clean, nil }

func (r *fakeRepo) EnsureRemote(name, url string) error {
	if _, ok := r.remotes[name]; !ok {
		r.remotes[name] = url
	}
	return nil
}

func (r *fakeRepo) HasRemote(name string) bool {
	_, ok := r.remotes[name]
	return ok
}

func (r *fakeRepo) Fetch(ctx context.Context, remote string, refspecs ...string) error {
	r.fetches = append(r.fetches, fmt.Sprintf("%s %v", remote, refspecs))
	return r.fetchErr
}

func (r *fakeRepo) CheckoutBranch(ctx context.Context, name, startPoint string) error {
	r.checkouts = append(r.checkouts, name+"@"+startPoint)
	r.branches[name] = true
	return nil
}

func (r *fakeRepo) BranchExists(name string) bool { return r.branches[name] }

func (r *fakeRepo) CreateBranchAt(ctx context.Context, name, commit string) error {
	if r.branches[name] {
		return fmt.Errorf("branch %q already exists", name)
	}
	r.branches[name] = true
	r.created = append(r.created, name+"@"+commit)
	return nil
}

func (r *fakeRepo) ResolveTag(ctx context.Context, tag string) (string, error) {
	if r.resolveErr != nil {
		return "", r.resolveErr
	}
	commit, ok := r.tags[tag]
	if !ok {
		return "", fmt.Errorf("tag %q not found", tag)
	}
	return commit, nil
}

func (r *fakeRepo) FileAtCommit(ctx context.Context, commit, path string) (string, error) {
	content, ok := r.filesAtCommit[commit+":"+path]
	if !ok {
		return "", fmt.Errorf("file %q at %s not found", path, commit)
	}
	return content, nil
}

func (r *fakeRepo) Commit(message string, paths ...string) (bool, error) {
	r.commits = append(r.commits, message)
	return true, nil
}

func (r *fakeRepo) Push(ctx context.Context, remote, refspec string) error {
	if r.pushErr != nil {
		return r.pushErr
	}
	r.pushes = append(r.pushes, remote+" "+refspec)
	return nil
}

func (r *fakeRepo) ListReleaseVersions(ctx context.Context, remote string) ([]int, error) {
	return r.releaseVersions, nil
}

func (r *fakeRepo) RemoteOwnerRepo(remote string) (owner, name string, ok bool) {
	url, found := r.remotes[remote]
	if !found {
		return "", "", false
	}
	return parseFakeURL(url)
}

// parseFakeURL mirrors the git package parsing for the two URL shapes the
// fakes use.
func parseFakeURL(url string) (string, string, bool) {
	for _, prefix := range []string{"https://github.com/", "git@github.com:"} {
		if len(url) > len(prefix) && url[:len(prefix)] == prefix {
			rest := url[len(prefix):]
			for i := 0; i < len(rest); i++ {
				if rest[i] == '/' {
					name := rest[i+1:]
					if len(name) > 4 && name[len(name)-4:] == ".git" {
						name = name[:len(name)-4]
					}
					return rest[:i], name, true
				}
			}
		}
	}
	return "", "", false
}

// fakeFS is an in-memory Workspace.
type fakeFS struct {
	files  map[string]string
	writes []string
}

func newFakeFS() *fakeFS {
	return &fakeFS{files: map[string]string{}}
}

func (f *fakeFS) ReadFile(path string) (string, error) {
	content, ok := f.files[path]
	if !ok {
		return "", fmt.Errorf("reading %s: file not found", path)
	}
	return content, nil
}

func (f *fakeFS) WriteFile(path, content string) error {
	f.files[path] = content
	f.writes = append(f.writes, path)
	return nil
}

// testConfig returns a Configuration with the defaults the workflows need.
func testConfig() *config.Configuration {
	return &config.Configuration{
		CompareHost:         "github.com/mozilla/application-services",
		UpstreamRemote:      "upstream",
		OriginRemote:        "origin",
		VersionFile:         "version.txt",
		ChangelogFile:       "CHANGELOG.md",
		FetchTimeoutSeconds: 60,
		Firefox: config.FirefoxConfig{
			VersionFile:        "browser/config/version.txt",
			DisplayVersionFile: "browser/config/version_display.txt",
			MilestoneFile:      "config/milestone.txt",
		},
		IOS: config.IOSConfig{
			VersionFile:         "version.txt",
			BitriseFile:         "bitrise.yml",
			ReleaseBranchPrefix: "release/",
		},
	}
}

// newTestOrchestrator wires an Orchestrator over fakes with quiet output.
func newTestOrchestrator(repo *fakeRepo, fs *fakeFS) *Orchestrator {
	return &Orchestrator{
		Repo: repo,
		FS:   fs,
		Cfg:  testConfig(),
		Out:  output.NewWithWriters(io.Discard, io.Discard, output.Quiet),
	}
}
