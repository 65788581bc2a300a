// Package testutil provides the end-to-end test harness for relkit. It
// builds the binary once per test session and fabricates throwaway git
// repositories so workflows run against local remotes only, never the
// network.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"
)

var (
	// relkitBinaryPath caches the built relkit binary path.
	relkitBinaryPath string
	relkitBuildOnce  sync.Once
	relkitBuildErr   error
)

// E2EEnv is an isolated environment for end-to-end tests: a temp HOME, a
// working checkout, and local upstream/origin remotes.
type E2EEnv struct {
	t       *testing.T
	tempDir string

	// WorkDir is the checkout commands run in.
	WorkDir string
	// UpstreamDir is the local repository standing in for the canonical
	// remote. OriginDir is the bare push target.
	UpstreamDir string
	OriginDir   string
}

// CommandResult captures the result of one relkit invocation.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// NewE2EEnv builds relkit (once) and creates an isolated environment.
func NewE2EEnv(t *testing.T) *E2EEnv {
	t.Helper()

	env := &E2EEnv{t: t, tempDir: t.TempDir()}
	env.WorkDir = filepath.Join(env.tempDir, "work")
	if err := os.MkdirAll(env.WorkDir, 0o755); err != nil {
		t.Fatalf("creating work dir: %v", err)
	}

	relkitBuildOnce.Do(func() {
		relkitBinaryPath, relkitBuildErr = buildRelkit()
	})
	if relkitBuildErr != nil {
		t.Fatalf("building relkit: %v", relkitBuildErr)
	}

	return env
}

func buildRelkit() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("determining current file location")
	}
	repoRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")

	tmpDir, err := os.MkdirTemp("", "relkit-build-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir for build: %w", err)
	}

	binaryPath := filepath.Join(tmpDir, "relkit")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/relkit")
	cmd.Dir = repoRoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("building relkit: %w\noutput: %s", err, output)
	}
	return binaryPath, nil
}

// Run executes relkit with args inside the work checkout. HOME points at
// the temp dir so no user config or credentials leak in.
func (e *E2EEnv) Run(args ...string) CommandResult {
	e.t.Helper()

	start := time.Now()
	cmd := exec.Command(relkitBinaryPath, args...)
	cmd.Dir = e.WorkDir
	cmd.Env = []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + e.tempDir,
		"NO_COLOR=1",
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	result := CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
		}
	}
	return result
}

// Git runs a git command in dir and fails the test on error.
func (e *E2EEnv) Git(dir string, args ...string) string {
	e.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"HOME="+e.tempDir,
		"GIT_AUTHOR_NAME=relkit-e2e",
		"GIT_AUTHOR_EMAIL=e2e@example.invalid",
		"GIT_COMMITTER_NAME=relkit-e2e",
		"GIT_COMMITTER_EMAIL=e2e@example.invalid",
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		e.t.Fatalf("git %v in %s: %v\n%s", args, dir, err, output)
	}
	return string(output)
}

// WriteFile writes a file under dir, creating parents.
func (e *E2EEnv) WriteFile(dir, name, content string) {
	e.t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("writing %s: %v", path, err)
	}
}

// ReadFile reads a file under dir.
func (e *E2EEnv) ReadFile(dir, name string) string {
	e.t.Helper()

	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		e.t.Fatalf("reading %s: %v", name, err)
	}
	return string(content)
}

// SetupServicesRepo fabricates an application-services style layout: an
// upstream repo seeded with version.txt and CHANGELOG.md on main plus a
// release-v<major> branch, a bare origin, and a work clone with both
// remotes and a project config wired to them.
func (e *E2EEnv) SetupServicesRepo(major int, versionContent, changelogContent string) {
	e.t.Helper()

	e.UpstreamDir = filepath.Join(e.tempDir, "upstream")
	if err := os.MkdirAll(e.UpstreamDir, 0o755); err != nil {
		e.t.Fatalf("creating upstream dir: %v", err)
	}
	e.Git(e.UpstreamDir, "init", "-b", "main")
	e.WriteFile(e.UpstreamDir, "version.txt", versionContent)
	e.WriteFile(e.UpstreamDir, "CHANGELOG.md", changelogContent)
	e.Git(e.UpstreamDir, "add", ".")
	e.Git(e.UpstreamDir, "commit", "-m", "Seed repository")
	e.Git(e.UpstreamDir, "branch", fmt.Sprintf("release-v%d", major))

	e.OriginDir = filepath.Join(e.tempDir, "origin.git")
	e.Git(e.tempDir, "init", "--bare", e.OriginDir)

	e.Git(e.tempDir, "clone", e.UpstreamDir, e.WorkDir)
	e.Git(e.WorkDir, "remote", "rename", "origin", "upstream")
	e.Git(e.WorkDir, "remote", "add", "origin", e.OriginDir)
	e.Git(e.WorkDir, "config", "user.name", "relkit-e2e")
	e.Git(e.WorkDir, "config", "user.email", "e2e@example.invalid")

	e.WriteFile(e.WorkDir, ".relkit/config.yml", fmt.Sprintf(`compare_host: github.com/mozilla/application-services
upstream_remote: upstream
upstream_url: %q
origin_remote: origin
version_file: version.txt
changelog_file: CHANGELOG.md
timezone: UTC
`, e.UpstreamDir))
}

// SetupIOSRepo fabricates a firefox-ios style checkout: a bare origin and
// a work clone carrying version.txt and bitrise.yml on main.
func (e *E2EEnv) SetupIOSRepo(versionContent, bitriseContent string) {
	e.t.Helper()

	seedDir := filepath.Join(e.tempDir, "seed")
	if err := os.MkdirAll(seedDir, 0o755); err != nil {
		e.t.Fatalf("creating seed dir: %v", err)
	}
	e.Git(seedDir, "init", "-b", "main")
	e.WriteFile(seedDir, "version.txt", versionContent)
	e.WriteFile(seedDir, "bitrise.yml", bitriseContent)
	e.Git(seedDir, "add", ".")
	e.Git(seedDir, "commit", "-m", "Seed repository")

	e.OriginDir = filepath.Join(e.tempDir, "origin.git")
	e.Git(e.tempDir, "init", "--bare", e.OriginDir)
	e.Git(seedDir, "push", e.OriginDir, "main")

	e.Git(e.tempDir, "clone", e.OriginDir, e.WorkDir)
	e.Git(e.WorkDir, "config", "user.name", "relkit-e2e")
	e.Git(e.WorkDir, "config", "user.email", "e2e@example.invalid")

	e.WriteFile(e.WorkDir, ".relkit/config.yml", `origin_remote: origin
timezone: UTC
ios:
  version_file: version.txt
  bitrise_file: bitrise.yml
  release_branch_prefix: release/
`)
}
